package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const notifyTimeout = 2 * time.Second

type Options struct {
	Policy     frontdesk.Policy
	Store      Store
	Notifiers  []Notifier
	Authorizer frontdesk.Authorizer
	// Clock defaults to time.Now.
	Clock  func() time.Time
	NewID  func() uuid.UUID
	Logger *zerolog.Logger
}

// FrontDeskService owns the live State. Commands are serialised by mu; each one computes the
// next State, persists it when a store is configured, swaps it in and then notifies.
type FrontDeskService struct {
	mu    sync.Mutex
	state frontdesk.State

	machine   frontdesk.Machine
	policy    frontdesk.Policy
	store     Store
	notifiers []Notifier
	auth      frontdesk.Authorizer
	now       func() time.Time
	log       zerolog.Logger
}

func NewFrontDeskService(initial frontdesk.State, opts Options) *FrontDeskService {
	s := &FrontDeskService{
		state:     initial,
		machine:   frontdesk.Machine{Policy: opts.Policy, NewID: opts.NewID},
		policy:    opts.Policy,
		store:     opts.Store,
		notifiers: opts.Notifiers,
		auth:      opts.Authorizer,
		now:       opts.Clock,
		log:       log.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	s.log = s.log.With().Str("component", "frontdesk").Logger()
	return s
}

// AddNotifier registers a listener after construction, e.g. once the websocket hub exists.
func (s *FrontDeskService) AddNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

func (s *FrontDeskService) Policy() frontdesk.Policy { return s.policy }

func (s *FrontDeskService) Now() time.Time { return s.now() }

// commit must be called with mu held.
func (s *FrontDeskService) commit(ctx context.Context, next frontdesk.State, e Event) error {
	if s.store != nil {
		if err := s.store.Save(ctx, next.Rooms(), next.Ledger()); err != nil {
			s.log.Error().Err(err).Str("event", string(e.Type)).Msg("snapshot save failed, command rejected")
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	s.state = next
	e.At = s.now()
	s.log.Info().Str("event", string(e.Type)).Uints("rooms", e.RoomIDs).Msg("committed")
	s.publish(ctx, e)
	return nil
}

func (s *FrontDeskService) publish(ctx context.Context, e Event) {
	for _, n := range s.notifiers {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		if err := n.Notify(nctx, e); err != nil {
			s.log.Warn().Err(err).Str("event", string(e.Type)).Msgf("notifier %T failed", n)
		}
		cancel()
	}
}

// Publish sends an event that is not tied to a state change.
func (s *FrontDeskService) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.mu.Lock()
	notifiers := slices.Clone(s.notifiers)
	s.mu.Unlock()
	for _, n := range notifiers {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		if err := n.Notify(nctx, e); err != nil {
			s.log.Warn().Err(err).Str("event", string(e.Type)).Msgf("notifier %T failed", n)
		}
		cancel()
	}
}

func (s *FrontDeskService) authorize(op, code string) (models.Role, error) {
	role, err := frontdesk.Authorize(s.auth, code)
	if err != nil {
		s.log.Warn().Str("op", op).Msg("authorization code rejected")
		return "", err
	}
	return role, nil
}

// Stay pairs a ledger record with its room as both stood right after the command.
type Stay struct {
	Room   models.Room
	Record models.GuestHistory
}

// stayAt must be called with mu held.
func (s *FrontDeskService) stayAt(roomID uint, rec models.GuestHistory) Stay {
	room, _ := s.state.Room(roomID)
	return Stay{Room: room, Record: rec}
}

func recordRef(rec models.GuestHistory) *uuid.UUID {
	id := rec.ID
	return &id
}

// VerifyCode resolves a code without performing any action.
func (s *FrontDeskService) VerifyCode(code string) (models.Role, error) {
	return s.authorize("verify", code)
}

func (s *FrontDeskService) CheckIn(ctx context.Context, cmd frontdesk.CheckInCommand) (Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.CheckIn(s.state, s.now(), cmd)
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventCheckedIn, RoomIDs: []uint{cmd.RoomID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(cmd.RoomID, rec), nil
}

func (s *FrontDeskService) CheckOut(ctx context.Context, roomID uint) (Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.CheckOut(s.state, s.now(), roomID)
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventCheckedOut, RoomIDs: []uint{roomID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(roomID, rec), nil
}

// MarkCleaned returns the room and whether it changed.
func (s *FrontDeskService) MarkCleaned(ctx context.Context, roomID uint) (models.Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, changed, err := s.machine.MarkCleaned(s.state, roomID)
	if err != nil {
		return models.Room{}, false, err
	}
	if changed {
		if err := s.commit(ctx, next, Event{Type: EventCleaned, RoomIDs: []uint{roomID}}); err != nil {
			return models.Room{}, false, err
		}
	}
	room, _ := s.state.Room(roomID)
	return room, changed, nil
}

func (s *FrontDeskService) BulkClean(ctx context.Context, roomIDs []uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, cleaned, err := s.machine.BulkClean(s.state, roomIDs)
	if err != nil {
		return nil, err
	}
	if len(cleaned) == 0 {
		return []uint{}, nil
	}
	if err := s.commit(ctx, next, Event{Type: EventCleaned, RoomIDs: cleaned}); err != nil {
		return nil, err
	}
	return cleaned, nil
}

func (s *FrontDeskService) ExtendStay(ctx context.Context, roomID uint, days int) (Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.ExtendStay(s.state, roomID, days)
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventStayExtended, RoomIDs: []uint{roomID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(roomID, rec), nil
}

func (s *FrontDeskService) MoveRoom(ctx context.Context, fromID, toID uint) (Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.MoveRoom(s.state, fromID, toID)
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventMoved, RoomIDs: []uint{fromID, toID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(toID, rec), nil
}

func (s *FrontDeskService) Reserve(ctx context.Context, cmd frontdesk.ReserveCommand) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, room, err := s.machine.Reserve(s.state, s.now(), cmd)
	if err != nil {
		return models.Room{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventReserved, RoomIDs: []uint{cmd.RoomID}}); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (s *FrontDeskService) ConfirmReservation(ctx context.Context, roomID uint) (Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.ConfirmReservation(s.state, s.now(), roomID)
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventReservationConfirmed, RoomIDs: []uint{roomID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(roomID, rec), nil
}

func (s *FrontDeskService) CancelReservation(ctx context.Context, roomID uint, reason models.VoidReason, code string) (Stay, error) {
	role, err := s.authorize("cancel-reservation", code)
	if err != nil {
		return Stay{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, rec, err := s.machine.CancelReservation(s.state, s.now(), frontdesk.CancelReservationCommand{
		RoomID: roomID,
		Reason: reason,
		By:     role,
	})
	if err != nil {
		return Stay{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventReservationCancelled, RoomIDs: []uint{roomID}, RecordID: recordRef(rec)}); err != nil {
		return Stay{}, err
	}
	return s.stayAt(roomID, rec), nil
}

func (s *FrontDeskService) Void(ctx context.Context, recordID uuid.UUID, reason models.VoidReason, code string) (models.GuestHistory, error) {
	role, err := s.authorize("void", code)
	if err != nil {
		return models.GuestHistory{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, _ := s.state.Record(recordID)
	next, rec, err := s.machine.Void(s.state, s.now(), frontdesk.VoidCommand{
		RecordID: recordID,
		Reason:   reason,
		By:       role,
	})
	if err != nil {
		return models.GuestHistory{}, err
	}
	var rooms []uint
	if room, ok := s.state.RoomByNumber(prev.RoomNumber); ok {
		if after, _ := next.Room(room.ID); after.Status != room.Status {
			rooms = append(rooms, room.ID)
		}
	}
	if err := s.commit(ctx, next, Event{Type: EventVoided, RoomIDs: rooms, RecordID: recordRef(rec)}); err != nil {
		return models.GuestHistory{}, err
	}
	return rec, nil
}

func (s *FrontDeskService) AddRoom(ctx context.Context, cmd frontdesk.AddRoomCommand, code string) (models.Room, error) {
	if _, err := s.authorize("add-room", code); err != nil {
		return models.Room{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, room, err := s.machine.AddRoom(s.state, cmd)
	if err != nil {
		return models.Room{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventRoomAdded, RoomIDs: []uint{room.ID}}); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (s *FrontDeskService) UpdateRoom(ctx context.Context, cmd frontdesk.UpdateRoomCommand, code string) (models.Room, error) {
	if _, err := s.authorize("update-room", code); err != nil {
		return models.Room{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, room, err := s.machine.UpdateRoom(s.state, cmd)
	if err != nil {
		return models.Room{}, err
	}
	if err := s.commit(ctx, next, Event{Type: EventRoomUpdated, RoomIDs: []uint{room.ID}}); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (s *FrontDeskService) DeleteRoom(ctx context.Context, roomID uint, code string) error {
	if _, err := s.authorize("delete-room", code); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, _, err := s.machine.DeleteRoom(s.state, roomID)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, Event{Type: EventRoomDeleted, RoomIDs: []uint{roomID}})
}

func (s *FrontDeskService) ClearAll(ctx context.Context, code string) (models.Role, error) {
	role, err := s.authorize("clear-all", code)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.machine.ClearAll(s.state)
	if err != nil {
		return "", err
	}
	if err := s.commit(ctx, next, Event{Type: EventDataCleared}); err != nil {
		return "", err
	}
	s.log.Warn().Str("by", string(role)).Msg("all guest history cleared")
	return role, nil
}

// Snapshot returns the current State. States are never mutated once committed, so the value
// is safe to read without the lock.
func (s *FrontDeskService) Snapshot() frontdesk.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *FrontDeskService) Rooms() []models.Room {
	return s.Snapshot().Rooms()
}

func (s *FrontDeskService) Room(id uint) (models.Room, error) {
	room, ok := s.Snapshot().Room(id)
	if !ok {
		return models.Room{}, fmt.Errorf("room %d: %w", id, frontdesk.ErrNotFound)
	}
	return room, nil
}

type HistoryFilter struct {
	Status models.GuestStatus
	// Query matches guest name, room number or phone, case-insensitively.
	Query string
}

// History lists ledger records newest first.
func (s *FrontDeskService) History(f HistoryFilter) []models.GuestHistory {
	ledger := s.Snapshot().Ledger()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.GuestHistory, 0, len(ledger))
	for i := len(ledger) - 1; i >= 0; i-- {
		rec := ledger[i]
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if q != "" && !matchesQuery(rec, q) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesQuery(rec models.GuestHistory, q string) bool {
	if rec.GuestName != nil && strings.Contains(strings.ToLower(*rec.GuestName), q) {
		return true
	}
	return strings.Contains(strings.ToLower(rec.RoomNumber), q) || strings.Contains(rec.Phone, q)
}

func (s *FrontDeskService) Record(id uuid.UUID) (models.GuestHistory, error) {
	rec, ok := s.Snapshot().Record(id)
	if !ok {
		return models.GuestHistory{}, fmt.Errorf("guest history %s: %w", id, frontdesk.ErrNotFound)
	}
	return rec, nil
}

type Summary struct {
	BusinessDate datatypes.Date         `json:"businessDate"`
	Counts       frontdesk.StatusCounts `json:"counts"`
	Occupancy    frontdesk.Occupancy    `json:"occupancy"`
	CheckoutDue  []models.Room          `json:"checkoutDue"`
	// Revenue of non-void stays checked in on the business date.
	RevenueToday decimal.Decimal `json:"revenueToday"`
}

func (s *FrontDeskService) Summary() Summary {
	state := s.Snapshot()
	now := s.now()
	rooms, ledger := state.Rooms(), state.Ledger()
	business := s.policy.BusinessDate(now)

	revenue := decimal.Zero
	for _, rec := range ledger {
		if rec.Status != models.GuestVoid && frontdesk.SameDate(rec.CheckInDate, business) {
			revenue = revenue.Add(rec.TotalPrice)
		}
	}
	due := frontdesk.CheckoutDue(rooms, frontdesk.DateOf(now))
	if due == nil {
		due = []models.Room{}
	}
	return Summary{
		BusinessDate: business,
		Counts:       frontdesk.CountStatuses(rooms, ledger),
		Occupancy:    frontdesk.OccupancyRate(len(rooms), ledger),
		CheckoutDue:  due,
		RevenueToday: revenue,
	}
}

func (s *FrontDeskService) CheckoutDue() []models.Room {
	return frontdesk.CheckoutDue(s.Snapshot().Rooms(), frontdesk.DateOf(s.now()))
}

func (s *FrontDeskService) Revenue(period frontdesk.Period, buckets int) ([]frontdesk.Bucket, error) {
	return frontdesk.RevenueSeries(s.Snapshot().Ledger(), period, buckets, s.now(), s.policy.WeekStart)
}
