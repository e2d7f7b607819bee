package frontdesk

import (
	"fmt"
	"strings"
	"time"

	"hotel-frontdesk/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Machine applies front-desk commands to a State. Every method is a pure function of its
// inputs: on success it returns the next State, on failure it returns the input State
// unchanged together with the error.
type Machine struct {
	Policy Policy
	// NewID generates ledger record ids; uuid.New when nil.
	NewID func() uuid.UUID
}

func NewMachine(p Policy) Machine {
	return Machine{Policy: p, NewID: uuid.New}
}

func (m Machine) newID() uuid.UUID {
	if m.NewID == nil {
		return uuid.New()
	}
	return m.NewID()
}

func (m Machine) lookup(s State, id uint) (models.Room, error) {
	room, ok := s.Room(id)
	if !ok {
		return models.Room{}, roomNotFound(id)
	}
	return room, nil
}

// stayingFor fetches the staying record of an occupied room. A missing record means the
// state was already broken.
func stayingFor(s State, room models.Room) (models.GuestHistory, error) {
	rec, ok := s.StayingRecord(room.Number)
	if !ok {
		return models.GuestHistory{}, consistencyf("occupied room %q has no staying record", room.Number)
	}
	return rec, nil
}

// vacate clears guest and reservation fields. Price is kept so the board can show the last rate.
func vacate(r models.Room, to models.RoomStatus) models.Room {
	r.Status = to
	r.GuestName = nil
	r.Phone = ""
	r.Passport = ""
	r.CheckInDate = nil
	r.CheckInTime = nil
	r.StayDuration = 0
	r.ReservationDate = nil
	r.PaymentStatus = ""
	return r
}

func nights(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// CheckIn turns an available room into an occupied one and opens a staying record.
func (m Machine) CheckIn(s State, now time.Time, cmd CheckInCommand) (State, models.GuestHistory, error) {
	room, err := m.lookup(s, cmd.RoomID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if room.Status != models.RoomAvailable {
		return s, models.GuestHistory{}, refuse("check-in", room)
	}
	price := room.Price
	if cmd.Price != nil {
		price = *cmd.Price
	}
	if price.IsNegative() {
		return s, models.GuestHistory{}, invalid("price", "must not be negative")
	}
	days := cmd.StayDuration
	if days == 0 {
		days = 1
	}
	if days < 1 {
		return s, models.GuestHistory{}, invalid("stayDuration", "must be at least 1 night")
	}

	date := m.Policy.BusinessDate(now)
	name := normalizeName(cmd.GuestName)

	room.Status = models.RoomOccupied
	room.Price = price
	room.GuestName = name
	room.Phone = strings.TrimSpace(cmd.Phone)
	room.Passport = strings.TrimSpace(cmd.Passport)
	room.CheckInDate = datePtr(date)
	room.CheckInTime = timePtr(now)
	room.StayDuration = days
	room.ReservationDate = nil
	room.PaymentStatus = ""

	rec := models.GuestHistory{
		ID:           m.newID(),
		GuestName:    name,
		RoomNumber:   room.Number,
		RoomType:     room.Type,
		Phone:        room.Phone,
		Passport:     room.Passport,
		CheckInDate:  date,
		CheckInTime:  now,
		StayDuration: days,
		TotalPrice:   price.Mul(nights(days)),
		Status:       models.GuestStaying,
	}

	next := s.clone()
	next.putRoom(room)
	next.appendRecord(rec)
	return finish(s, next, rec)
}

// CheckOut closes the stay of an occupied room and sends the room to cleaning.
func (m Machine) CheckOut(s State, now time.Time, roomID uint) (State, models.GuestHistory, error) {
	room, err := m.lookup(s, roomID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if room.Status != models.RoomOccupied {
		return s, models.GuestHistory{}, refuse("check-out", room)
	}
	rec, err := stayingFor(s, room)
	if err != nil {
		return s, models.GuestHistory{}, err
	}

	rec.Status = models.GuestCheckedOut
	rec.CheckOutDate = datePtr(DateOf(now))
	rec.CheckOutTime = timePtr(now)

	next := s.clone()
	next.putRecord(rec)
	delete(next.staying, room.Number)
	next.putRoom(vacate(room, models.RoomCleaning))
	return finish(s, next, rec)
}

// MarkCleaned flips a cleaning room to available. An already available room is left as is and
// reported unchanged.
func (m Machine) MarkCleaned(s State, roomID uint) (State, bool, error) {
	room, err := m.lookup(s, roomID)
	if err != nil {
		return s, false, err
	}
	switch room.Status {
	case models.RoomAvailable:
		return s, false, nil
	case models.RoomCleaning:
	default:
		return s, false, refuse("mark-cleaned", room)
	}
	next := s.clone()
	room.Status = models.RoomAvailable
	next.putRoom(room)
	next, _, err = finish(s, next, struct{}{})
	return next, err == nil, err
}

// BulkClean makes every listed cleaning room available in one step. Ids that are unknown or
// not cleaning are skipped. It returns the ids that changed.
func (m Machine) BulkClean(s State, roomIDs []uint) (State, []uint, error) {
	next := s.clone()
	var cleaned []uint
	seen := make(map[uint]bool, len(roomIDs))
	for _, id := range roomIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		room, ok := next.Room(id)
		if !ok || room.Status != models.RoomCleaning {
			continue
		}
		room.Status = models.RoomAvailable
		next.putRoom(room)
		cleaned = append(cleaned, id)
	}
	if len(cleaned) == 0 {
		return s, nil, nil
	}
	return finish(s, next, cleaned)
}

// ExtendStay adds nights to an occupied room. Added nights are charged at the room's current
// rate, which may differ from the rate at check-in.
func (m Machine) ExtendStay(s State, roomID uint, daysToAdd int) (State, models.GuestHistory, error) {
	room, err := m.lookup(s, roomID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if daysToAdd < 1 {
		return s, models.GuestHistory{}, invalid("daysToAdd", "must be at least 1 night")
	}
	if room.Status != models.RoomOccupied {
		return s, models.GuestHistory{}, refuse("extend-stay", room)
	}
	rec, err := stayingFor(s, room)
	if err != nil {
		return s, models.GuestHistory{}, err
	}

	room.StayDuration += daysToAdd
	rec.StayDuration += daysToAdd
	rec.TotalPrice = rec.TotalPrice.Add(room.Price.Mul(nights(daysToAdd)))

	next := s.clone()
	next.putRoom(room)
	next.putRecord(rec)
	return finish(s, next, rec)
}

// MoveRoom carries a stay from an occupied room to an available one. The target keeps its own
// rate and the whole stay is re-priced: total += (new rate - old rate) x nights booked.
func (m Machine) MoveRoom(s State, fromID, toID uint) (State, models.GuestHistory, error) {
	if fromID == toID {
		return s, models.GuestHistory{}, invalid("newRoomId", "must differ from the current room")
	}
	from, err := m.lookup(s, fromID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	to, err := m.lookup(s, toID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if from.Status != models.RoomOccupied {
		return s, models.GuestHistory{}, refuse("move-room", from)
	}
	if to.Status != models.RoomAvailable {
		return s, models.GuestHistory{}, refuse("move-room", to)
	}
	rec, err := stayingFor(s, from)
	if err != nil {
		return s, models.GuestHistory{}, err
	}

	delta := to.Price.Sub(from.Price).Mul(nights(from.StayDuration))
	total := rec.TotalPrice.Add(delta)
	if total.IsNegative() {
		return s, models.GuestHistory{}, invalid("newRoomId", "price adjustment would make the stay total negative")
	}

	to.Status = models.RoomOccupied
	to.GuestName = from.GuestName
	to.Phone = from.Phone
	to.Passport = from.Passport
	to.CheckInDate = from.CheckInDate
	to.CheckInTime = from.CheckInTime
	to.StayDuration = from.StayDuration

	rec.RoomNumber = to.Number
	rec.RoomType = to.Type
	rec.TotalPrice = total

	next := s.clone()
	next.putRoom(to)
	next.putRoom(vacate(from, models.RoomCleaning))
	next.putRecord(rec)
	delete(next.staying, from.Number)
	next.staying[to.Number] = rec.ID
	return finish(s, next, rec)
}

// Reserve holds an available room for a future arrival. No ledger record is written until
// the reservation is confirmed or cancelled.
func (m Machine) Reserve(s State, now time.Time, cmd ReserveCommand) (State, models.Room, error) {
	room, err := m.lookup(s, cmd.RoomID)
	if err != nil {
		return s, models.Room{}, err
	}
	if cmd.ReservationDate == nil {
		return s, models.Room{}, invalid("reservationDate", "is required")
	}
	date := DateOf(time.Time(*cmd.ReservationDate))
	if Before(date, DateOf(now)) {
		return s, models.Room{}, invalid("reservationDate", "must be today or later")
	}
	payment := cmd.PaymentStatus
	if payment == "" {
		payment = models.PaymentUnpaid
	}
	if !payment.Valid() {
		return s, models.Room{}, invalid("paymentStatus", "must be Paid or Unpaid")
	}
	if room.Status != models.RoomAvailable {
		return s, models.Room{}, refuse("reserve", room)
	}

	room = vacate(room, models.RoomReserved)
	room.GuestName = normalizeName(cmd.GuestName)
	room.Phone = strings.TrimSpace(cmd.Phone)
	room.ReservationDate = datePtr(date)
	room.PaymentStatus = payment

	next := s.clone()
	next.putRoom(room)
	return finish(s, next, room)
}

// ConfirmReservation checks the reserved guest in for one night from today.
func (m Machine) ConfirmReservation(s State, now time.Time, roomID uint) (State, models.GuestHistory, error) {
	room, err := m.lookup(s, roomID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if room.Status != models.RoomReserved {
		return s, models.GuestHistory{}, refuse("confirm-reservation", room)
	}

	today := DateOf(now)
	room.Status = models.RoomOccupied
	room.CheckInDate = datePtr(today)
	room.CheckInTime = timePtr(now)
	room.StayDuration = 1
	room.ReservationDate = nil
	room.PaymentStatus = ""

	rec := models.GuestHistory{
		ID:           m.newID(),
		GuestName:    room.GuestName,
		RoomNumber:   room.Number,
		RoomType:     room.Type,
		Phone:        room.Phone,
		Passport:     room.Passport,
		CheckInDate:  today,
		CheckInTime:  now,
		StayDuration: 1,
		TotalPrice:   room.Price,
		Status:       models.GuestStaying,
	}

	next := s.clone()
	next.putRoom(room)
	next.appendRecord(rec)
	return finish(s, next, rec)
}

func validVoid(reason models.VoidReason, by models.Role) error {
	if !reason.Valid() {
		return invalid("reason", "is not a recognised void reason")
	}
	if by == "" {
		return invalid("authorizer", "is required")
	}
	return nil
}

// CancelReservation frees a reserved room and records the cancellation as a void entry
// priced at one night.
func (m Machine) CancelReservation(s State, now time.Time, cmd CancelReservationCommand) (State, models.GuestHistory, error) {
	if err := validVoid(cmd.Reason, cmd.By); err != nil {
		return s, models.GuestHistory{}, err
	}
	room, err := m.lookup(s, cmd.RoomID)
	if err != nil {
		return s, models.GuestHistory{}, err
	}
	if room.Status != models.RoomReserved {
		return s, models.GuestHistory{}, refuse("cancel-reservation", room)
	}

	today := DateOf(now)
	arrival := today
	if room.ReservationDate != nil {
		arrival = *room.ReservationDate
	}
	rec := models.GuestHistory{
		ID:           m.newID(),
		GuestName:    room.GuestName,
		RoomNumber:   room.Number,
		RoomType:     room.Type,
		Phone:        room.Phone,
		CheckInDate:  arrival,
		CheckInTime:  now,
		StayDuration: 1,
		TotalPrice:   room.Price,
		Status:       models.GuestVoid,
		VoidReason:   cmd.Reason,
		VoidBy:       cmd.By,
		VoidDate:     datePtr(today),
	}

	next := s.clone()
	next.putRoom(vacate(room, models.RoomAvailable))
	next.appendRecord(rec)
	return finish(s, next, rec)
}

// Void invalidates a staying ledger record. The room is reset to cleaning only when the record
// is the room's indexed stay, so an occupant that is not this guest is never touched.
func (m Machine) Void(s State, now time.Time, cmd VoidCommand) (State, models.GuestHistory, error) {
	if err := validVoid(cmd.Reason, cmd.By); err != nil {
		return s, models.GuestHistory{}, err
	}
	rec, ok := s.Record(cmd.RecordID)
	if !ok {
		return s, models.GuestHistory{}, fmt.Errorf("guest history %s: %w", cmd.RecordID, ErrNotFound)
	}
	if rec.Status != models.GuestStaying {
		return s, models.GuestHistory{}, fmt.Errorf("void: guest history %s is %s: %w", rec.ID, rec.Status, ErrInvalidTransition)
	}

	rec.Status = models.GuestVoid
	rec.VoidReason = cmd.Reason
	rec.VoidBy = cmd.By
	rec.VoidDate = datePtr(DateOf(now))

	next := s.clone()
	next.putRecord(rec)
	if s.staying[rec.RoomNumber] == rec.ID {
		if room, ok := s.RoomByNumber(rec.RoomNumber); ok && room.Status == models.RoomOccupied {
			next.putRoom(vacate(room, models.RoomCleaning))
		}
		delete(next.staying, rec.RoomNumber)
	}
	return finish(s, next, rec)
}

// AddRoom registers a new available room.
func (m Machine) AddRoom(s State, cmd AddRoomCommand) (State, models.Room, error) {
	number := strings.TrimSpace(cmd.Number)
	if number == "" {
		return s, models.Room{}, invalid("number", "is required")
	}
	if _, taken := s.RoomByNumber(number); taken {
		return s, models.Room{}, invalid("number", fmt.Sprintf("room %q already exists", number))
	}
	if !cmd.Type.Valid() {
		return s, models.Room{}, invalid("roomType", "is not a known room type")
	}
	price := cmd.Type.DefaultPrice()
	if cmd.Price != nil {
		price = *cmd.Price
	}
	if price.IsNegative() {
		return s, models.Room{}, invalid("price", "must not be negative")
	}

	var id uint
	for _, r := range s.rooms {
		if r.ID > id {
			id = r.ID
		}
	}
	room := models.Room{
		ID:     id + 1,
		Number: number,
		Floor:  cmd.Floor,
		Type:   cmd.Type,
		Price:  price,
		Status: models.RoomAvailable,
	}

	next := s.clone()
	next.appendRoom(room)
	return finish(s, next, room)
}

// UpdateRoom edits a room's definition. The number and type can only change while no stay
// or reservation hangs off it.
func (m Machine) UpdateRoom(s State, cmd UpdateRoomCommand) (State, models.Room, error) {
	room, err := m.lookup(s, cmd.RoomID)
	if err != nil {
		return s, models.Room{}, err
	}
	if cmd.Number != nil {
		number := strings.TrimSpace(*cmd.Number)
		if number == "" {
			return s, models.Room{}, invalid("number", "is required")
		}
		if number != room.Number {
			if other, taken := s.RoomByNumber(number); taken && other.ID != room.ID {
				return s, models.Room{}, invalid("number", fmt.Sprintf("room %q already exists", number))
			}
			if !room.Vacant() {
				return s, models.Room{}, refuse("edit-room", room)
			}
			room.Number = number
		}
	}
	if cmd.Type != nil {
		if !cmd.Type.Valid() {
			return s, models.Room{}, invalid("roomType", "is not a known room type")
		}
		if *cmd.Type != room.Type {
			if !room.Vacant() {
				return s, models.Room{}, refuse("edit-room", room)
			}
			room.Type = *cmd.Type
		}
	}
	if cmd.Price != nil {
		if cmd.Price.IsNegative() {
			return s, models.Room{}, invalid("price", "must not be negative")
		}
		room.Price = *cmd.Price
	}
	if cmd.Floor != nil {
		room.Floor = *cmd.Floor
	}

	next := s.clone()
	next.putRoom(room)
	return finish(s, next, room)
}

// DeleteRoom removes a room that is available or cleaning.
func (m Machine) DeleteRoom(s State, roomID uint) (State, models.Room, error) {
	room, err := m.lookup(s, roomID)
	if err != nil {
		return s, models.Room{}, err
	}
	if !room.Vacant() {
		return s, models.Room{}, refuse("delete-room", room)
	}
	next := s.clone()
	i := next.roomPos[roomID]
	next.rooms = append(next.rooms[:i:i], next.rooms[i+1:]...)
	next.reindex()
	return finish(s, next, room)
}

// ClearAll empties the ledger and makes every room available. Room definitions stay.
func (m Machine) ClearAll(s State) (State, error) {
	next := s.clone()
	for i, r := range next.rooms {
		next.rooms[i] = vacate(r, models.RoomAvailable)
	}
	next.ledger = nil
	next.reindex()
	next, _, err := finish(s, next, struct{}{})
	return next, err
}

// finish re-checks the relationship invariant before handing the next state back.
func finish[T any](prev, next State, result T) (State, T, error) {
	if err := next.Check(); err != nil {
		var zero T
		return prev, zero, err
	}
	return next, result, nil
}
