package frontdesk

import (
	"sort"

	"hotel-frontdesk/models"

	"github.com/google/uuid"
)

// State is the Room Registry and the Guest History Ledger as one value. Transitions never
// mutate a State; they return the next one, so a caller holding the previous value sees
// either all of a command or none of it.
type State struct {
	rooms  []models.Room
	ledger []models.GuestHistory

	roomPos   map[uint]int
	numberPos map[string]int
	recordPos map[uuid.UUID]int
	// staying maps a room number to the id of its staying ledger record.
	staying map[string]uuid.UUID
}

// NewState builds a State from loaded collections and rejects data that already breaks the
// occupied room / staying record pairing.
func NewState(rooms []models.Room, ledger []models.GuestHistory) (State, error) {
	s := State{
		rooms:  append([]models.Room(nil), rooms...),
		ledger: append([]models.GuestHistory(nil), ledger...),
	}
	sort.SliceStable(s.rooms, func(i, j int) bool { return s.rooms[i].ID < s.rooms[j].ID })
	s.reindex()
	if err := s.Check(); err != nil {
		return State{}, err
	}
	return s, nil
}

func (s *State) reindex() {
	s.roomPos = make(map[uint]int, len(s.rooms))
	s.numberPos = make(map[string]int, len(s.rooms))
	for i, r := range s.rooms {
		s.roomPos[r.ID] = i
		s.numberPos[r.Number] = i
	}
	s.recordPos = make(map[uuid.UUID]int, len(s.ledger))
	s.staying = make(map[string]uuid.UUID)
	for i, rec := range s.ledger {
		s.recordPos[rec.ID] = i
		if rec.Status == models.GuestStaying {
			s.staying[rec.RoomNumber] = rec.ID
		}
	}
}

func (s State) clone() State {
	next := State{
		rooms:     append([]models.Room(nil), s.rooms...),
		ledger:    append([]models.GuestHistory(nil), s.ledger...),
		roomPos:   make(map[uint]int, len(s.roomPos)),
		numberPos: make(map[string]int, len(s.numberPos)),
		recordPos: make(map[uuid.UUID]int, len(s.recordPos)),
		staying:   make(map[string]uuid.UUID, len(s.staying)),
	}
	for k, v := range s.roomPos {
		next.roomPos[k] = v
	}
	for k, v := range s.numberPos {
		next.numberPos[k] = v
	}
	for k, v := range s.recordPos {
		next.recordPos[k] = v
	}
	for k, v := range s.staying {
		next.staying[k] = v
	}
	return next
}

// Rooms returns a copy of the registry ordered by room id.
func (s State) Rooms() []models.Room {
	return append([]models.Room(nil), s.rooms...)
}

// Ledger returns a copy of the ledger in append order.
func (s State) Ledger() []models.GuestHistory {
	return append([]models.GuestHistory(nil), s.ledger...)
}

func (s State) RoomCount() int { return len(s.rooms) }

func (s State) Room(id uint) (models.Room, bool) {
	i, ok := s.roomPos[id]
	if !ok {
		return models.Room{}, false
	}
	return s.rooms[i], true
}

func (s State) RoomByNumber(number string) (models.Room, bool) {
	i, ok := s.numberPos[number]
	if !ok {
		return models.Room{}, false
	}
	return s.rooms[i], true
}

func (s State) Record(id uuid.UUID) (models.GuestHistory, bool) {
	i, ok := s.recordPos[id]
	if !ok {
		return models.GuestHistory{}, false
	}
	return s.ledger[i], true
}

// StayingRecord returns the in-progress stay of a room number, if any.
func (s State) StayingRecord(roomNumber string) (models.GuestHistory, bool) {
	id, ok := s.staying[roomNumber]
	if !ok {
		return models.GuestHistory{}, false
	}
	return s.Record(id)
}

func (s *State) putRoom(r models.Room) {
	i := s.roomPos[r.ID]
	if old := s.rooms[i].Number; old != r.Number {
		delete(s.numberPos, old)
		s.numberPos[r.Number] = i
	}
	s.rooms[i] = r
}

func (s *State) appendRoom(r models.Room) {
	s.roomPos[r.ID] = len(s.rooms)
	s.numberPos[r.Number] = len(s.rooms)
	s.rooms = append(s.rooms, r)
}

func (s *State) putRecord(rec models.GuestHistory) {
	s.ledger[s.recordPos[rec.ID]] = rec
}

func (s *State) appendRecord(rec models.GuestHistory) {
	s.recordPos[rec.ID] = len(s.ledger)
	s.ledger = append(s.ledger, rec)
	if rec.Status == models.GuestStaying {
		s.staying[rec.RoomNumber] = rec.ID
	}
}

// Check verifies that every occupied room has exactly one staying record with its number,
// that every staying record belongs to an occupied room, that the staying index agrees with
// the ledger and that no total is negative.
func (s State) Check() error {
	byNumber := make(map[string]models.Room, len(s.rooms))
	for i, r := range s.rooms {
		if _, dup := byNumber[r.Number]; dup {
			return consistencyf("room number %q used twice", r.Number)
		}
		byNumber[r.Number] = r
		if pos, ok := s.numberPos[r.Number]; !ok || pos != i {
			return consistencyf("room number %q is not indexed", r.Number)
		}
	}
	if len(s.numberPos) != len(s.rooms) {
		return consistencyf("number index holds %d entries for %d rooms", len(s.numberPos), len(s.rooms))
	}

	stayingCount := make(map[string]int)
	for _, rec := range s.ledger {
		if rec.TotalPrice.IsNegative() {
			return consistencyf("record %s has negative total %s", rec.ID, rec.TotalPrice)
		}
		if rec.Status != models.GuestStaying {
			continue
		}
		stayingCount[rec.RoomNumber]++
		if s.staying[rec.RoomNumber] != rec.ID {
			return consistencyf("staying record %s for room %q is not indexed", rec.ID, rec.RoomNumber)
		}
		room, ok := byNumber[rec.RoomNumber]
		if !ok || room.Status != models.RoomOccupied {
			return consistencyf("staying record %s points at room %q which is not occupied", rec.ID, rec.RoomNumber)
		}
	}
	for number, n := range stayingCount {
		if n != 1 {
			return consistencyf("room %q has %d staying records", number, n)
		}
	}
	for _, r := range s.rooms {
		if r.Status == models.RoomOccupied && stayingCount[r.Number] != 1 {
			return consistencyf("occupied room %q has no staying record", r.Number)
		}
	}
	if len(s.staying) != len(stayingCount) {
		return consistencyf("staying index holds %d entries for %d stays", len(s.staying), len(stayingCount))
	}
	return nil
}
