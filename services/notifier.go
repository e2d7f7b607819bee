package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
)

// EventsChannel is the Redis pub/sub channel board events are published on.
const EventsChannel = "frontdesk:events"

type EventType string

const (
	EventCheckedIn            EventType = "room.checked_in"
	EventCheckedOut           EventType = "room.checked_out"
	EventCleaned              EventType = "room.cleaned"
	EventStayExtended         EventType = "room.stay_extended"
	EventMoved                EventType = "room.moved"
	EventReserved             EventType = "room.reserved"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventVoided               EventType = "guest_history.voided"
	EventRoomAdded            EventType = "room.added"
	EventRoomUpdated          EventType = "room.updated"
	EventRoomDeleted          EventType = "room.deleted"
	EventDataCleared          EventType = "data.cleared"
	EventCheckoutDue          EventType = "checkout.due"
)

// Event tells listeners which rooms and record changed. Clients refetch what they show.
type Event struct {
	Type     EventType  `json:"type"`
	RoomIDs  []uint     `json:"roomIds,omitempty"`
	RecordID *uuid.UUID `json:"recordId,omitempty"`
	At       time.Time  `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// RedisNotifier publishes events for other processes (displays, housekeeping tablets).
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: EventsChannel}
}

func (n *RedisNotifier) Notify(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return n.Client.Publish(ctx, n.Channel, payload).Err()
}

// BoardHub pushes events to browsers connected to the websocket board.
type BoardHub struct {
	M *melody.Melody
}

func NewBoardHub(m *melody.Melody) *BoardHub {
	return &BoardHub{M: m}
}

func (h *BoardHub) Notify(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return h.M.Broadcast(payload)
}
