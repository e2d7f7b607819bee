package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Room is one physical room on the board.
//
// Occupancy fields (GuestName, Phone, Passport, CheckInDate, CheckInTime, StayDuration) are
// only meaningful while Status is occupied. GuestName, Phone, ReservationDate and
// PaymentStatus carry the reservation while Status is reserved. Both sets are empty when the
// room is available or cleaning; Price is kept across stays.
type Room struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Number string          `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"number"`
	Floor  int             `json:"floor"`
	Type   RoomType        `gorm:"column:room_type;type:varchar(20)" json:"roomType"`
	Price  decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Status RoomStatus      `gorm:"type:varchar(20);index" json:"status"`

	GuestName    *string         `gorm:"size:255" json:"guestName,omitempty"`
	Phone        string          `gorm:"size:50" json:"phone,omitempty"`
	Passport     string          `gorm:"size:50" json:"passport,omitempty"`
	CheckInDate  *datatypes.Date `json:"checkInDate,omitempty"`
	CheckInTime  *time.Time      `json:"checkInTime,omitempty"`
	StayDuration int             `json:"stayDuration,omitempty"`

	ReservationDate *datatypes.Date `json:"reservationDate,omitempty"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(10)" json:"paymentStatus,omitempty"`
}

// Vacant reports whether the room holds neither a guest nor a reservation.
func (r Room) Vacant() bool {
	return r.Status == RoomAvailable || r.Status == RoomCleaning
}
