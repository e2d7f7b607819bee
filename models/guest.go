package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// GuestHistory is one ledger entry: a stay (staying / checked-out) or a void event.
// Records are never deleted; only the status and the stay figures move.
type GuestHistory struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`

	GuestName *string `gorm:"size:255" json:"guestName,omitempty"`
	// RoomNumber points back at Room.Number; it is a lookup key, not an ownership link.
	RoomNumber string   `gorm:"column:room_number;type:varchar(50);index" json:"roomNumber"`
	RoomType   RoomType `gorm:"column:room_type;type:varchar(20)" json:"roomType"`
	Phone      string   `gorm:"size:50" json:"phone,omitempty"`
	Passport   string   `gorm:"size:50" json:"passport,omitempty"`

	CheckInDate  datatypes.Date  `gorm:"index" json:"checkInDate"`
	CheckInTime  time.Time       `json:"checkInTime"`
	CheckOutDate *datatypes.Date `json:"checkOutDate"`
	CheckOutTime *time.Time      `json:"checkOutTime"`

	StayDuration int             `json:"stayDuration"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalPrice"`
	Status       GuestStatus     `gorm:"type:varchar(20);index" json:"status"`

	VoidReason VoidReason      `gorm:"type:varchar(30)" json:"voidReason,omitempty"`
	VoidBy     Role            `gorm:"type:varchar(20)" json:"voidBy,omitempty"`
	VoidDate   *datatypes.Date `json:"voidDate,omitempty"`
}
