package frontdesk

import (
	"strings"

	"hotel-frontdesk/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type CheckInCommand struct {
	RoomID    uint
	GuestName *string
	Phone     string
	Passport  string
	// Price is the nightly rate for this stay; nil keeps the room's current rate.
	Price *decimal.Decimal
	// StayDuration in nights; zero means one night.
	StayDuration int
}

type ReserveCommand struct {
	RoomID          uint
	GuestName       *string
	Phone           string
	ReservationDate *datatypes.Date
	// PaymentStatus defaults to Unpaid when empty.
	PaymentStatus models.PaymentStatus
}

type CancelReservationCommand struct {
	RoomID uint
	Reason models.VoidReason
	By     models.Role
}

type VoidCommand struct {
	RecordID uuid.UUID
	Reason   models.VoidReason
	By       models.Role
}

type AddRoomCommand struct {
	Number string
	Floor  int
	Type   models.RoomType
	// Price nil applies the room type's default rate.
	Price *decimal.Decimal
}

// UpdateRoomCommand changes only the non-nil fields.
type UpdateRoomCommand struct {
	RoomID uint
	Number *string
	Floor  *int
	Type   *models.RoomType
	Price  *decimal.Decimal
}

// normalizeName trims a guest name and treats blank as absent.
func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
