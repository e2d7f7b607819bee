package models

// RoomStatus is the live state of a room on the board.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
	RoomReserved  RoomStatus = "reserved"
	RoomCleaning  RoomStatus = "cleaning"
)

// RoomStatuses lists every room status in board order.
func RoomStatuses() []RoomStatus {
	return []RoomStatus{RoomAvailable, RoomOccupied, RoomReserved, RoomCleaning}
}

// GuestStatus is the state of a guest history record.
type GuestStatus string

const (
	GuestStaying    GuestStatus = "staying"
	GuestCheckedOut GuestStatus = "checked-out"
	GuestVoid       GuestStatus = "void"
)

func (s GuestStatus) Valid() bool {
	switch s {
	case GuestStaying, GuestCheckedOut, GuestVoid:
		return true
	}
	return false
}

// PaymentStatus records whether a reservation was prepaid.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentUnpaid PaymentStatus = "Unpaid"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPaid || p == PaymentUnpaid
}
