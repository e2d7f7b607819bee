package models

import "github.com/shopspring/decimal"

// RoomType decides the default nightly rate of a room.
type RoomType string

const (
	RoomFanSingle RoomType = "fan-single"
	RoomFanDouble RoomType = "fan-double"
	RoomACSingle  RoomType = "ac-single"
	RoomACDouble  RoomType = "ac-double"
)

var defaultPrices = map[RoomType]int64{
	RoomFanSingle: 150000,
	RoomFanDouble: 200000,
	RoomACSingle:  250000,
	RoomACDouble:  300000,
}

// RoomTypes lists every room type in board order.
func RoomTypes() []RoomType {
	return []RoomType{RoomFanSingle, RoomFanDouble, RoomACSingle, RoomACDouble}
}

func (t RoomType) Valid() bool {
	_, ok := defaultPrices[t]
	return ok
}

// DefaultPrice is the nightly rate applied when a room is added without an explicit price.
func (t RoomType) DefaultPrice() decimal.Decimal {
	return decimal.NewFromInt(defaultPrices[t])
}
