package config

import (
	"fmt"

	"hotel-frontdesk/models"
)

// DefaultRooms is the board a fresh install starts with: two floors of six rooms, fan rooms
// on the first floor and air-conditioned rooms on the second.
func DefaultRooms() []models.Room {
	layout := []struct {
		floor int
		types []models.RoomType
	}{
		{1, []models.RoomType{
			models.RoomFanSingle, models.RoomFanSingle, models.RoomFanSingle,
			models.RoomFanDouble, models.RoomFanDouble, models.RoomFanDouble,
		}},
		{2, []models.RoomType{
			models.RoomACSingle, models.RoomACSingle, models.RoomACSingle,
			models.RoomACDouble, models.RoomACDouble, models.RoomACDouble,
		}},
	}

	var rooms []models.Room
	for _, f := range layout {
		for i, t := range f.types {
			rooms = append(rooms, models.Room{
				ID:     uint(len(rooms) + 1),
				Number: fmt.Sprintf("%d%02d", f.floor, i+1),
				Floor:  f.floor,
				Type:   t,
				Price:  t.DefaultPrice(),
				Status: models.RoomAvailable,
			})
		}
	}
	return rooms
}
