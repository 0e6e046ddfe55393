package domain

import "time"

// RoomType is the internal name of a RoomTypeConfig. The catalogue is data;
// these are the names seeded on a fresh install.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
	RoomDeluxe RoomType = "deluxe"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomReserved    RoomStatus = "reserved"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomReserved:
		return true
	}
	return false
}

type Room struct {
	ID            int64
	Number        string
	Type          RoomType
	Status        RoomStatus
	PricePerNight float64
	Capacity      int
	Floor         int
	Description   *string
	Amenities     []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoomFilter narrows ListRooms. Nil fields are ignored.
type RoomFilter struct {
	Type     *RoomType
	Status   *RoomStatus
	Floor    *int
	Active   *bool
	MinPrice *float64
	MaxPrice *float64
	Skip     int
	Limit    int
}
