package models

import (
	"fmt"
	"time"
)

// RoomStatus là trạng thái phòng
type RoomStatus int

const (
	RoomStatusDisabled    RoomStatus = 0
	RoomStatusAvailable   RoomStatus = 1
	RoomStatusOccupied    RoomStatus = 2
	RoomStatusMaintenance RoomStatus = 3
)

func (s RoomStatus) Valid() bool {
	return s >= RoomStatusDisabled && s <= RoomStatusMaintenance
}

func (s RoomStatus) String() string {
	switch s {
	case RoomStatusDisabled:
		return "disabled"
	case RoomStatusAvailable:
		return "available"
	case RoomStatusOccupied:
		return "occupied"
	case RoomStatusMaintenance:
		return "maintenance"
	}
	return fmt.Sprintf("RoomStatus(%d)", int(s))
}

type Room struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Area        string        `json:"area"`
	Status      RoomStatus    `json:"status"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images"`
	Tags        []string      `json:"tags"`
	Packages    []RoomPackage `json:"room_packages,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
	UpdatedAt   *time.Time    `json:"updated_at,omitempty"`
}

func (r *Room) ValidateStatus() error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status: %d, must be between 0 and 3", r.Status)
	}
	return nil
}
