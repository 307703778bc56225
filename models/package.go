package models

import "time"

// RoomPackage là gói giờ của một phòng
type RoomPackage struct {
	ID          int64      `json:"id,omitempty"`
	RoomID      int64      `json:"room_id,omitempty"`
	Name        string     `json:"name"`
	Hours       int        `json:"hours"`
	Price       float64    `json:"price"`
	Description string     `json:"description,omitempty"`
	Status      int        `json:"status"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
