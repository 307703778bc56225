package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending   = 0
	OrderStatusConfirmed = 1
	OrderStatusCompleted = 2
	OrderStatusCancelled = 3
)

type Order struct {
	ID           int64      `json:"id,omitempty"`
	RoomID       int64      `json:"room_id"`
	PackageID    *int64     `json:"package_id,omitempty"`
	UserID       string     `json:"user_id,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Hours        int        `json:"hours"`
	TotalPrice   float64    `json:"total_price"`
	Status       int        `json:"status"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	Remark       string     `json:"remark,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
