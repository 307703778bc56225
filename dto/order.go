package dto

import "time"

// CreateOrderParams là DTO cho request tạo order
type CreateOrderParams struct {
	RoomID       int64     `json:"roomId" validate:"required,gt=0"`
	PackageID    *int64    `json:"packageId" validate:"omitempty,gt=0"`
	UserID       string    `json:"userId"`
	StartTime    time.Time `json:"startTime" validate:"required"`
	Hours        int       `json:"hours" validate:"omitempty,gt=0,lte=24"`
	ContactName  string    `json:"contactName" validate:"max=50"`
	ContactPhone string    `json:"contactPhone" validate:"omitempty,numeric,min=6,max=20"`
	Remark       string    `json:"remark" validate:"max=500"`
}

// OrderFilter là filter danh sách order
type OrderFilter struct {
	Status *int   `form:"status" json:"status,omitempty"`
	RoomID int64  `form:"roomId" json:"roomId,omitempty"`
	UserID string `form:"userId" json:"userId,omitempty"`
	Page   int    `form:"page" json:"page"`
	Limit  int    `form:"limit" json:"limit"`
}
