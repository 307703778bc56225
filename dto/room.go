package dto

import "roomadmin/models"

// ImageFile là payload ảnh cục bộ chưa upload
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// ImageInput là một phần tử của danh sách ảnh: URL có sẵn hoặc file mới
type ImageInput struct {
	URL  string
	File *ImageFile
}

// ImageURL tạo ImageInput từ URL đã upload
func ImageURL(url string) ImageInput {
	return ImageInput{URL: url}
}

// NewImage tạo ImageInput từ file cục bộ
func NewImage(file *ImageFile) ImageInput {
	return ImageInput{File: file}
}

// CreateRoomParams là DTO cho request tạo room
type CreateRoomParams struct {
	Name        string             `json:"name" validate:"required,max=100"`
	Description string             `json:"description" validate:"max=2000"`
	Area        string             `json:"area" validate:"max=100"`
	Price       float64            `json:"price" validate:"gte=0"`
	Status      *models.RoomStatus `json:"status" validate:"omitempty,gte=0,lte=3"`
	Images      []ImageInput       `json:"-"`
	Tags        []string           `json:"tags" validate:"omitempty,dive,required,max=30"`
	Packages    []PackageRequest   `json:"packages"`
}

// UpdateRoomParams là DTO cho partial update; field nil thì giữ nguyên
type UpdateRoomParams struct {
	Name        *string            `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Area        *string            `json:"area" validate:"omitempty,max=100"`
	Price       *float64           `json:"price" validate:"omitempty,gte=0"`
	Status      *models.RoomStatus `json:"status" validate:"omitempty,gte=0,lte=3"`
	Tags        []string           `json:"tags" validate:"omitempty,dive,required,max=30"`
	// Images nil thì không đụng tới ảnh hiện tại
	Images []ImageInput `json:"-"`
}

// RoomFilter là các tham số filter danh sách phòng
type RoomFilter struct {
	Status       *int     `form:"status" json:"status,omitempty"`
	Name         string   `form:"name" json:"name,omitempty"`
	Area         string   `form:"area" json:"area,omitempty"`
	MinPrice     *float64 `form:"minPrice" json:"minPrice,omitempty"`
	MaxPrice     *float64 `form:"maxPrice" json:"maxPrice,omitempty"`
	Tags         []string `form:"tags" json:"tags,omitempty"`
	WithPackages bool     `form:"withPackages" json:"withPackages,omitempty"`
	Page         int      `form:"page" json:"page"`
	Limit        int      `form:"limit" json:"limit"`
}

// ScoredRoom là phòng kèm điểm phù hợp khi tìm kiếm
type ScoredRoom struct {
	models.Room
	Score int `json:"score"`
}

// RoomStatusRequest là DTO cho request cập nhật trạng thái room
type RoomStatusRequest struct {
	Status *int `json:"status" binding:"required"`
}

// PackageRequest là DTO tạo/cập nhật gói giờ
type PackageRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Hours       int     `json:"hours" validate:"gt=0,lte=24"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"max=500"`
	Status      *int    `json:"status" validate:"omitempty,oneof=0 1"`
}
