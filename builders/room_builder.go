package builders

import (
	"roomadmin/models"
)

// RoomBuilder tạo bản ghi room với giá trị mặc định: status available,
// tags rỗng, description rỗng, images rỗng
type RoomBuilder struct {
	room *models.Room
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		room: &models.Room{
			Status: models.RoomStatusAvailable,
			Images: []string{},
			Tags:   []string{},
		},
	}
}

func (b *RoomBuilder) WithName(name string) *RoomBuilder {
	b.room.Name = name
	return b
}

func (b *RoomBuilder) WithDescription(description string) *RoomBuilder {
	b.room.Description = description
	return b
}

func (b *RoomBuilder) WithArea(area string) *RoomBuilder {
	b.room.Area = area
	return b
}

func (b *RoomBuilder) WithPrice(price float64) *RoomBuilder {
	b.room.Price = price
	return b
}

// WithStatus chỉ ghi đè khi caller có truyền status
func (b *RoomBuilder) WithStatus(status *models.RoomStatus) *RoomBuilder {
	if status != nil {
		b.room.Status = *status
	}
	return b
}

func (b *RoomBuilder) WithTags(tags []string) *RoomBuilder {
	if tags != nil {
		b.room.Tags = tags
	}
	return b
}

func (b *RoomBuilder) WithImages(urls []string) *RoomBuilder {
	if urls != nil {
		b.room.Images = urls
	}
	return b
}

func (b *RoomBuilder) Build() *models.Room {
	return b.room
}
