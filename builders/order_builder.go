package builders

import (
	"time"

	"roomadmin/models"
)

// OrderBuilder giúp tạo order theo từng bước
type OrderBuilder struct {
	order *models.Order
}

// NewOrderBuilder tạo instance mới của OrderBuilder, trạng thái mặc định pending
func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		order: &models.Order{Status: models.OrderStatusPending},
	}
}

// WithUser thêm thông tin user
func (b *OrderBuilder) WithUser(userID string) *OrderBuilder {
	b.order.UserID = userID
	return b
}

// WithRoom thêm thông tin phòng
func (b *OrderBuilder) WithRoom(roomID int64) *OrderBuilder {
	b.order.RoomID = roomID
	return b
}

// WithPackage gắn gói giờ, nil nếu đặt theo giờ lẻ
func (b *OrderBuilder) WithPackage(packageID *int64) *OrderBuilder {
	b.order.PackageID = packageID
	return b
}

// WithStatus thêm trạng thái
func (b *OrderBuilder) WithStatus(status int) *OrderBuilder {
	b.order.Status = status
	return b
}

// WithContact thêm thông tin liên hệ
func (b *OrderBuilder) WithContact(name, phone string) *OrderBuilder {
	b.order.ContactName = name
	b.order.ContactPhone = phone
	return b
}

func (b *OrderBuilder) WithRemark(remark string) *OrderBuilder {
	b.order.Remark = remark
	return b
}

// WithSchedule đặt giờ bắt đầu và số giờ, giờ kết thúc được suy ra
func (b *OrderBuilder) WithSchedule(start time.Time, hours int) *OrderBuilder {
	b.order.StartTime = start
	b.order.Hours = hours
	b.order.EndTime = start.Add(time.Duration(hours) * time.Hour)
	return b
}

// WithTotalPrice thêm tổng giá
func (b *OrderBuilder) WithTotalPrice(totalPrice float64) *OrderBuilder {
	b.order.TotalPrice = totalPrice
	return b
}

// Build tạo order hoàn chỉnh
func (b *OrderBuilder) Build() *models.Order {
	return b.order
}
