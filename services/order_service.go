package services

import (
	"context"
	"time"

	"roomadmin/builders"
	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"
	"roomadmin/services/logger"
	"roomadmin/validator"
)

// OrderService quản lý order; chuyển trạng thái theo models.OrderState
type OrderService struct {
	data     DataGateway
	rooms    *RoomService
	packages *PackageService
	notifier Notifier
	logger   logger.Logger
	now      func() time.Time
}

type OrderServiceOptions struct {
	Data     DataGateway
	Rooms    *RoomService
	Packages *PackageService
	Notifier Notifier
	Logger   logger.Logger
	Now      func() time.Time
}

// Sự kiện thay đổi order
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

func NewOrderService(opts OrderServiceOptions) *OrderService {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OrderService{
		data:     opts.Data,
		rooms:    opts.Rooms,
		packages: opts.Packages,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// ListOrders lọc và phân trang order, mới nhất trước
func (s *OrderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.Page[models.Order], error) {
	filter.Page, filter.Limit = dto.Normalize(filter.Page, filter.Limit)
	q := NewQuery().Order("created_at", false).Page(filter.Page, filter.Limit).Count()
	if filter.Status != nil {
		q.Eq("status", *filter.Status)
	}
	if filter.RoomID > 0 {
		q.Eq("room_id", filter.RoomID)
	}
	if filter.UserID != "" {
		q.Eq("user_id", filter.UserID)
	}

	var rows []models.Order
	total, err := s.data.Select(ctx, constants.TableOrders, q, &rows)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return &dto.Page[models.Order]{Items: rows, Page: filter.Page, Limit: filter.Limit, Total: total}, nil
}

// GetOrder lấy order theo ID
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var rows []models.Order
	if _, err := s.data.Select(ctx, constants.TableOrders, NewQuery().Eq("id", id), &rows); err != nil {
		return nil, err
	}
	return firstOrNotFound(rows, apperrors.ErrOrderNotFound)
}

// CreateOrder tạo order; giờ kết thúc và tổng tiền lấy từ gói nếu có, ngược
// lại tính theo giá giờ của phòng
func (s *OrderService) CreateOrder(ctx context.Context, params dto.CreateOrderParams) (*models.Order, error) {
	if err := validator.ValidateOrder(&params, s.now()); err != nil {
		return nil, err
	}

	room, err := s.rooms.fetchRoom(ctx, params.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusAvailable {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation,
			"Phòng hiện không thể đặt: "+room.Status.String(), nil)
	}

	hours := params.Hours
	total := room.Price * float64(hours)
	if params.PackageID != nil {
		pkg, err := s.packages.GetPackage(ctx, *params.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg.RoomID != room.ID || pkg.Status != constants.PackageStatusEnabled {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "Gói giờ không áp dụng cho phòng này", nil)
		}
		hours = pkg.Hours
		total = pkg.Price
	}

	order := builders.NewOrderBuilder().
		WithRoom(room.ID).
		WithPackage(params.PackageID).
		WithUser(params.UserID).
		WithSchedule(params.StartTime, hours).
		WithTotalPrice(total).
		WithContact(params.ContactName, params.ContactPhone).
		WithRemark(params.Remark).
		Build()

	var rows []models.Order
	if err := s.data.Insert(ctx, constants.TableOrders, order, &rows); err != nil {
		s.logger.Error("Tạo order cho phòng %d thất bại: %v", room.ID, err)
		return nil, err
	}
	created, err := firstOrNotFound(rows, apperrors.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	s.notify(EventOrderCreated, created)
	return created, nil
}

// ConfirmOrder xác nhận order
func (s *OrderService) ConfirmOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderState.Confirm)
}

// CancelOrder hủy order
func (s *OrderService) CancelOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderState.Cancel)
}

// CompleteOrder hoàn thành order
func (s *OrderService) CompleteOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderState.Complete)
}

func (s *OrderService) transition(ctx context.Context, id int64, step func(models.OrderState, *models.Order) error) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := step(models.GetOrderState(order.Status), order); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "Không thể chuyển trạng thái order", err)
	}

	// chỉ cập nhật khi trạng thái trên server chưa đổi
	q := NewQuery().Eq("id", id).Eq("status", from)
	var rows []models.Order
	if err := s.data.Update(ctx, constants.TableOrders, q, map[string]interface{}{"status": order.Status}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "Order đã được cập nhật bởi người khác", nil)
	}
	s.notify(EventOrderUpdated, &rows[0])
	return &rows[0], nil
}

func (s *OrderService) notify(event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(event, payload); err != nil {
		s.logger.Warn("Lỗi gửi sự kiện %s: %v", event, err)
	}
}
