package services

import (
	"context"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"
	"roomadmin/services/logger"
	"roomadmin/validator"
)

// PackageService quản lý gói giờ của phòng
type PackageService struct {
	data   DataGateway
	logger logger.Logger
}

func NewPackageService(data DataGateway, log logger.Logger) *PackageService {
	if log == nil {
		log = logger.Nop()
	}
	return &PackageService{data: data, logger: log}
}

type packageRecord struct {
	RoomID      int64   `json:"room_id"`
	Name        string  `json:"name"`
	Hours       int     `json:"hours"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Status      int     `json:"status"`
}

// ListPackages trả các gói của một phòng, sắp theo số giờ
func (s *PackageService) ListPackages(ctx context.Context, roomID int64) ([]models.RoomPackage, error) {
	var rows []models.RoomPackage
	q := NewQuery().Eq("room_id", roomID).Order("hours", true)
	if _, err := s.data.Select(ctx, constants.TableRoomPackages, q, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.RoomPackage{}
	}
	return rows, nil
}

// GetPackage đọc một gói theo id
func (s *PackageService) GetPackage(ctx context.Context, id int64) (*models.RoomPackage, error) {
	var rows []models.RoomPackage
	if _, err := s.data.Select(ctx, constants.TableRoomPackages, NewQuery().Eq("id", id), &rows); err != nil {
		return nil, err
	}
	return firstOrNotFound(rows, apperrors.ErrPackageNotFound)
}

func (s *PackageService) CreatePackage(ctx context.Context, roomID int64, req dto.PackageRequest) (*models.RoomPackage, error) {
	if err := validator.ValidatePackageRequest(&req); err != nil {
		return nil, err
	}
	status := constants.PackageStatusEnabled
	if req.Status != nil {
		status = *req.Status
	}
	return s.create(ctx, roomID, models.RoomPackage{
		Name:        req.Name,
		Hours:       req.Hours,
		Price:       req.Price,
		Description: req.Description,
		Status:      status,
	})
}

func (s *PackageService) create(ctx context.Context, roomID int64, p models.RoomPackage) (*models.RoomPackage, error) {
	if err := validator.ValidatePackage(&p); err != nil {
		return nil, err
	}
	record := packageRecord{
		RoomID:      roomID,
		Name:        p.Name,
		Hours:       p.Hours,
		Price:       p.Price,
		Description: p.Description,
		Status:      p.Status,
	}
	var rows []models.RoomPackage
	if err := s.data.Insert(ctx, constants.TableRoomPackages, record, &rows); err != nil {
		return nil, err
	}
	return firstOrNotFound(rows, apperrors.ErrPackageNotFound)
}

func (s *PackageService) UpdatePackage(ctx context.Context, id int64, req dto.PackageRequest) (*models.RoomPackage, error) {
	if err := validator.ValidatePackageRequest(&req); err != nil {
		return nil, err
	}
	body := map[string]interface{}{
		"name":        req.Name,
		"hours":       req.Hours,
		"price":       req.Price,
		"description": req.Description,
	}
	if req.Status != nil {
		body["status"] = *req.Status
	}

	var rows []models.RoomPackage
	if err := s.data.Update(ctx, constants.TableRoomPackages, NewQuery().Eq("id", id), body, &rows); err != nil {
		return nil, err
	}
	return firstOrNotFound(rows, apperrors.ErrPackageNotFound)
}

func (s *PackageService) DeletePackage(ctx context.Context, id int64) error {
	if err := s.data.Delete(ctx, constants.TableRoomPackages, NewQuery().Eq("id", id)); err != nil {
		s.logger.Error("Xóa gói %d thất bại: %v", id, err)
		return err
	}
	return nil
}
