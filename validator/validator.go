package validator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"

	playground "github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *playground.Validate
)

func instance() *playground.Validate {
	once.Do(func() {
		validate = playground.New(playground.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct chạy các validate tag và đổi lỗi đầu tiên thành AppError
func ValidateStruct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		code := apperrors.ErrCodeValidation
		if fe.Tag() == "required" {
			code = apperrors.ErrCodeRequiredField
		}
		return apperrors.NewAppError(code, fieldMessage(fe), err)
	}
	return apperrors.NewAppError(apperrors.ErrCodeValidation, "Dữ liệu không hợp lệ", err)
}

func fieldMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s không được để trống", fe.Field())
	case "max":
		return fmt.Sprintf("%s vượt quá giới hạn %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s phải có ít nhất %s ký tự", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s không hợp lệ", fe.Field())
	}
}

// ValidateCredentials validate thông tin đăng nhập
func ValidateCredentials(c *dto.Credentials) error {
	return ValidateStruct(c)
}

// ValidateImages yêu cầu mỗi phần tử có đúng một trong URL hoặc file
func ValidateImages(images []dto.ImageInput) error {
	for i, img := range images {
		if (img.URL == "") == (img.File == nil) {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidFile,
				fmt.Sprintf("Ảnh thứ %d không hợp lệ", i+1), nil)
		}
	}
	return nil
}

// ValidateCreateRoom validate request tạo room
func ValidateCreateRoom(p *dto.CreateRoomParams) error {
	if err := ValidateStruct(p); err != nil {
		return err
	}
	if p.Status != nil {
		if err := ValidateRoomStatus(int(*p.Status)); err != nil {
			return err
		}
	}
	for i := range p.Packages {
		if err := ValidatePackageRequest(&p.Packages[i]); err != nil {
			return err
		}
	}
	return ValidateImages(p.Images)
}

// ValidateUpdateRoom validate partial update
func ValidateUpdateRoom(p *dto.UpdateRoomParams) error {
	if err := ValidateStruct(p); err != nil {
		return err
	}
	if p.Status != nil {
		if err := ValidateRoomStatus(int(*p.Status)); err != nil {
			return err
		}
	}
	return ValidateImages(p.Images)
}

// ValidateRoomStatus chỉ chấp nhận 4 trạng thái đã định nghĩa
func ValidateRoomStatus(status int) error {
	if !models.RoomStatus(status).Valid() {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "Trạng thái phòng không hợp lệ", nil)
	}
	return nil
}

// ValidatePackage validate gói giờ khi tạo kèm room
func ValidatePackage(p *models.RoomPackage) error {
	if p.Name == "" {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Tên gói không được để trống", nil)
	}
	if p.Hours <= 0 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Số giờ của gói phải lớn hơn 0", nil)
	}
	if p.Price < 0 {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Giá gói không được âm", nil)
	}
	return nil
}

// ValidatePackageRequest validate request tạo/cập nhật gói
func ValidatePackageRequest(p *dto.PackageRequest) error {
	return ValidateStruct(p)
}

// ValidateOrder validate request tạo order
func ValidateOrder(p *dto.CreateOrderParams, now time.Time) error {
	if err := ValidateStruct(p); err != nil {
		return err
	}
	if p.PackageID == nil && p.Hours <= 0 {
		return apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Cần chọn gói hoặc số giờ", nil)
	}
	if p.StartTime.Before(now.Add(-time.Minute)) {
		return apperrors.NewAppError(apperrors.ErrCodeValidation, "Giờ bắt đầu không được nhỏ hơn hiện tại", nil)
	}
	return nil
}
