package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	// Remote errors
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	ErrCodeRemote    ErrorCode = "REMOTE_ERROR"
	ErrCodeNotFound  ErrorCode = "NOT_FOUND"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeFileTooLarge  ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidFile   ErrorCode = "INVALID_FILE"

	// Business errors
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
)

// DefaultMessage dùng khi provider không trả message
const DefaultMessage = "Yêu cầu thất bại"

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	// Status là HTTP status của remote, 0 nếu lỗi xảy ra ở phía client
	Status int
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewRemoteError tạo lỗi cho response non-2xx
func NewRemoteError(status int, message string) *AppError {
	if message == "" {
		message = DefaultMessage
	}
	code := ErrCodeRemote
	switch status {
	case 401:
		code = ErrCodeUnauthorized
	case 403:
		code = ErrCodeForbidden
	case 404:
		code = ErrCodeNotFound
	}
	return &AppError{Code: code, Message: message, Status: status}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is kiểm tra mã lỗi
func Is(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// IsValidation gom các mã lỗi thuộc nhóm validation
func IsValidation(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat,
		ErrCodeInvalidStatus, ErrCodeFileTooLarge, ErrCodeInvalidFile:
		return true
	}
	return false
}

// IsUnauthorized gom các mã lỗi thuộc nhóm xác thực
func IsUnauthorized(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken, ErrCodeInvalidPassword:
		return true
	}
	return false
}

// MessageOf trả message hiển thị cho user
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil && appErr.Message != "" {
		return appErr.Message
	}
	return DefaultMessage
}

var (
	ErrUnauthorized = errors.New("unauthorized")

	// Order errors
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderCancelled     = errors.New("order already cancelled")
	ErrOrderCompleted     = errors.New("order already completed")
	ErrOrderConfirmed     = errors.New("order already confirmed")
	ErrOrderNotConfirmed  = errors.New("order not confirmed")
	ErrOrderInvalidStatus = errors.New("order has an unknown status")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrPackageNotFound = errors.New("package not found")

	// Storage errors
	ErrListUnsupported = errors.New("object listing not supported by this storage driver")
)
