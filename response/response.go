package response

import (
	"net/http"

	apperrors "roomadmin/errors"
	"roomadmin/session"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
	})
}

// Created trả về 201 cho tài nguyên vừa tạo
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Tạo thành công",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error trả về response lỗi
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code: 0,
		Mess: message,
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Lỗi server")
}

// Unauthorized trả về 401 kèm route đăng nhập có redirect về trang hiện tại
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Chưa xác thực"
	}
	c.JSON(http.StatusUnauthorized, Response{
		Code: 0,
		Mess: message,
		Data: gin.H{"redirect": session.LoginPath(c.Request.URL.RequestURI())},
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Không có quyền truy cập")
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Không tìm thấy")
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// FromError map AppError sang HTTP status tương ứng
func FromError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}

	switch {
	case apperrors.IsValidation(err):
		BadRequest(c, appErr.Message)
	case apperrors.IsUnauthorized(err):
		Unauthorized(c, appErr.Message)
	case appErr.Code == apperrors.ErrCodeForbidden:
		Error(c, http.StatusForbidden, appErr.Message)
	case appErr.Code == apperrors.ErrCodeNotFound:
		Error(c, http.StatusNotFound, appErr.Message)
	case appErr.Code == apperrors.ErrCodeInvalidOperation:
		Error(c, http.StatusConflict, appErr.Message)
	case appErr.Code == apperrors.ErrCodeTransport, appErr.Code == apperrors.ErrCodeRemote:
		Error(c, http.StatusBadGateway, appErr.Message)
	default:
		Error(c, http.StatusBadRequest, apperrors.MessageOf(err))
	}
}
