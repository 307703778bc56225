package dto

// Credentials là thông tin đăng nhập/đăng ký
type Credentials struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required,min=6"`
}
