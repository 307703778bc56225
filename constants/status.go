package constants

// User status
const (
	UserStatusActive   = 1
	UserStatusInactive = 0
)

// User role
const (
	UserRoleAdmin = 1
	UserRoleStaff = 2
)

// Giá trị mặc định khi đăng ký tài khoản mới
const (
	DefaultRegisterRole   = UserRoleAdmin
	DefaultRegisterStatus = UserStatusActive
)

// Order status
const (
	OrderStatusPending   = 0
	OrderStatusConfirmed = 1
	OrderStatusCompleted = 2
	OrderStatusCancelled = 3
)

// Package status
const (
	PackageStatusDisabled = 0
	PackageStatusEnabled  = 1
)
