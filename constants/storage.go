package constants

import "time"

// Remote tables
const (
	TableRooms        = "rooms"
	TableRoomPackages = "room_packages"
	TableOrders       = "orders"
)

// Object storage
const (
	DefaultBucket    = "rooms"
	MaxImageSize     = 5 * 1024 * 1024
	ImageCacheMaxAge = "3600"
)

// Khóa lưu session ở phía client
const (
	SessionTokenKey    = "token"
	SessionUserInfoKey = "userInfo"
)

// Phiên dashboard dùng để nhớ filter danh sách phòng
const (
	DashboardSessionHeader = "X-Session-ID"
	DashboardSessionKey    = "dashboardSessionID"
)

// LoginRoute là route đăng nhập của dashboard
const LoginRoute = "/login"

const (
	DefaultRequestTimeout = 15 * time.Second
	RoomCacheTTL          = 10 * time.Minute
)
