package types

import "time"

// UserInfo là thông tin user của phiên đăng nhập hiện tại
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Role     int    `json:"role"`
	Status   int    `json:"status"`
}

// Session là token và user hiện tại của client
type Session struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
	User         UserInfo  `json:"userInfo"`
}

// Expired báo session đã hết hạn theo exp của token
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.Token == "" {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}
