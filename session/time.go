package session

import (
	"time"

	"roomadmin/types"
)

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0)
}

// ttlUntil trả TTL cho key Redis; 0 nghĩa là không hết hạn
func ttlUntil(s *types.Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
