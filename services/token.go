package services

import (
	"strings"
	"time"

	apperrors "roomadmin/errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/goccy/go-json"
)

// TokenClaims là các claim client cần đọc từ access token
type TokenClaims struct {
	Subject   string
	Role      int
	ExpiresAt time.Time
}

// ParseTokenClaims giải mã payload của access token mà không verify chữ ký;
// token do auth provider ký, client chỉ cần exp/sub/role
func ParseTokenClaims(tokenString string) (*TokenClaims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token không hợp lệ", nil)
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không thể giải mã token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Không thể parse token", err)
	}

	claims := &TokenClaims{}
	claims.Subject, _ = claimsMap["sub"].(string)
	if exp, ok := claimsMap["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if meta, ok := claimsMap["user_metadata"].(map[string]interface{}); ok {
		if role, ok := meta["role"].(float64); ok {
			claims.Role = int(role)
		}
	}
	return claims, nil
}
