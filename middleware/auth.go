package middleware

import (
	"crypto/subtle"
	"strings"

	"roomadmin/response"
	"roomadmin/services"
	"roomadmin/session"
	"roomadmin/types"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware yêu cầu header Authorization: Bearer <token> trùng với token
// của session đang giữ, và nếu có truyền, một trong các role.
// Route đang truy cập được gắn vào context để 401 từ remote redirect đúng chỗ.
func AuthMiddleware(store *session.Store, roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.URL.RequestURI()
		c.Request = c.Request.WithContext(session.WithIntendedRoute(c.Request.Context(), route))

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "")
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		current := store.Current()
		if tokenString == "" || current == nil ||
			subtle.ConstantTimeCompare([]byte(tokenString), []byte(current.Token)) != 1 {
			response.Unauthorized(c, "Token không hợp lệ")
			c.Abort()
			return
		}

		if !store.IsAuthenticated() {
			// session hết hạn được xóa giống như khi remote trả 401
			store.HandleUnauthorized(c.Request.Context())
			response.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, userRole := tokenIdentity(tokenString, current.User)

		// Kiểm tra role nếu có yêu cầu
		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == userRole {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		// Lưu thông tin user vào context
		c.Set("userID", userID)
		c.Set("userRole", userRole)
		c.Next()
	}
}

// tokenIdentity lấy user từ claim của token; claim thiếu thì dùng user của
// session đã khớp token
func tokenIdentity(tokenString string, fallback types.UserInfo) (string, int) {
	userID, userRole := fallback.ID, fallback.Role
	claims, err := services.ParseTokenClaims(tokenString)
	if err != nil {
		return userID, userRole
	}
	if claims.Subject != "" {
		userID = claims.Subject
	}
	if claims.Role != 0 {
		userRole = claims.Role
	}
	return userID, userRole
}

// ErrorHandler trả lỗi còn sót trong c.Errors theo envelope chung
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.FromError(c, c.Errors.Last().Err)
		}
	}
}
