package middleware

import (
	"roomadmin/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware gắn id phiên dashboard vào context. Header thiếu hoặc
// không phải UUID thì cấp id mới, client không chọn được khóa cache tùy ý.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := uuid.Parse(c.GetHeader(constants.DashboardSessionHeader))
		if err != nil {
			sessionID = uuid.New()
		}

		c.Set(constants.DashboardSessionKey, sessionID.String())
		c.Writer.Header().Set(constants.DashboardSessionHeader, sessionID.String())

		c.Next()
	}
}
