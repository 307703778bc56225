package controllers

import (
	"roomadmin/response"
	"roomadmin/services/logger"

	"github.com/gin-gonic/gin"
)

// Broadcaster gửi thông báo tới các dashboard đang mở
type Broadcaster interface {
	Publish(event string, payload interface{}) error
}

const EventAnnouncement = "announcement"

type NotificationController struct {
	broadcaster Broadcaster
	logger      logger.Logger
}

func NewNotificationController(b Broadcaster, log logger.Logger) NotificationController {
	if log == nil {
		log = logger.Nop()
	}
	return NotificationController{broadcaster: b, logger: log}
}

type notifyRequest struct {
	Message string `json:"message" binding:"required"`
}

// NotifyAll gửi thông báo tới mọi client /ws
func (nc NotificationController) NotifyAll(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nội dung thông báo là bắt buộc")
		return
	}

	payload := gin.H{"message": req.Message, "from": c.GetString("userID")}
	if err := nc.broadcaster.Publish(EventAnnouncement, payload); err != nil {
		nc.logger.Error("Gửi thông báo thất bại: %v", err)
		response.ServerError(c)
		return
	}
	response.Success(c, nil)
}
