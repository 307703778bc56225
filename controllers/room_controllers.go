package controllers

import (
	"context"
	"strconv"

	"roomadmin/constants"
	"roomadmin/dto"
	"roomadmin/models"
	"roomadmin/response"
	"roomadmin/services"
	"roomadmin/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RoomManager là các thao tác room mà controller cần
type RoomManager interface {
	CreateRoom(ctx context.Context, params dto.CreateRoomParams) (*models.Room, error)
	UpdateRoom(ctx context.Context, id int64, params dto.UpdateRoomParams) (*models.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context, filter dto.RoomFilter) (*dto.Page[models.Room], error)
	UpdateRoomStatus(ctx context.Context, id int64, status int) (*models.Room, error)
	SearchRooms(ctx context.Context, query string, limit int) ([]dto.ScoredRoom, error)
}

type RoomController struct {
	rooms  RoomManager
	rdb    *redis.Client
	logger logger.Logger
}

// NewRoomController tạo controller; rdb nil thì không nhớ filter theo phiên
func NewRoomController(rooms RoomManager, rdb *redis.Client, log logger.Logger) RoomController {
	if log == nil {
		log = logger.Nop()
	}
	return RoomController{rooms: rooms, rdb: rdb, logger: log}
}

func (rc RoomController) ListRooms(c *gin.Context) {
	var filter dto.RoomFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Tham số không hợp lệ")
		return
	}

	// keepFilters=true gộp với filter lần trước của cùng phiên dashboard
	key := c.GetString(constants.DashboardSessionKey)
	if rc.rdb != nil && key != "" && c.Query("keepFilters") == "true" {
		old, err := services.GetLastFilters(c.Request.Context(), rc.rdb, key)
		if err != nil {
			rc.logger.Warn("Lỗi đọc filter đã lưu: %v", err)
		}
		filter = *services.MergeFilters(old, &filter)
		if err := services.SaveLastFilters(c.Request.Context(), rc.rdb, key, &filter); err != nil {
			rc.logger.Warn("Lỗi lưu filter: %v", err)
		}
	}

	page, err := rc.rooms.ListRooms(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, page.Items, page.Page, page.Limit, page.Total)
}

// SearchRooms tìm gần đúng, ví dụ ?q=phong vip quan 1
func (rc RoomController) SearchRooms(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rooms, err := rc.rooms.SearchRooms(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, rooms)
}

func (rc RoomController) GetRoom(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	room, err := rc.rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, room)
}

func (rc RoomController) CreateRoom(c *gin.Context) {
	payload, images, _, err := parseRoomRequest(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	room, err := rc.rooms.CreateRoom(c.Request.Context(), payload.toCreate(images))
	if err != nil {
		// room đã tạo nhưng gói lỗi: vẫn trả room để dashboard hiển thị
		if room != nil {
			rc.logger.Warn("Phòng %d tạo xong nhưng gói giờ lỗi: %v", room.ID, err)
			response.Created(c, room)
			return
		}
		response.FromError(c, err)
		return
	}
	response.Created(c, room)
}

func (rc RoomController) UpdateRoom(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	payload, images, imagesSet, err := parseRoomRequest(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	room, err := rc.rooms.UpdateRoom(c.Request.Context(), id, payload.toUpdate(images, imagesSet))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, room)
}

func (rc RoomController) DeleteRoom(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := rc.rooms.DeleteRoom(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

func (rc RoomController) UpdateRoomStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var req dto.RoomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Trạng thái không được để trống")
		return
	}

	room, err := rc.rooms.UpdateRoomStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, room)
}
