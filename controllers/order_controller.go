package controllers

import (
	"context"

	"roomadmin/dto"
	"roomadmin/models"
	"roomadmin/response"

	"github.com/gin-gonic/gin"
)

type OrderManager interface {
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.Page[models.Order], error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, params dto.CreateOrderParams) (*models.Order, error)
	ConfirmOrder(ctx context.Context, id int64) (*models.Order, error)
	CancelOrder(ctx context.Context, id int64) (*models.Order, error)
	CompleteOrder(ctx context.Context, id int64) (*models.Order, error)
}

type OrderController struct {
	orders OrderManager
}

func NewOrderController(orders OrderManager) OrderController {
	return OrderController{orders: orders}
}

func (oc OrderController) ListOrders(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Tham số không hợp lệ")
		return
	}
	page, err := oc.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPagination(c, page.Items, page.Page, page.Limit, page.Total)
}

func (oc OrderController) GetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	order, err := oc.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

func (oc OrderController) CreateOrder(c *gin.Context) {
	var params dto.CreateOrderParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.BadRequest(c, "Dữ liệu order không hợp lệ")
		return
	}
	if params.UserID == "" {
		params.UserID = c.GetString("userID")
	}
	order, err := oc.orders.CreateOrder(c.Request.Context(), params)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, order)
}

func (oc OrderController) ConfirmOrder(c *gin.Context) {
	oc.transition(c, oc.orders.ConfirmOrder)
}

func (oc OrderController) CancelOrder(c *gin.Context) {
	oc.transition(c, oc.orders.CancelOrder)
}

func (oc OrderController) CompleteOrder(c *gin.Context) {
	oc.transition(c, oc.orders.CompleteOrder)
}

func (oc OrderController) transition(c *gin.Context, step func(context.Context, int64) (*models.Order, error)) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	order, err := step(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}
