package routes

import (
	"net/http"

	"roomadmin/constants"
	"roomadmin/controllers"
	middlewares "roomadmin/middleware"
	"roomadmin/session"

	"github.com/gin-gonic/gin"
)

// Controllers gom các controller của dashboard
type Controllers struct {
	Auth         controllers.AuthController
	Rooms        controllers.RoomController
	Packages     controllers.PackageController
	Orders       controllers.OrderController
	Images       controllers.ImageController
	Notification controllers.NotificationController
}

func SetupRoutes(router *gin.Engine, store *session.Store, ctl Controllers) {
	router.Use(middlewares.SessionMiddleware(), middlewares.ErrorHandler())

	auth := middlewares.AuthMiddleware(store)
	admin := middlewares.AuthMiddleware(store, constants.UserRoleAdmin)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", ctl.Auth.Login)
	v1.POST("/auth/register", ctl.Auth.Register)
	v1.DELETE("/auth/logout", auth, ctl.Auth.Logout)
	v1.GET("/auth/me", auth, ctl.Auth.Me)

	v1.GET("/rooms", auth, ctl.Rooms.ListRooms)
	v1.GET("/rooms/search", auth, ctl.Rooms.SearchRooms)
	v1.GET("/rooms/:id", auth, ctl.Rooms.GetRoom)
	v1.POST("/rooms", auth, ctl.Rooms.CreateRoom)
	v1.PUT("/rooms/:id", auth, ctl.Rooms.UpdateRoom)
	v1.PUT("/rooms/:id/status", auth, ctl.Rooms.UpdateRoomStatus)
	v1.DELETE("/rooms/:id", admin, ctl.Rooms.DeleteRoom)

	v1.GET("/rooms/:id/packages", auth, ctl.Packages.ListPackages)
	v1.POST("/rooms/:id/packages", auth, ctl.Packages.CreatePackage)
	v1.PUT("/packages/:packageId", auth, ctl.Packages.UpdatePackage)
	v1.DELETE("/packages/:packageId", auth, ctl.Packages.DeletePackage)

	v1.GET("/orders", auth, ctl.Orders.ListOrders)
	v1.GET("/orders/:id", auth, ctl.Orders.GetOrder)
	v1.POST("/orders", auth, ctl.Orders.CreateOrder)
	v1.PUT("/orders/:id/confirm", auth, ctl.Orders.ConfirmOrder)
	v1.PUT("/orders/:id/cancel", auth, ctl.Orders.CancelOrder)
	v1.PUT("/orders/:id/complete", auth, ctl.Orders.CompleteOrder)

	v1.POST("/img/upload", auth, ctl.Images.Upload)
	v1.POST("/img/multi-upload", auth, ctl.Images.MultiUpload)
	v1.DELETE("/img", admin, ctl.Images.Delete)

	v1.POST("/notify", admin, ctl.Notification.NotifyAll)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
