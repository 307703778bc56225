package controllers

import (
	"context"

	"roomadmin/dto"
	"roomadmin/response"
	"roomadmin/types"

	"github.com/gin-gonic/gin"
)

// AuthManager là các thao tác xác thực mà controller cần
type AuthManager interface {
	Login(ctx context.Context, creds dto.Credentials) (*types.Session, error)
	Register(ctx context.Context, creds dto.Credentials) (*types.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.UserInfo, error)
}

type AuthController struct {
	auth AuthManager
}

func NewAuthController(auth AuthManager) AuthController {
	return AuthController{auth: auth}
}

type loginResult struct {
	Token    string         `json:"token"`
	UserInfo types.UserInfo `json:"userInfo"`
	Redirect string         `json:"redirect,omitempty"`
}

func (a AuthController) Login(c *gin.Context) {
	var input dto.Credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Tên đăng nhập và mật khẩu là bắt buộc")
		return
	}

	sess, err := a.auth.Login(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, loginResult{Token: sess.Token, UserInfo: sess.User, Redirect: c.Query("redirect")})
}

func (a AuthController) Register(c *gin.Context) {
	var input dto.Credentials
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Tên đăng nhập và mật khẩu là bắt buộc")
		return
	}

	sess, err := a.auth.Register(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, loginResult{Token: sess.Token, UserInfo: sess.User})
}

func (a AuthController) Logout(c *gin.Context) {
	if err := a.auth.Logout(c.Request.Context()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (a AuthController) Me(c *gin.Context) {
	user, err := a.auth.CurrentUser(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}
