package services

import (
	"context"
	"net/http"

	apperrors "roomadmin/errors"

	"github.com/go-resty/resty/v2"
)

// AuthUser là user do auth provider trả về
type AuthUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// AuthSession là kết quả đổi credentials lấy token
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *AuthUser `json:"user"`
}

// AuthGateway là adapter tới auth provider
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignUp(ctx context.Context, email, password string, data map[string]interface{}) (*AuthSession, error)
	SignOut(ctx context.Context, token string) error
	User(ctx context.Context, token string) (*AuthUser, error)
}

// GoTrueGateway implement AuthGateway trên /auth/v1
type GoTrueGateway struct {
	client  *resty.Client
	anonKey string
	session SessionSource
}

func NewAuthGateway(opts RemoteOptions) *GoTrueGateway {
	return &GoTrueGateway{
		client:  newRestyClient(opts, "/auth/v1"),
		anonKey: opts.AnonKey,
		session: opts.Session,
	}
}

func (g *GoTrueGateway) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	var out AuthSession
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+g.anonKey).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		Post("/token")
	if err != nil {
		return nil, transportError(err)
	}
	if err := checkResponse(ctx, resp, g.session, false); err != nil {
		return nil, authFailure(err)
	}
	if err := decodeBody(resp, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "Đăng nhập thất bại", nil)
	}
	return &out, nil
}

func (g *GoTrueGateway) SignUp(ctx context.Context, email, password string, data map[string]interface{}) (*AuthSession, error) {
	var out AuthSession
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+g.anonKey).
		SetBody(map[string]interface{}{"email": email, "password": password, "data": data}).
		Post("/signup")
	if err != nil {
		return nil, transportError(err)
	}
	if err := checkResponse(ctx, resp, g.session, false); err != nil {
		return nil, err
	}
	return &out, decodeBody(resp, &out)
}

func (g *GoTrueGateway) SignOut(ctx context.Context, token string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Post("/logout")
	if err != nil {
		return transportError(err)
	}
	return checkResponse(ctx, resp, g.session, false)
}

func (g *GoTrueGateway) User(ctx context.Context, token string) (*AuthUser, error) {
	var out AuthUser
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get("/user")
	if err != nil {
		return nil, transportError(err)
	}
	if err := checkResponse(ctx, resp, g.session, true); err != nil {
		return nil, err
	}
	return &out, decodeBody(resp, &out)
}

// authFailure đổi lỗi từ chối credentials (400/401/422) thành lỗi xác thực
func authFailure(err error) error {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		return err
	}
	switch appErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeInvalidPassword,
			Message: appErr.Message,
			Status:  appErr.Status,
			Err:     apperrors.ErrUnauthorized,
		}
	}
	return err
}
