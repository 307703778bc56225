package services

import (
	"context"
	"net/http"
	"time"

	apperrors "roomadmin/errors"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// SessionSource cung cấp token hiện tại và xử lý khi remote trả 401.
// *session.Store implement interface này.
type SessionSource interface {
	Token() string
	HandleUnauthorized(ctx context.Context)
}

// RemoteOptions là cấu hình chung cho các gateway gọi backend hosted
type RemoteOptions struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
	Session SessionSource
	// Client dùng lại khi cần (test); nil thì tạo mới
	Client *resty.Client
}

func newRestyClient(opts RemoteOptions, basePath string) *resty.Client {
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client.
		SetBaseURL(opts.BaseURL+basePath).
		SetTimeout(timeout).
		SetHeader("apikey", opts.AnonKey).
		SetHeader("Accept", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return client
}

// bearer trả token của session, hoặc anon key khi chưa đăng nhập
func bearer(sess SessionSource, anonKey string) string {
	if sess != nil {
		if token := sess.Token(); token != "" {
			return token
		}
	}
	return anonKey
}

func transportError(err error) error {
	return apperrors.NewAppError(apperrors.ErrCodeTransport, "Không thể kết nối tới server", err)
}

// checkResponse đổi response non-2xx thành AppError. Với 401 và handle401
// bật, session bị xóa và client được đưa về trang đăng nhập.
func checkResponse(ctx context.Context, resp *resty.Response, sess SessionSource, handle401 bool) error {
	if resp.IsSuccess() {
		return nil
	}
	status := resp.StatusCode()
	msg := providerMessage(resp.Body())
	if status == http.StatusUnauthorized && handle401 && sess != nil {
		sess.HandleUnauthorized(ctx)
	}
	if status == http.StatusUnauthorized && msg == "" {
		msg = "Phiên đăng nhập đã hết hạn"
	}
	return apperrors.NewRemoteError(status, msg)
}

// providerMessage lấy message lỗi từ body theo các khóa provider hay dùng
func providerMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "msg", "error_description", "error"} {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func decodeBody(resp *resty.Response, out interface{}) error {
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeRemote, "Dữ liệu trả về không hợp lệ", err)
	}
	return nil
}
