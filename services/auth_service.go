package services

import (
	"context"
	"strings"
	"time"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/services/logger"
	"roomadmin/session"
	"roomadmin/types"
	"roomadmin/validator"
)

// DefaultEmailDomain ghép với username khi username không phải email
const DefaultEmailDomain = "roomadmin.local"

// AuthService đăng nhập/đăng ký qua auth provider và giữ session trong Store
type AuthService struct {
	gateway     AuthGateway
	store       *session.Store
	emailDomain string
	logger      logger.Logger
	now         func() time.Time
}

type AuthServiceOptions struct {
	Gateway     AuthGateway
	Store       *session.Store
	EmailDomain string
	Logger      logger.Logger
	Now         func() time.Time
}

func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.EmailDomain == "" {
		opts.EmailDomain = DefaultEmailDomain
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AuthService{
		gateway:     opts.Gateway,
		store:       opts.Store,
		emailDomain: opts.EmailDomain,
		logger:      opts.Logger,
		now:         opts.Now,
	}
}

func (s *AuthService) email(username string) string {
	username = strings.TrimSpace(username)
	if strings.Contains(username, "@") {
		return strings.ToLower(username)
	}
	// "Nguyễn Văn A" -> nguyen.van.a@domain
	local := strings.Join(strings.Fields(normalizeText(username)), ".")
	return local + "@" + s.emailDomain
}

// Login đổi username/password lấy session và lưu vào Store
func (s *AuthService) Login(ctx context.Context, creds dto.Credentials) (*types.Session, error) {
	if err := validator.ValidateCredentials(&creds); err != nil {
		return nil, err
	}

	authSess, err := s.gateway.SignIn(ctx, s.email(creds.Username), creds.Password)
	if err != nil {
		s.logger.Info("Đăng nhập thất bại cho %s: %v", creds.Username, err)
		return nil, err
	}
	if authSess == nil || authSess.AccessToken == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUnauthorized, "Đăng nhập thất bại", nil)
	}

	sess := s.buildSession(authSess, creds.Username)
	if sess.User.Status == constants.UserStatusInactive {
		return nil, apperrors.NewAppError(apperrors.ErrCodeForbidden, "Tài khoản đã bị khóa", nil)
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("User %s đăng nhập thành công", sess.User.Username)
	return sess, nil
}

// Register tạo tài khoản với role/status mặc định rồi đăng nhập
func (s *AuthService) Register(ctx context.Context, creds dto.Credentials) (*types.Session, error) {
	if err := validator.ValidateCredentials(&creds); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"username": creds.Username,
		"role":     constants.DefaultRegisterRole,
		"status":   constants.DefaultRegisterStatus,
	}
	if _, err := s.gateway.SignUp(ctx, s.email(creds.Username), creds.Password, data); err != nil {
		s.logger.Info("Đăng ký thất bại cho %s: %v", creds.Username, err)
		return nil, err
	}
	return s.Login(ctx, creds)
}

// Logout hủy session ở provider (lỗi chỉ log) và xóa session cục bộ
func (s *AuthService) Logout(ctx context.Context) error {
	if token := s.store.Token(); token != "" {
		if err := s.gateway.SignOut(ctx, token); err != nil {
			s.logger.Warn("Lỗi đăng xuất ở provider: %v", err)
		}
	}
	return s.store.Clear(ctx)
}

// CurrentUser lấy user của token hiện tại từ provider
func (s *AuthService) CurrentUser(ctx context.Context) (*types.UserInfo, error) {
	token := s.store.Token()
	if token == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Chưa đăng nhập", apperrors.ErrUnauthorized)
	}
	user, err := s.gateway.User(ctx, token)
	if err != nil {
		return nil, err
	}
	info := userInfoFrom(user, "")
	return &info, nil
}

func (s *AuthService) buildSession(authSess *AuthSession, username string) *types.Session {
	sess := &types.Session{
		Token:        authSess.AccessToken,
		RefreshToken: authSess.RefreshToken,
	}

	switch {
	case authSess.ExpiresAt > 0:
		sess.ExpiresAt = time.Unix(authSess.ExpiresAt, 0)
	case authSess.ExpiresIn > 0:
		sess.ExpiresAt = s.now().Add(time.Duration(authSess.ExpiresIn) * time.Second)
	}

	claims, err := ParseTokenClaims(authSess.AccessToken)
	if err != nil {
		s.logger.Debug("Không đọc được claims của token: %v", err)
	} else if sess.ExpiresAt.IsZero() && !claims.ExpiresAt.IsZero() {
		sess.ExpiresAt = claims.ExpiresAt
	}

	sess.User = userInfoFrom(authSess.User, username)
	if sess.User.ID == "" && claims != nil {
		sess.User.ID = claims.Subject
		sess.User.Role = claims.Role
	}
	return sess
}

func userInfoFrom(user *AuthUser, username string) types.UserInfo {
	info := types.UserInfo{
		Username: username,
		Status:   constants.UserStatusActive,
	}
	if user == nil {
		return info
	}
	info.ID = user.ID
	if info.Username == "" {
		info.Username = user.Email
	}
	meta := user.UserMetadata
	if v, ok := meta["username"].(string); ok && v != "" {
		info.Username = v
	}
	if v, ok := meta["nickname"].(string); ok {
		info.Nickname = v
	}
	if v, ok := meta["avatar"].(string); ok {
		info.Avatar = v
	}
	if v, ok := meta["role"].(float64); ok {
		info.Role = int(v)
	}
	if v, ok := meta["status"].(float64); ok {
		info.Status = int(v)
	}
	return info
}
