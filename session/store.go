// Package session giữ phiên đăng nhập hiện tại của client: token, user,
// lưu xuống storage cục bộ và xử lý khi remote trả 401.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"roomadmin/constants"
	"roomadmin/services/logger"
	"roomadmin/types"
)

// EventType là loại thay đổi của session
type EventType string

const (
	EventAuthenticated EventType = "authenticated"
	EventCleared       EventType = "cleared"
	EventExpired       EventType = "expired"
)

// Event được gửi tới subscriber mỗi khi session đổi trạng thái
type Event struct {
	Type    EventType
	Session *types.Session
}

// Persister lưu session xuống storage cục bộ
type Persister interface {
	Load(ctx context.Context) (*types.Session, error)
	Save(ctx context.Context, s *types.Session) error
	Clear(ctx context.Context) error
}

// Navigator đưa client về màn hình đăng nhập
type Navigator interface {
	ToLogin(path string)
}

// NavigatorFunc adapter cho hàm thường
type NavigatorFunc func(path string)

func (f NavigatorFunc) ToLogin(path string) { f(path) }

type StoreOptions struct {
	Persister Persister
	Navigator Navigator
	Logger    logger.Logger
	Now       func() time.Time
}

// Store là nơi duy nhất sở hữu session; gateway đọc token từ đây
type Store struct {
	mu          sync.RWMutex
	current     *types.Session
	persister   Persister
	navigator   Navigator
	logger      logger.Logger
	now         func() time.Time
	subscribers map[int]func(Event)
	nextID      int
}

func NewStore(opts StoreOptions) *Store {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		persister:   opts.Persister,
		navigator:   opts.Navigator,
		logger:      opts.Logger,
		now:         opts.Now,
		subscribers: make(map[int]func(Event)),
	}
}

// SetNavigator đổi navigator sau khi khởi tạo (dashboard cần melody trước)
func (s *Store) SetNavigator(n Navigator) {
	s.mu.Lock()
	s.navigator = n
	s.mu.Unlock()
}

// Restore nạp session đã lưu; session hết hạn bị xóa luôn
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	sess, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil || sess.Token == "" {
		return nil
	}
	if sess.Expired(s.now()) {
		s.logger.Info("Session đã lưu hết hạn, xóa")
		return s.persister.Clear(ctx)
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Token trả về access token hiện tại, rỗng nếu chưa đăng nhập
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current trả về bản sao session hiện tại
func (s *Store) Current() *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && !s.current.Expired(s.now())
}

// Set lưu session mới sau khi đăng nhập thành công
func (s *Store) Set(ctx context.Context, sess *types.Session) error {
	cp := *sess
	s.mu.Lock()
	s.current = &cp
	s.mu.Unlock()

	if s.persister != nil {
		if err := s.persister.Save(ctx, &cp); err != nil {
			s.logger.Error("Lỗi lưu session: %v", err)
			return err
		}
	}
	s.publish(Event{Type: EventAuthenticated, Session: &cp})
	return nil
}

// Clear xóa session (logout)
func (s *Store) Clear(ctx context.Context) error {
	if !s.drop() {
		return nil
	}
	err := s.clearPersisted(ctx)
	s.publish(Event{Type: EventCleared})
	return err
}

// HandleUnauthorized xử lý response 401: xóa session đúng một lần cho mỗi
// lần chuyển authenticated -> anonymous, sau đó chuyển về trang đăng nhập.
func (s *Store) HandleUnauthorized(ctx context.Context) {
	if s.drop() {
		if err := s.clearPersisted(ctx); err != nil {
			s.logger.Error("Lỗi xóa session đã lưu: %v", err)
		}
		s.publish(Event{Type: EventExpired})
	}

	s.mu.RLock()
	nav := s.navigator
	s.mu.RUnlock()
	if nav != nil {
		nav.ToLogin(LoginPath(IntendedRoute(ctx)))
	}
}

// Subscribe đăng ký observer; gọi hàm trả về để hủy
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// drop bỏ session trong bộ nhớ, trả true nếu trước đó có session
func (s *Store) drop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	s.current = nil
	return true
}

func (s *Store) clearPersisted(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Clear(ctx)
}

func (s *Store) publish(ev Event) {
	s.mu.RLock()
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

type intendedRouteKey struct{}

// WithIntendedRoute gắn route mà user đang muốn vào, dùng làm redirect
func WithIntendedRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, intendedRouteKey{}, route)
}

func IntendedRoute(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	route, _ := ctx.Value(intendedRouteKey{}).(string)
	return route
}

// LoginPath trả về route đăng nhập, kèm redirect nếu có
func LoginPath(redirect string) string {
	if redirect == "" || redirect == constants.LoginRoute {
		return constants.LoginRoute
	}
	return constants.LoginRoute + "?redirect=" + url.QueryEscape(redirect)
}
