package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"roomadmin/constants"
	"roomadmin/types"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// FilePersister lưu session vào một file JSON cục bộ với các khóa cố định
// "token" và "userInfo", tương đương local storage của client.
type FilePersister struct {
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

type storedSession struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	ExpiresAt    int64           `json:"expiresAt,omitempty"`
	UserInfo     *types.UserInfo `json:"userInfo"`
}

func (p *FilePersister) Load(ctx context.Context) (*types.Session, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return stored.toSession(), nil
}

func (p *FilePersister) Save(ctx context.Context, s *types.Session) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(fromSession(s))
	if err != nil {
		return err
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, p.path)
}

func (p *FilePersister) Clear(ctx context.Context) error {
	err := os.Remove(p.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RedisPersister lưu session vào Redis với prefix + "token"/"userInfo"
type RedisPersister struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisPersister(rdb *redis.Client, prefix string) *RedisPersister {
	return &RedisPersister{rdb: rdb, prefix: prefix}
}

func (p *RedisPersister) tokenKey() string { return p.prefix + constants.SessionTokenKey }
func (p *RedisPersister) userKey() string  { return p.prefix + constants.SessionUserInfoKey }

func (p *RedisPersister) Load(ctx context.Context) (*types.Session, error) {
	vals, err := p.rdb.MGet(ctx, p.tokenKey(), p.userKey()).Result()
	if err != nil {
		return nil, err
	}
	token, _ := vals[0].(string)
	if token == "" {
		return nil, nil
	}

	var stored storedSession
	stored.Token = token
	if raw, ok := vals[1].(string); ok && raw != "" {
		var envelope struct {
			User         types.UserInfo `json:"user"`
			RefreshToken string         `json:"refreshToken"`
			ExpiresAt    int64          `json:"expiresAt"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return nil, fmt.Errorf("decode session user: %w", err)
		}
		stored.UserInfo = &envelope.User
		stored.RefreshToken = envelope.RefreshToken
		stored.ExpiresAt = envelope.ExpiresAt
	}
	return stored.toSession(), nil
}

func (p *RedisPersister) Save(ctx context.Context, s *types.Session) error {
	stored := fromSession(s)
	raw, err := json.Marshal(map[string]interface{}{
		"user":         stored.UserInfo,
		"refreshToken": stored.RefreshToken,
		"expiresAt":    stored.ExpiresAt,
	})
	if err != nil {
		return err
	}

	ttl := ttlUntil(s)
	pipe := p.rdb.TxPipeline()
	pipe.Set(ctx, p.tokenKey(), s.Token, ttl)
	pipe.Set(ctx, p.userKey(), raw, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	return p.rdb.Del(ctx, p.tokenKey(), p.userKey()).Err()
}

func fromSession(s *types.Session) storedSession {
	stored := storedSession{
		Token:        s.Token,
		RefreshToken: s.RefreshToken,
		UserInfo:     &s.User,
	}
	if !s.ExpiresAt.IsZero() {
		stored.ExpiresAt = s.ExpiresAt.Unix()
	}
	return stored
}

func (st storedSession) toSession() *types.Session {
	if st.Token == "" {
		return nil
	}
	s := &types.Session{
		Token:        st.Token,
		RefreshToken: st.RefreshToken,
	}
	if st.ExpiresAt > 0 {
		s.ExpiresAt = unixTime(st.ExpiresAt)
	}
	if st.UserInfo != nil {
		s.User = *st.UserInfo
	}
	return s
}
