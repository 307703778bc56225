package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomadmin/constants"

	"github.com/go-resty/resty/v2"
)

// SupabaseStorage implement ObjectStore trên /storage/v1
type SupabaseStorage struct {
	client  *resty.Client
	baseURL string
	anonKey string
	session SessionSource
}

func NewSupabaseStorage(opts RemoteOptions) *SupabaseStorage {
	return &SupabaseStorage{
		client:  newRestyClient(opts, "/storage/v1"),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		anonKey: opts.AnonKey,
		session: opts.Session,
	}
}

// PublicURL suy ra URL công khai từ bucket + key
func (s *SupabaseStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, key)
}

func (s *SupabaseStorage) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	resp, err := s.request(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("cache-control", "max-age="+constants.ImageCacheMaxAge).
		SetHeader("x-upsert", "false").
		SetBody(data).
		Post(fmt.Sprintf("/object/%s/%s", bucket, key))
	if err != nil {
		return "", transportError(err)
	}
	if err := checkResponse(ctx, resp, s.session, true); err != nil {
		return "", err
	}
	return s.PublicURL(bucket, key), nil
}

func (s *SupabaseStorage) Remove(ctx context.Context, bucket string, keys []string) error {
	resp, err := s.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": keys}).
		Execute(http.MethodDelete, "/object/"+bucket)
	if err != nil {
		return transportError(err)
	}
	return checkResponse(ctx, resp, s.session, true)
}

type supabaseObject struct {
	Name      string    `json:"name"`
	ID        *string   `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SupabaseStorage) List(ctx context.Context, bucket string) ([]StoredObject, error) {
	const pageSize = 1000
	var objects []StoredObject
	for offset := 0; ; offset += pageSize {
		var page []supabaseObject
		resp, err := s.request(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"prefix": "",
				"limit":  pageSize,
				"offset": offset,
				"sortBy": map[string]string{"column": "created_at", "order": "asc"},
			}).
			Post("/object/list/" + bucket)
		if err != nil {
			return nil, transportError(err)
		}
		if err := checkResponse(ctx, resp, s.session, true); err != nil {
			return nil, err
		}
		if err := decodeBody(resp, &page); err != nil {
			return nil, err
		}
		for _, obj := range page {
			// folder không có id
			if obj.ID == nil {
				continue
			}
			objects = append(objects, StoredObject{
				Key:       obj.Name,
				URL:       s.PublicURL(bucket, obj.Name),
				CreatedAt: obj.CreatedAt,
			})
		}
		if len(page) < pageSize {
			return objects, nil
		}
	}
}

func (s *SupabaseStorage) request(ctx context.Context) *resty.Request {
	return s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+bearer(s.session, s.anonKey))
}
