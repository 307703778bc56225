package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	apperrors "roomadmin/errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage implement ObjectStore bằng Cloudinary; bucket là folder
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cld *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld}
}

// publicID bỏ phần mở rộng vì Cloudinary tự thêm định dạng vào URL
func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func (s *CloudinaryStorage) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   bucket,
		PublicID: publicID(key),
	})
	if err != nil {
		return "", transportError(err)
	}
	if resp.Error.Message != "" {
		return "", apperrors.NewAppError(apperrors.ErrCodeRemote, resp.Error.Message, nil)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStorage) Remove(ctx context.Context, bucket string, keys []string) error {
	for _, key := range keys {
		resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID: bucket + "/" + publicID(key),
		})
		if err != nil {
			return transportError(err)
		}
		if resp.Error.Message != "" {
			return apperrors.NewAppError(apperrors.ErrCodeRemote, resp.Error.Message, nil)
		}
		if resp.Result != "ok" && resp.Result != "not found" {
			return apperrors.NewAppError(apperrors.ErrCodeRemote, fmt.Sprintf("Xóa ảnh thất bại: %s", resp.Result), nil)
		}
	}
	return nil
}

func (s *CloudinaryStorage) List(ctx context.Context, bucket string) ([]StoredObject, error) {
	return nil, apperrors.ErrListUnsupported
}
