package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/services/logger"
	"roomadmin/utils"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// ImageService là gateway ảnh: validate, đặt tên, upload, xóa theo URL
type ImageService struct {
	store         ObjectStore
	defaultBucket string
	allowed       map[string]bool
	maxSize       int64
	logger        logger.Logger
	now           func() time.Time
}

type ImageServiceOptions struct {
	Store         ObjectStore
	DefaultBucket string
	// AllowedBuckets là các bucket client được chọn ngoài DefaultBucket
	AllowedBuckets []string
	// MaxSize mặc định constants.MaxImageSize
	MaxSize int64
	Logger  logger.Logger
	Now     func() time.Time
}

func NewImageService(opts ImageServiceOptions) *ImageService {
	if opts.DefaultBucket == "" {
		opts.DefaultBucket = constants.DefaultBucket
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = constants.MaxImageSize
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	allowed := map[string]bool{opts.DefaultBucket: true}
	for _, b := range opts.AllowedBuckets {
		if b = strings.TrimSpace(b); b != "" {
			allowed[b] = true
		}
	}
	return &ImageService{
		store:         opts.Store,
		defaultBucket: opts.DefaultBucket,
		allowed:       allowed,
		maxSize:       opts.MaxSize,
		logger:        opts.Logger,
		now:           opts.Now,
	}
}

// DefaultBucket trả bucket dùng khi caller không chỉ định
func (s *ImageService) DefaultBucket() string {
	return s.defaultBucket
}

func (s *ImageService) bucket(bucket string) (string, error) {
	if bucket == "" {
		return s.defaultBucket, nil
	}
	if !s.allowed[bucket] {
		return "", apperrors.NewAppError(apperrors.ErrCodeValidation, "Bucket không hợp lệ", nil)
	}
	return bucket, nil
}

// validate kiểm tra file trước khi gọi network, trả content type phát hiện được
func (s *ImageService) validate(file *dto.ImageFile) (*mimetype.MIME, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFile, "File ảnh không hợp lệ", nil)
	}
	size := int64(len(file.Data))
	if file.Size > size {
		size = file.Size
	}
	if size > s.maxSize {
		return nil, apperrors.NewAppError(apperrors.ErrCodeFileTooLarge,
			fmt.Sprintf("Ảnh vượt quá %d MB", s.maxSize/(1024*1024)), nil)
	}
	mt := mimetype.Detect(file.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFile,
			fmt.Sprintf("File %s không phải là ảnh", file.Name), nil)
	}
	return mt, nil
}

// UploadImage validate và upload một ảnh, trả public URL
func (s *ImageService) UploadImage(ctx context.Context, file *dto.ImageFile, bucket string) (string, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return "", err
	}
	mt, err := s.validate(file)
	if err != nil {
		return "", err
	}
	key := utils.GenerateUniqueFileName(file.Name, mt.Extension(), s.now())

	contentType := file.ContentType
	if !strings.HasPrefix(contentType, "image/") {
		contentType = mt.String()
	}

	url, err := s.store.Upload(ctx, bucket, key, contentType, file.Data)
	if err != nil {
		s.logger.Error("Upload ảnh %s thất bại: %v", key, err)
		return "", err
	}
	s.logger.Debug("Đã upload ảnh %s/%s", bucket, key)
	return url, nil
}

// UploadImages upload đồng thời; lỗi một ảnh là lỗi cả lô, ảnh đã upload
// không được rollback ở đây
func (s *ImageService) UploadImages(ctx context.Context, files []*dto.ImageFile, bucket string) ([]string, error) {
	if _, err := s.bucket(bucket); err != nil {
		return nil, err
	}
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := s.UploadImage(gctx, file, bucket)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// DeleteImage xóa blob theo segment cuối của URL
func (s *ImageService) DeleteImage(ctx context.Context, url, bucket string) error {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return err
	}
	key, err := utils.KeyFromURL(url)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "URL ảnh không hợp lệ", err)
	}
	return s.store.Remove(ctx, bucket, []string{key})
}

// ListImages liệt kê blob trong bucket, dùng cho job dọn ảnh mồ côi
func (s *ImageService) ListImages(ctx context.Context, bucket string) ([]StoredObject, error) {
	bucket, err := s.bucket(bucket)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, bucket)
}
