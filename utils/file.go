package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUniqueFileName tạo tên file dạng <timestamp>-<random>.<ext>
func GenerateUniqueFileName(originalName, fallbackExt string, now time.Time) string {
	ext := FileExtension(originalName)
	if ext == "" {
		ext = strings.TrimPrefix(fallbackExt, ".")
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	if ext == "" {
		return fmt.Sprintf("%d-%s", now.UnixMilli(), random)
	}
	return fmt.Sprintf("%d-%s.%s", now.UnixMilli(), random, ext)
}

// FileExtension lấy phần mở rộng (không có dấu chấm, chữ thường)
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	ext := strings.ToLower(name[idx+1:])
	if strings.ContainsAny(ext, "/\\ ") {
		return ""
	}
	return ext
}

// KeyFromURL lấy storage key (segment cuối của path) từ public URL
func KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" || key == "" {
		return "", fmt.Errorf("url %q has no object key", rawURL)
	}
	return key, nil
}
