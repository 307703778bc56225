package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomadmin/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	uploads []string
	removed []string
}

func (m *memoryStore) Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error) {
	m.uploads = append(m.uploads, bucket+"/"+key)
	return "https://cdn.test/storage/v1/object/public/" + bucket + "/" + key, nil
}

func (m *memoryStore) Remove(ctx context.Context, bucket string, keys []string) error {
	for _, k := range keys {
		m.removed = append(m.removed, bucket+"/"+k)
	}
	return nil
}

func (m *memoryStore) List(ctx context.Context, bucket string) ([]services.StoredObject, error) {
	return nil, nil
}

func imageRouter(store *memoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ic := NewImageController(services.NewImageService(services.ImageServiceOptions{
		Store:          store,
		DefaultBucket:  "rooms",
		AllowedBuckets: []string{"gallery"},
	}))
	r := gin.New()
	r.POST("/images/upload", ic.Upload)
	r.POST("/images/multi-upload", ic.MultiUpload)
	r.DELETE("/images", ic.Delete)
	return r
}

func uploadForm(t *testing.T, field, bucket string, count int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if bucket != "" {
		require.NoError(t, mw.WriteField("bucket", bucket))
	}
	for i := 0; i < count; i++ {
		fw, err := mw.CreateFormFile(field, "a.png")
		require.NoError(t, err)
		_, err = fw.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestImageController_UploadDefaultBucket(t *testing.T) {
	store := &memoryStore{}
	body, contentType := uploadForm(t, "file", "", 1)
	req := httptest.NewRequest(http.MethodPost, "/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	imageRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.uploads, 1)
	assert.True(t, strings.HasPrefix(store.uploads[0], "rooms/"))
}

func TestImageController_MultiUploadAllowedBucket(t *testing.T) {
	store := &memoryStore{}
	body, contentType := uploadForm(t, "files", "gallery", 2)
	req := httptest.NewRequest(http.MethodPost, "/images/multi-upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	imageRouter(store).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.uploads, 2)
	assert.Contains(t, w.Body.String(), "/gallery/")
}

func TestImageController_RejectsForeignBucket(t *testing.T) {
	store := &memoryStore{}
	r := imageRouter(store)

	body, contentType := uploadForm(t, "file", "private-kyc", 1)
	req := httptest.NewRequest(http.MethodPost, "/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Bucket không hợp lệ")

	req = httptest.NewRequest(http.MethodDelete, "/images", strings.NewReader(`{"url":"https://cdn.test/storage/v1/object/public/private-kyc/x.png","bucket":"private-kyc"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, store.uploads)
	assert.Empty(t, store.removed)
}

func TestImageController_DeleteRequiresURL(t *testing.T) {
	store := &memoryStore{}
	req := httptest.NewRequest(http.MethodDelete, "/images", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	imageRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.removed)
}
