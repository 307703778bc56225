package controllers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/middleware"
	"roomadmin/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeRooms struct {
	created   *dto.CreateRoomParams
	updated   *dto.UpdateRoomParams
	filter    *dto.RoomFilter
	createErr error
	deleteErr error
	partial   bool
}

func (f *fakeRooms) CreateRoom(ctx context.Context, params dto.CreateRoomParams) (*models.Room, error) {
	f.created = &params
	if f.partial {
		return &models.Room{ID: 7, Name: params.Name}, errors.New("package insert failed")
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Room{ID: 7, Name: params.Name}, nil
}

func (f *fakeRooms) UpdateRoom(ctx context.Context, id int64, params dto.UpdateRoomParams) (*models.Room, error) {
	f.updated = &params
	return &models.Room{ID: id}, nil
}

func (f *fakeRooms) DeleteRoom(ctx context.Context, id int64) error {
	return f.deleteErr
}

func (f *fakeRooms) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return &models.Room{ID: id, Name: "VIP-1"}, nil
}

func (f *fakeRooms) ListRooms(ctx context.Context, filter dto.RoomFilter) (*dto.Page[models.Room], error) {
	f.filter = &filter
	return &dto.Page[models.Room]{Items: []models.Room{{ID: 1}}, Page: filter.Page, Limit: filter.Limit, Total: 11}, nil
}

func (f *fakeRooms) UpdateRoomStatus(ctx context.Context, id int64, status int) (*models.Room, error) {
	return &models.Room{ID: id, Status: models.RoomStatus(status)}, nil
}

func (f *fakeRooms) SearchRooms(ctx context.Context, query string, limit int) ([]dto.ScoredRoom, error) {
	if query == "" {
		return nil, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Từ khóa tìm kiếm không được để trống", nil)
	}
	return []dto.ScoredRoom{{Room: models.Room{ID: 1, Name: query}, Score: limit}}, nil
}

func roomRouter(rooms RoomManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rc := NewRoomController(rooms, nil, nil)
	r := gin.New()
	r.GET("/rooms", rc.ListRooms)
	r.GET("/rooms/search", rc.SearchRooms)
	r.GET("/rooms/:id", rc.GetRoom)
	r.POST("/rooms", rc.CreateRoom)
	r.PUT("/rooms/:id", rc.UpdateRoom)
	r.PATCH("/rooms/:id/status", rc.UpdateRoomStatus)
	r.DELETE("/rooms/:id", rc.DeleteRoom)
	return r
}

func multipartRoom(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", " VIP-1 "))
	require.NoError(t, mw.WriteField("price", "100"))
	require.NoError(t, mw.WriteField("tags", "vip"))
	require.NoError(t, mw.WriteField("tags", " "))
	require.NoError(t, mw.WriteField("images", "https://cdn.test/rooms/old.jpg"))
	fw, err := mw.CreateFormFile("files", "a.png")
	require.NoError(t, err)
	_, err = fw.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestRoomController_CreateMultipart(t *testing.T) {
	rooms := &fakeRooms{}
	body, contentType := multipartRoom(t)

	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, rooms.created)
	assert.Equal(t, "VIP-1", rooms.created.Name)
	assert.Equal(t, 100.0, rooms.created.Price)
	assert.Equal(t, []string{"vip"}, rooms.created.Tags)

	require.Len(t, rooms.created.Images, 2)
	assert.Equal(t, "https://cdn.test/rooms/old.jpg", rooms.created.Images[0].URL)
	require.NotNil(t, rooms.created.Images[1].File)
	assert.Equal(t, "a.png", rooms.created.Images[1].File.Name)
	assert.Equal(t, pngHeader, rooms.created.Images[1].File.Data)
}

func TestRoomController_CreateBadPrice(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "VIP-1"))
	require.NoError(t, mw.WriteField("price", "abc"))
	require.NoError(t, mw.Close())

	rooms := &fakeRooms{}
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, rooms.created)
}

func TestRoomController_CreatePartialReturnsRoom(t *testing.T) {
	rooms := &fakeRooms{partial: true}
	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{"name":"VIP-1","packages":[{"name":"3 giờ","hours":3}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, rooms.created.Packages, 1)
}

func TestRoomController_CreateValidationError(t *testing.T) {
	rooms := &fakeRooms{createErr: apperrors.NewAppError(apperrors.ErrCodeRequiredField, "Name không được để trống", nil)}
	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomController_UpdateImagesPresence(t *testing.T) {
	rooms := &fakeRooms{}
	r := roomRouter(rooms)

	req := httptest.NewRequest(http.MethodPut, "/rooms/12", strings.NewReader(`{"price":120}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, rooms.updated)
	assert.Nil(t, rooms.updated.Images)
	require.NotNil(t, rooms.updated.Price)
	assert.Equal(t, 120.0, *rooms.updated.Price)

	req = httptest.NewRequest(http.MethodPut, "/rooms/12", strings.NewReader(`{"images":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotNil(t, rooms.updated.Images)
	assert.Empty(t, rooms.updated.Images)
}

func TestRoomController_ListBindsQuery(t *testing.T) {
	rooms := &fakeRooms{}
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms?status=1&tags=vip&tags=quiet&page=1&limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rooms.filter.Status)
	assert.Equal(t, 1, *rooms.filter.Status)
	assert.Equal(t, []string{"vip", "quiet"}, rooms.filter.Tags)

	var body struct {
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 5, body.Pagination.Limit)
	assert.Equal(t, 11, body.Pagination.Total)
}

func TestRoomController_BadID(t *testing.T) {
	w := httptest.NewRecorder()
	roomRouter(&fakeRooms{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomController_StatusRequiresBody(t *testing.T) {
	r := roomRouter(&fakeRooms{})

	req := httptest.NewRequest(http.MethodPatch, "/rooms/12/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPatch, "/rooms/12/status", strings.NewReader(`{"status":3}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoomController_DeleteNotFound(t *testing.T) {
	rooms := &fakeRooms{deleteErr: apperrors.NewRemoteError(404, "Không tìm thấy phòng")}
	w := httptest.NewRecorder()
	roomRouter(rooms).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/rooms/12", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomController_Search(t *testing.T) {
	r := roomRouter(&fakeRooms{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/search?q=vip&limit=3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Score int    `json:"score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "vip", body.Data[0].Name)
	assert.Equal(t, 3, body.Data[0].Score)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomController_KeepFiltersPerDashboardSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	rooms := &fakeRooms{}
	rc := NewRoomController(rooms, rdb, nil)
	r := gin.New()
	r.Use(middleware.SessionMiddleware())
	r.GET("/rooms", rc.ListRooms)

	list := func(target, sessionID string) string {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if sessionID != "" {
			req.Header.Set(constants.DashboardSessionHeader, sessionID)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Header().Get(constants.DashboardSessionHeader)
	}

	sessionID := list("/rooms?status=1&keepFilters=true", "")
	require.NotEmpty(t, sessionID)

	list("/rooms?area=Q1&keepFilters=true", sessionID)
	require.NotNil(t, rooms.filter.Status)
	assert.Equal(t, 1, *rooms.filter.Status)
	assert.Equal(t, "Q1", rooms.filter.Area)

	// phiên khác không thấy filter của phiên trên
	list("/rooms?area=Q3&keepFilters=true", uuid.NewString())
	assert.Nil(t, rooms.filter.Status)
	assert.Equal(t, "Q3", rooms.filter.Area)

	// không có keepFilters thì không gộp
	list("/rooms?area=Q7", sessionID)
	assert.Nil(t, rooms.filter.Status)
}
