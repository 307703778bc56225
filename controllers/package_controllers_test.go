package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePackages struct {
	roomID    int64
	id        int64
	req       *dto.PackageRequest
	deleted   []int64
	updateErr error
}

func (f *fakePackages) ListPackages(ctx context.Context, roomID int64) ([]models.RoomPackage, error) {
	f.roomID = roomID
	return []models.RoomPackage{{ID: 1, RoomID: roomID, Hours: 3}, {ID: 2, RoomID: roomID, Hours: 10}}, nil
}

func (f *fakePackages) CreatePackage(ctx context.Context, roomID int64, req dto.PackageRequest) (*models.RoomPackage, error) {
	f.roomID, f.req = roomID, &req
	return &models.RoomPackage{ID: 3, RoomID: roomID, Name: req.Name, Hours: req.Hours}, nil
}

func (f *fakePackages) UpdatePackage(ctx context.Context, id int64, req dto.PackageRequest) (*models.RoomPackage, error) {
	f.id, f.req = id, &req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.RoomPackage{ID: id, Name: req.Name}, nil
}

func (f *fakePackages) DeletePackage(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func packageRouter(pkgs PackageManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pc := NewPackageController(pkgs)
	r := gin.New()
	r.GET("/rooms/:id/packages", pc.ListPackages)
	r.POST("/rooms/:id/packages", pc.CreatePackage)
	r.PUT("/packages/:packageId", pc.UpdatePackage)
	r.DELETE("/packages/:packageId", pc.DeletePackage)
	return r
}

func TestPackageController_List(t *testing.T) {
	pkgs := &fakePackages{}
	w := httptest.NewRecorder()
	packageRouter(pkgs).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/5/packages", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), pkgs.roomID)
	assert.Contains(t, w.Body.String(), `"hours":10`)
}

func TestPackageController_CreateBindsBody(t *testing.T) {
	pkgs := &fakePackages{}
	req := httptest.NewRequest(http.MethodPost, "/rooms/5/packages", strings.NewReader(`{"name":"Qua đêm","hours":10,"price":500,"status":0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	packageRouter(pkgs).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, pkgs.req)
	assert.Equal(t, int64(5), pkgs.roomID)
	assert.Equal(t, "Qua đêm", pkgs.req.Name)
	require.NotNil(t, pkgs.req.Status)
	assert.Equal(t, 0, *pkgs.req.Status)
}

func TestPackageController_CreateMalformedBody(t *testing.T) {
	pkgs := &fakePackages{}
	req := httptest.NewRequest(http.MethodPost, "/rooms/5/packages", strings.NewReader(`{"hours":"ba"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	packageRouter(pkgs).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, pkgs.req)
}

func TestPackageController_UpdateNotFound(t *testing.T) {
	pkgs := &fakePackages{updateErr: apperrors.NewAppError(apperrors.ErrCodeNotFound, "Không tìm thấy dữ liệu", apperrors.ErrPackageNotFound)}
	req := httptest.NewRequest(http.MethodPut, "/packages/9", strings.NewReader(`{"name":"4 giờ","hours":4}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	packageRouter(pkgs).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(9), pkgs.id)
}

func TestPackageController_Delete(t *testing.T) {
	pkgs := &fakePackages{}
	r := packageRouter(pkgs)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/packages/4", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{4}, pkgs.deleted)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/packages/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, pkgs.deleted, 1)
}
