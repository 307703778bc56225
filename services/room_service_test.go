package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"
	"roomadmin/session"
	"roomadmin/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoomService(data DataGateway, images ImageGateway, ledger OrphanLedger) *RoomService {
	opts := RoomServiceOptions{Data: data, Images: images, Bucket: "rooms"}
	if ledger != nil {
		opts.Ledger = ledger
	}
	return NewRoomService(opts)
}

func fileInput(name string) dto.ImageInput {
	return dto.NewImage(&dto.ImageFile{Name: name, ContentType: "image/png", Data: pngHeader})
}

func TestCreateRoom_NoImages_OneInsertNoStorage(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	room, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{Name: "Phòng 101", Price: 80})
	require.NoError(t, err)

	assert.Equal(t, []string{"insert:rooms"}, rec.all())
	assert.Equal(t, int64(1), room.ID)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
	assert.Empty(t, room.Images)
}

func TestCreateRoom_UploadsBeforeInsertInInputOrder(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	_, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:  "Phòng 102",
		Price: 120,
		Images: []dto.ImageInput{
			fileInput("a.png"),
			dto.ImageURL("https://cdn.test/rooms/existing.png"),
			fileInput("b.png"),
		},
	})
	require.NoError(t, err)

	insertAt := rec.index("insert:rooms")
	require.GreaterOrEqual(t, insertAt, 0)
	assert.Less(t, rec.index("upload:a.png"), insertAt)
	assert.Less(t, rec.index("upload:b.png"), insertAt)
	assert.Equal(t, 2, rec.count("upload:"))

	inserts := data.callsOf("insert")
	require.Len(t, inserts, 1)
	record := inserts[0].body.(roomRecord)
	require.Len(t, record.Images, 3)
	assert.Contains(t, record.Images[0], "a.png")
	assert.Equal(t, "https://cdn.test/rooms/existing.png", record.Images[1])
	assert.Contains(t, record.Images[2], "b.png")
}

func TestCreateRoom_InsertFails_CompensatesEveryUpload(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	insertErr := apperrors.NewRemoteError(http.StatusConflict, "duplicate key value")
	data.insertErr["rooms"] = insertErr
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	room, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:   "Phòng 103",
		Images: []dto.ImageInput{fileInput("a.png"), fileInput("b.png"), fileInput("c.png")},
	})

	assert.Nil(t, room)
	assert.Same(t, insertErr, err)
	assert.Equal(t, 3, rec.count("upload:"))
	assert.Equal(t, 3, rec.count("delete-image:"))
	assert.Len(t, images.deletedURLs(), 3)
}

func TestCreateRoom_CompensationFailureIsLedgeredNotReturned(t *testing.T) {
	data := newFakeData(nil)
	insertErr := errors.New("insert failed")
	data.insertErr["rooms"] = insertErr
	images := &fakeImages{failURLs: map[string]bool{"https://cdn.test/rooms/new-1-a.png": true}}
	ledger := &fakeLedger{}
	svc := newTestRoomService(data, images, ledger)

	_, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:   "Phòng 104",
		Images: []dto.ImageInput{fileInput("a.png"), fileInput("b.png")},
	})

	assert.Same(t, insertErr, err)
	assert.Equal(t, []string{"https://cdn.test/rooms/new-2-b.png"}, images.deletedURLs())
	assert.Equal(t, []string{OrphanReasonCreateFailed + ":https://cdn.test/rooms/new-1-a.png"}, ledger.entries)
}

func TestCreateRoom_UploadFails_NoInsert(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	uploadErr := apperrors.NewAppError(apperrors.ErrCodeTransport, "Không thể kết nối tới server", nil)
	images := &fakeImages{rec: rec, uploadErr: uploadErr}
	svc := newTestRoomService(data, images, nil)

	_, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:   "Phòng 105",
		Images: []dto.ImageInput{fileInput("a.png")},
	})

	assert.Same(t, uploadErr, err)
	assert.Equal(t, 0, rec.count("insert:"))
}

func TestCreateRoom_ValidationBeforeAnyCall(t *testing.T) {
	rec := &recorder{}
	svc := newTestRoomService(newFakeData(rec), &fakeImages{rec: rec}, nil)

	_, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Images: []dto.ImageInput{fileInput("a.png")},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRequiredField))

	bad := models.RoomStatus(7)
	_, err = svc.CreateRoom(context.Background(), dto.CreateRoomParams{Name: "x", Status: &bad})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateRoom(context.Background(), dto.CreateRoomParams{Name: "x", Images: []dto.ImageInput{{}}})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidFile))

	assert.Empty(t, rec.all())
}

func TestCreateRoom_WithPackages(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	notifier := &fakeNotifier{}
	svc := NewRoomService(RoomServiceOptions{Data: data, Images: &fakeImages{}, Notifier: notifier})
	disabled := constants.PackageStatusDisabled

	room, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:  "Phòng 106",
		Price: 90,
		Packages: []dto.PackageRequest{
			{Name: "3 giờ", Hours: 3, Price: 240},
			{Name: "Qua đêm", Hours: 10, Price: 500, Status: &disabled},
		},
	})
	require.NoError(t, err)
	assert.Len(t, room.Packages, 2)
	assert.Equal(t, []string{"insert:rooms", "insert:room_packages", "insert:room_packages"}, rec.all())

	inserts := data.callsOf("insert")
	pkgRecord := inserts[1].body.(packageRecord)
	assert.Equal(t, int64(1), pkgRecord.RoomID)
	// gói không truyền status được bật như khi tạo riêng
	assert.Equal(t, constants.PackageStatusEnabled, pkgRecord.Status)
	assert.Equal(t, constants.PackageStatusDisabled, inserts[2].body.(packageRecord).Status)
	assert.Equal(t, []string{EventRoomCreated}, notifier.events)
}

func TestCreateRoom_PackageFailureReturnsRoomAndError(t *testing.T) {
	data := newFakeData(nil)
	pkgErr := errors.New("package insert failed")
	data.insertErr["room_packages"] = pkgErr
	svc := newTestRoomService(data, &fakeImages{}, nil)

	room, err := svc.CreateRoom(context.Background(), dto.CreateRoomParams{
		Name:     "Phòng 107",
		Packages: []dto.PackageRequest{{Name: "3 giờ", Hours: 3, Price: 240}},
	})
	require.NotNil(t, room)
	assert.Equal(t, int64(1), room.ID)
	assert.Same(t, pkgErr, err)
}

// Tạo phòng VIP-1 với hai file ảnh qua ImageService thật
func TestCreateRoom_VIP1Scenario(t *testing.T) {
	store := &fakeObjectStore{}
	imageSvc := NewImageService(ImageServiceOptions{Store: store, DefaultBucket: "rooms"})

	params := dto.CreateRoomParams{
		Name:   "VIP-1",
		Price:  100,
		Images: []dto.ImageInput{fileInput("front.png"), fileInput("bed.png")},
	}

	data := newFakeData(nil)
	svc := newTestRoomService(data, imageSvc, nil)
	room, err := svc.CreateRoom(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "VIP-1", room.Name)
	assert.Equal(t, float64(100), room.Price)
	require.Len(t, room.Images, 2)
	for _, u := range room.Images {
		assert.True(t, strings.HasPrefix(u, "https://cdn.test/storage/v1/object/public/rooms/"), u)
	}

	// insert thất bại: cả hai ảnh bị xóa và lỗi insert gốc được trả về
	store = &fakeObjectStore{}
	imageSvc = NewImageService(ImageServiceOptions{Store: store, DefaultBucket: "rooms"})
	data = newFakeData(nil)
	insertErr := apperrors.NewRemoteError(http.StatusInternalServerError, "insert failed")
	data.insertErr["rooms"] = insertErr
	svc = newTestRoomService(data, imageSvc, nil)

	_, err = svc.CreateRoom(context.Background(), params)
	assert.Same(t, insertErr, err)
	require.Len(t, store.uploads, 2)
	assert.ElementsMatch(t, store.uploads, store.removed)
}

func existingRoom(images ...string) []models.Room {
	return []models.Room{{ID: 5, Name: "Phòng 5", Status: models.RoomStatusAvailable, Images: images}}
}

func TestUpdateRoom_ReplacesImagesInOrder(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png")
	data.update["rooms"] = existingRoom("https://cdn.test/rooms/b.png", "https://cdn.test/rooms/new-1-c.png")
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	name := "Phòng 5 mới"
	updated, err := svc.UpdateRoom(context.Background(), 5, dto.UpdateRoomParams{
		Name:   &name,
		Images: []dto.ImageInput{dto.ImageURL("https://cdn.test/rooms/b.png"), fileInput("c.png")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, []string{
		"upload:c.png",
		"select:rooms",
		"delete-image:https://cdn.test/rooms/a.png",
		"update:rooms",
	}, rec.all())

	patch := data.callsOf("update")[0].body.(map[string]interface{})
	assert.Equal(t, name, patch["name"])
	assert.Equal(t, []string{"https://cdn.test/rooms/b.png", "https://cdn.test/rooms/new-1-c.png"}, patch["images"])
	assert.Equal(t, "eq.5", data.callsOf("update")[0].query.Get("id"))
}

func TestUpdateRoom_NilImagesLeavesImagesAlone(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png")
	data.update["rooms"] = existingRoom("https://cdn.test/rooms/a.png")
	svc := newTestRoomService(data, &fakeImages{rec: rec}, nil)

	price := 150.0
	_, err := svc.UpdateRoom(context.Background(), 5, dto.UpdateRoomParams{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, []string{"select:rooms", "update:rooms"}, rec.all())
	patch := data.callsOf("update")[0].body.(map[string]interface{})
	assert.NotContains(t, patch, "images")
	assert.Equal(t, 150.0, patch["price"])
}

func TestUpdateRoom_EmptyImagesClearsAll(t *testing.T) {
	data := newFakeData(nil)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png")
	data.update["rooms"] = existingRoom()
	images := &fakeImages{}
	svc := newTestRoomService(data, images, nil)

	_, err := svc.UpdateRoom(context.Background(), 5, dto.UpdateRoomParams{Images: []dto.ImageInput{}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png"}, images.deletedURLs())
	patch := data.callsOf("update")[0].body.(map[string]interface{})
	assert.Equal(t, []string{}, patch["images"])
}

func TestUpdateRoom_UpdateFails_CompensatesNewUploads(t *testing.T) {
	data := newFakeData(nil)
	data.rows["rooms"] = existingRoom()
	updateErr := errors.New("update failed")
	data.updateErr = updateErr
	images := &fakeImages{}
	svc := newTestRoomService(data, images, nil)

	_, err := svc.UpdateRoom(context.Background(), 5, dto.UpdateRoomParams{Images: []dto.ImageInput{fileInput("c.png")}})
	assert.Same(t, updateErr, err)
	assert.Equal(t, []string{"https://cdn.test/rooms/new-1-c.png"}, images.deletedURLs())
}

func TestUpdateRoom_NotFound_CompensatesNewUploads(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	_, err := svc.UpdateRoom(context.Background(), 99, dto.UpdateRoomParams{Images: []dto.ImageInput{fileInput("c.png")}})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.Equal(t, 0, rec.count("update:"))
	assert.Equal(t, []string{"https://cdn.test/rooms/new-1-c.png"}, images.deletedURLs())
}

func TestUpdateRoom_EmptyPatchReturnsExisting(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png")
	svc := newTestRoomService(data, &fakeImages{rec: rec}, nil)

	room, err := svc.UpdateRoom(context.Background(), 5, dto.UpdateRoomParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), room.ID)
	assert.Equal(t, []string{"select:rooms"}, rec.all())
}

func TestDeleteRoom_ReadsFirstAndDeletesEveryImage(t *testing.T) {
	rec := &recorder{}
	data := newFakeData(rec)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png")
	images := &fakeImages{rec: rec}
	svc := newTestRoomService(data, images, nil)

	require.NoError(t, svc.DeleteRoom(context.Background(), 5))

	events := rec.all()
	require.NotEmpty(t, events)
	assert.Equal(t, "select:rooms", events[0])
	assert.Less(t, rec.index("select:rooms"), rec.index("delete:rooms"))
	assert.Equal(t, 2, rec.count("delete-image:"))
}

func TestDeleteRoom_RecordDeleteFails_StillDeletesImages(t *testing.T) {
	data := newFakeData(nil)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png")
	deleteErr := apperrors.NewRemoteError(http.StatusConflict, "violates foreign key constraint")
	data.deleteErr = deleteErr
	images := &fakeImages{}
	svc := newTestRoomService(data, images, nil)

	err := svc.DeleteRoom(context.Background(), 5)
	assert.Same(t, deleteErr, err)
	assert.Len(t, images.deletedURLs(), 2)
}

func TestDeleteRoom_ImageFailureDoesNotFailDelete(t *testing.T) {
	data := newFakeData(nil)
	data.rows["rooms"] = existingRoom("https://cdn.test/rooms/a.png", "https://cdn.test/rooms/b.png")
	images := &fakeImages{failURLs: map[string]bool{"https://cdn.test/rooms/a.png": true}}
	ledger := &fakeLedger{}
	svc := newTestRoomService(data, images, ledger)

	require.NoError(t, svc.DeleteRoom(context.Background(), 5))
	assert.Equal(t, []string{"https://cdn.test/rooms/b.png"}, images.deletedURLs())
	assert.Equal(t, []string{OrphanReasonRoomDeleted + ":https://cdn.test/rooms/a.png"}, ledger.entries)
}

func TestListRooms_BuildsQuery(t *testing.T) {
	data := newFakeData(nil)
	data.rows["rooms"] = existingRoom()
	data.total = 11
	svc := newTestRoomService(data, &fakeImages{}, nil)

	status := 1
	minPrice := 50.0
	page, err := svc.ListRooms(context.Background(), dto.RoomFilter{
		Status:       &status,
		Name:         " vip ",
		MinPrice:     &minPrice,
		Tags:         []string{"view"},
		WithPackages: true,
		Page:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Items, 1)

	q := data.callsOf("select")[0].query
	assert.Equal(t, "*,room_packages(*)", q.Get("select"))
	assert.Equal(t, "eq.1", q.Get("status"))
	assert.Equal(t, "ilike.*vip*", q.Get("name"))
	assert.Equal(t, "gte.50", q.Get("price"))
	assert.Equal(t, "cs.{view}", q.Get("tags"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "10", q.Get("offset"))
}

func TestUpdateRoomStatus(t *testing.T) {
	data := newFakeData(nil)
	data.update["rooms"] = existingRoom()
	svc := newTestRoomService(data, &fakeImages{}, nil)

	_, err := svc.UpdateRoomStatus(context.Background(), 5, 4)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidStatus))
	assert.Empty(t, data.callsOf("update"))

	_, err = svc.UpdateRoomStatus(context.Background(), 5, int(models.RoomStatusMaintenance))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"status": 3}, data.callsOf("update")[0].body)
}

// 401 từ data API trong RoomService xóa session đúng một lần và về trang đăng nhập
func TestRoomService_UnauthorizedClearsSession(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	}))
	defer srv.Close()

	var navigations []string
	var cleared int
	store := session.NewStore(session.StoreOptions{
		Navigator: session.NavigatorFunc(func(path string) { navigations = append(navigations, path) }),
	})
	store.Subscribe(func(ev session.Event) {
		if ev.Type == session.EventExpired {
			cleared++
		}
	})
	ctx := session.WithIntendedRoute(context.Background(), "/rooms")
	require.NoError(t, store.Set(ctx, &types.Session{Token: "expired-jwt"}))

	gw := NewRestGateway(RemoteOptions{BaseURL: srv.URL, AnonKey: "anon", Session: store})
	svc := newTestRoomService(gw, &fakeImages{}, nil)

	_, err := svc.ListRooms(ctx, dto.RoomFilter{})
	assert.True(t, apperrors.IsUnauthorized(err))
	_, err = svc.GetRoom(ctx, 1)
	assert.True(t, apperrors.IsUnauthorized(err))

	assert.Equal(t, 1, cleared)
	assert.False(t, store.IsAuthenticated())
	require.NotEmpty(t, navigations)
	assert.Equal(t, "/login?redirect=%2Frooms", navigations[0])
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
