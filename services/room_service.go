package services

import (
	"context"
	"strconv"
	"strings"

	"roomadmin/builders"
	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"
	"roomadmin/services/logger"
	"roomadmin/validator"

	"golang.org/x/sync/errgroup"
)

// ImageGateway là phần của ImageService mà RoomService cần
type ImageGateway interface {
	UploadImages(ctx context.Context, files []*dto.ImageFile, bucket string) ([]string, error)
	DeleteImage(ctx context.Context, url, bucket string) error
}

// RoomCache là cache đọc room, nil thì bỏ qua
type RoomCache interface {
	GetRoom(ctx context.Context, id int64) (*models.Room, bool, error)
	SetRoom(ctx context.Context, room *models.Room) error
	GetList(ctx context.Context, filter dto.RoomFilter) (*dto.Page[models.Room], bool, error)
	SetList(ctx context.Context, filter dto.RoomFilter, page *dto.Page[models.Room]) error
	Invalidate(ctx context.Context, id int64) error
}

// Notifier phát sự kiện thay đổi cho dashboard
type Notifier interface {
	Publish(event string, payload interface{}) error
}

// OrphanLedger ghi nhận ảnh không xóa được để job dọn sau
type OrphanLedger interface {
	Record(ctx context.Context, bucket, url, reason string) error
}

// Sự kiện thay đổi room
const (
	EventRoomCreated = "room.created"
	EventRoomUpdated = "room.updated"
	EventRoomDeleted = "room.deleted"
)

// Lý do ghi ledger
const (
	OrphanReasonCreateFailed = "create_failed"
	OrphanReasonUpdateFailed = "update_failed"
	OrphanReasonReplaced     = "replaced"
	OrphanReasonRoomDeleted  = "room_deleted"
)

type RoomService struct {
	data     DataGateway
	images   ImageGateway
	packages *PackageService
	bucket   string
	cache    RoomCache
	notifier Notifier
	ledger   OrphanLedger
	logger   logger.Logger
}

type RoomServiceOptions struct {
	Data     DataGateway
	Images   ImageGateway
	Packages *PackageService
	Bucket   string
	Cache    RoomCache
	Notifier Notifier
	Ledger   OrphanLedger
	Logger   logger.Logger
}

func NewRoomService(opts RoomServiceOptions) *RoomService {
	if opts.Bucket == "" {
		opts.Bucket = constants.DefaultBucket
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Packages == nil {
		opts.Packages = NewPackageService(opts.Data, opts.Logger)
	}
	return &RoomService{
		data:     opts.Data,
		images:   opts.Images,
		packages: opts.Packages,
		bucket:   opts.Bucket,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		ledger:   opts.Ledger,
		logger:   opts.Logger,
	}
}

// roomRecord là các cột được ghi lên bảng rooms
type roomRecord struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Area        string            `json:"area"`
	Status      models.RoomStatus `json:"status"`
	Price       float64           `json:"price"`
	Images      []string          `json:"images"`
	Tags        []string          `json:"tags"`
}

// CreateRoom upload ảnh trước, sau đó insert room. Insert lỗi thì xóa mọi ảnh
// vừa upload và trả lỗi insert gốc. Gói giờ kèm theo được tạo sau room; lỗi
// tạo gói trả về cùng room đã tạo.
func (s *RoomService) CreateRoom(ctx context.Context, params dto.CreateRoomParams) (*models.Room, error) {
	if err := validator.ValidateCreateRoom(&params); err != nil {
		return nil, err
	}

	images, uploaded, err := s.resolveImages(ctx, params.Images)
	if err != nil {
		return nil, err
	}

	room := builders.NewRoomBuilder().
		WithName(params.Name).
		WithDescription(params.Description).
		WithArea(params.Area).
		WithPrice(params.Price).
		WithStatus(params.Status).
		WithTags(params.Tags).
		WithImages(images).
		Build()

	var rows []models.Room
	if err := s.data.Insert(ctx, constants.TableRooms, toRecord(room), &rows); err != nil {
		s.logger.Error("Tạo phòng %s thất bại: %v", params.Name, err)
		s.compensate(ctx, uploaded, OrphanReasonCreateFailed)
		return nil, err
	}
	created, err := firstOrNotFound(rows, apperrors.ErrRoomNotFound)
	if err != nil {
		s.compensate(ctx, uploaded, OrphanReasonCreateFailed)
		return nil, err
	}

	var pkgErr error
	for _, p := range params.Packages {
		pkg, err := s.packages.CreatePackage(ctx, created.ID, p)
		if err != nil {
			pkgErr = err
			s.logger.Error("Tạo gói %s cho phòng %d thất bại: %v", p.Name, created.ID, err)
			break
		}
		created.Packages = append(created.Packages, *pkg)
	}

	s.invalidate(ctx, created.ID)
	s.notify(EventRoomCreated, created)
	return created, pkgErr
}

// UpdateRoom cập nhật một phần. Images nil thì giữ nguyên ảnh hiện tại; nếu có
// thì ảnh mới được upload trước, ảnh cũ không còn dùng bị xóa rồi mới gửi update.
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, params dto.UpdateRoomParams) (*models.Room, error) {
	if err := validator.ValidateUpdateRoom(&params); err != nil {
		return nil, err
	}

	var (
		images   []string
		uploaded []string
		err      error
	)
	if params.Images != nil {
		images, uploaded, err = s.resolveImages(ctx, params.Images)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.fetchRoom(ctx, id)
	if err != nil {
		s.compensate(ctx, uploaded, OrphanReasonUpdateFailed)
		return nil, err
	}

	if params.Images != nil {
		s.removeImages(ctx, unreferenced(existing.Images, images), OrphanReasonReplaced)
	}

	patch := updatePatch(params, images)
	if len(patch) == 0 {
		return existing, nil
	}

	var rows []models.Room
	if err := s.data.Update(ctx, constants.TableRooms, NewQuery().Eq("id", id), patch, &rows); err != nil {
		s.logger.Error("Cập nhật phòng %d thất bại: %v", id, err)
		s.compensate(ctx, uploaded, OrphanReasonUpdateFailed)
		return nil, err
	}
	updated, err := firstOrNotFound(rows, apperrors.ErrRoomNotFound)
	if err != nil {
		s.compensate(ctx, uploaded, OrphanReasonUpdateFailed)
		return nil, err
	}

	s.invalidate(ctx, id)
	s.notify(EventRoomUpdated, updated)
	return updated, nil
}

// DeleteRoom đọc room, xóa bản ghi, sau đó xóa từng ảnh bất kể bản ghi có xóa
// được hay không. Lỗi trả về là lỗi xóa bản ghi.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	room, err := s.fetchRoom(ctx, id)
	if err != nil {
		return err
	}

	delErr := s.data.Delete(ctx, constants.TableRooms, NewQuery().Eq("id", id))
	if delErr != nil {
		s.logger.Error("Xóa phòng %d thất bại: %v", id, delErr)
	}

	s.removeImages(ctx, room.Images, OrphanReasonRoomDeleted)

	if delErr != nil {
		return delErr
	}
	s.invalidate(ctx, id)
	s.notify(EventRoomDeleted, map[string]int64{"id": id})
	return nil
}

// GetRoom đọc room theo id, ưu tiên cache
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	if s.cache != nil {
		room, ok, err := s.cache.GetRoom(ctx, id)
		if err != nil {
			s.logger.Warn("Lỗi đọc cache phòng %d: %v", id, err)
		} else if ok {
			return room, nil
		}
	}

	room, err := s.fetchRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetRoom(ctx, room); err != nil {
			s.logger.Warn("Lỗi ghi cache phòng %d: %v", id, err)
		}
	}
	return room, nil
}

// ListRooms lọc và phân trang danh sách room
func (s *RoomService) ListRooms(ctx context.Context, filter dto.RoomFilter) (*dto.Page[models.Room], error) {
	filter.Page, filter.Limit = dto.Normalize(filter.Page, filter.Limit)

	if s.cache != nil {
		page, ok, err := s.cache.GetList(ctx, filter)
		if err != nil {
			s.logger.Warn("Lỗi đọc cache danh sách phòng: %v", err)
		} else if ok {
			return page, nil
		}
	}

	var rows []models.Room
	total, err := s.data.Select(ctx, constants.TableRooms, roomQuery(filter), &rows)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Room{}
	}
	page := &dto.Page[models.Room]{Items: rows, Page: filter.Page, Limit: filter.Limit, Total: total}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, filter, page); err != nil {
			s.logger.Warn("Lỗi ghi cache danh sách phòng: %v", err)
		}
	}
	return page, nil
}

// UpdateRoomStatus chỉ cập nhật trường status
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id int64, status int) (*models.Room, error) {
	if err := validator.ValidateRoomStatus(status); err != nil {
		return nil, err
	}

	var rows []models.Room
	body := map[string]interface{}{"status": status}
	if err := s.data.Update(ctx, constants.TableRooms, NewQuery().Eq("id", id), body, &rows); err != nil {
		return nil, err
	}
	updated, err := firstOrNotFound(rows, apperrors.ErrRoomNotFound)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.notify(EventRoomUpdated, updated)
	return updated, nil
}

func roomQuery(filter dto.RoomFilter) *Query {
	columns := "*"
	if filter.WithPackages {
		columns = "*,room_packages(*)"
	}
	q := NewQuery().Select(columns).Order("created_at", false).Page(filter.Page, filter.Limit).Count()
	if filter.Status != nil {
		q.Eq("status", *filter.Status)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		q.ILike("name", name)
	}
	if area := strings.TrimSpace(filter.Area); area != "" {
		q.Eq("area", area)
	}
	if filter.MinPrice != nil {
		q.Gte("price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Lte("price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if len(filter.Tags) > 0 {
		q.Contains("tags", filter.Tags)
	}
	return q
}

func (s *RoomService) fetchRoom(ctx context.Context, id int64) (*models.Room, error) {
	var rows []models.Room
	if _, err := s.data.Select(ctx, constants.TableRooms, NewQuery().Eq("id", id), &rows); err != nil {
		return nil, err
	}
	return firstOrNotFound(rows, apperrors.ErrRoomNotFound)
}

// resolveImages upload các file mới và trả danh sách URL theo đúng thứ tự
// input, cùng danh sách URL vừa upload
func (s *RoomService) resolveImages(ctx context.Context, inputs []dto.ImageInput) ([]string, []string, error) {
	urls := make([]string, len(inputs))
	var (
		files []*dto.ImageFile
		slots []int
	)
	for i, in := range inputs {
		if in.File != nil {
			files = append(files, in.File)
			slots = append(slots, i)
			continue
		}
		urls[i] = in.URL
	}
	if len(files) == 0 {
		return urls, nil, nil
	}

	uploaded, err := s.images.UploadImages(ctx, files, s.bucket)
	if err != nil {
		return nil, nil, err
	}
	for j, slot := range slots {
		urls[slot] = uploaded[j]
	}
	return urls, uploaded, nil
}

// compensate xóa ảnh vừa upload khi bước sau thất bại
func (s *RoomService) compensate(ctx context.Context, urls []string, reason string) {
	if len(urls) == 0 {
		return
	}
	s.logger.Warn("Hoàn tác %d ảnh đã upload (%s)", len(urls), reason)
	s.removeImages(ctx, urls, reason)
}

// removeImages xóa độc lập từng ảnh; lỗi chỉ được log và ghi ledger
func (s *RoomService) removeImages(ctx context.Context, urls []string, reason string) {
	if len(urls) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	for _, url := range urls {
		url := url
		g.Go(func() error {
			if err := s.images.DeleteImage(ctx, url, s.bucket); err != nil {
				s.logger.Error("Xóa ảnh %s thất bại: %v", url, err)
				s.recordOrphan(ctx, url, reason)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *RoomService) recordOrphan(ctx context.Context, url, reason string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, s.bucket, url, reason); err != nil {
		s.logger.Error("Không ghi được ảnh mồ côi %s: %v", url, err)
	}
}

func (s *RoomService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("Lỗi xóa cache phòng %d: %v", id, err)
	}
}

func (s *RoomService) notify(event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(event, payload); err != nil {
		s.logger.Warn("Lỗi gửi sự kiện %s: %v", event, err)
	}
}

func toRecord(r *models.Room) roomRecord {
	return roomRecord{
		Name:        r.Name,
		Description: r.Description,
		Area:        r.Area,
		Status:      r.Status,
		Price:       r.Price,
		Images:      r.Images,
		Tags:        r.Tags,
	}
}

func updatePatch(params dto.UpdateRoomParams, images []string) map[string]interface{} {
	patch := map[string]interface{}{}
	if params.Name != nil {
		patch["name"] = *params.Name
	}
	if params.Description != nil {
		patch["description"] = *params.Description
	}
	if params.Area != nil {
		patch["area"] = *params.Area
	}
	if params.Price != nil {
		patch["price"] = *params.Price
	}
	if params.Status != nil {
		patch["status"] = *params.Status
	}
	if params.Tags != nil {
		patch["tags"] = params.Tags
	}
	if params.Images != nil {
		patch["images"] = images
	}
	return patch
}

// unreferenced trả các URL cũ không còn nằm trong danh sách mới
func unreferenced(old, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, u := range next {
		keep[u] = struct{}{}
	}
	var stale []string
	for _, u := range old {
		if _, ok := keep[u]; !ok {
			stale = append(stale, u)
		}
	}
	return stale
}
