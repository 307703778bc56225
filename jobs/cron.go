package jobs

import (
	"context"
	"errors"
	"time"

	"roomadmin/constants"
	apperrors "roomadmin/errors"
	"roomadmin/models"
	"roomadmin/services"
	"roomadmin/services/logger"
	"roomadmin/utils"

	"github.com/robfig/cron/v3"
)

// OrphanStore là ledger ảnh mồ côi
type OrphanStore interface {
	Pending(ctx context.Context, limit int) ([]models.OrphanImage, error)
	MarkResolved(ctx context.Context, id uint, at time.Time) error
	MarkAttempt(ctx context.Context, id uint) error
}

// ImageStore là phần của ImageService mà job cần
type ImageStore interface {
	DeleteImage(ctx context.Context, url, bucket string) error
	ListImages(ctx context.Context, bucket string) ([]services.StoredObject, error)
}

// SessionState cho biết job đang đọc dữ liệu bằng session đã đăng nhập
type SessionState interface {
	IsAuthenticated() bool
}

// ErrNoReferences: bucket có blob nhưng không đọc được ảnh nào từ rooms,
// thường do đọc bằng anon key bị row-level security lọc hết
var ErrNoReferences = errors.New("rooms không trả về ảnh nào trong khi bucket còn blob, hủy quét")

// Reaper dọn ảnh không còn room nào tham chiếu
type Reaper struct {
	ledger  OrphanStore
	images  ImageStore
	data    services.DataGateway
	session SessionState
	bucket  string
	sweep   bool
	grace   time.Duration
	logger  logger.Logger
	now     func() time.Time
}

type ReaperOptions struct {
	// Ledger nil thì bỏ qua bước thử xóa lại
	Ledger OrphanStore
	Images ImageStore
	Data   services.DataGateway
	// Session nil hoặc chưa đăng nhập thì không quét bucket
	Session SessionState
	Bucket  string
	// Sweep bật quét toàn bucket, xóa blob không được tham chiếu và cũ hơn Grace
	Sweep  bool
	Grace  time.Duration
	Logger logger.Logger
	Now    func() time.Time
}

const ledgerBatch = 100

func NewReaper(opts ReaperOptions) *Reaper {
	if opts.Bucket == "" {
		opts.Bucket = constants.DefaultBucket
	}
	if opts.Grace <= 0 {
		opts.Grace = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reaper{
		ledger:  opts.Ledger,
		images:  opts.Images,
		data:    opts.Data,
		session: opts.Session,
		bucket:  opts.Bucket,
		sweep:   opts.Sweep,
		grace:   opts.Grace,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

// Run chạy một lượt: thử xóa lại ledger rồi quét bucket nếu được bật
func (r *Reaper) Run(ctx context.Context) error {
	if _, err := r.RetryLedger(ctx); err != nil {
		return err
	}
	if !r.sweep {
		return nil
	}
	_, err := r.Sweep(ctx)
	return err
}

// RetryLedger thử xóa lại các ảnh trong ledger, trả số ảnh đã xử lý
func (r *Reaper) RetryLedger(ctx context.Context) (int, error) {
	if r.ledger == nil {
		return 0, nil
	}
	items, err := r.ledger.Pending(ctx, ledgerBatch)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, item := range items {
		if err := r.images.DeleteImage(ctx, item.URL, item.Bucket); err != nil && !apperrors.Is(err, apperrors.ErrCodeNotFound) {
			r.logger.Warn("Thử xóa lại ảnh %s thất bại: %v", item.URL, err)
			if err := r.ledger.MarkAttempt(ctx, item.ID); err != nil {
				return resolved, err
			}
			continue
		}
		if err := r.ledger.MarkResolved(ctx, item.ID, r.now()); err != nil {
			return resolved, err
		}
		resolved++
	}
	if len(items) > 0 {
		r.logger.Info("Đã dọn %d/%d ảnh mồ côi trong ledger", resolved, len(items))
	}
	return resolved, nil
}

// Sweep xóa blob trong bucket không còn room nào tham chiếu, trả số blob đã xóa
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	if r.session == nil || !r.session.IsAuthenticated() {
		r.logger.Warn("Chưa đăng nhập, bỏ qua quét bucket %s", r.bucket)
		return 0, nil
	}

	objects, err := r.images.ListImages(ctx, r.bucket)
	if errors.Is(err, apperrors.ErrListUnsupported) {
		r.logger.Info("Storage driver không hỗ trợ liệt kê, bỏ qua quét bucket")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	referenced, err := r.referencedKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(referenced) == 0 && len(objects) > 0 {
		r.logger.Error("Bucket %s có %d blob nhưng rooms không tham chiếu ảnh nào, hủy quét", r.bucket, len(objects))
		return 0, ErrNoReferences
	}

	cutoff := r.now().Add(-r.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		// ảnh mới upload có thể đang chờ insert room
		if obj.CreatedAt.After(cutoff) {
			continue
		}
		if err := r.images.DeleteImage(ctx, obj.URL, r.bucket); err != nil {
			r.logger.Warn("Xóa blob %s thất bại: %v", obj.Key, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		r.logger.Info("Đã xóa %d blob không được tham chiếu trong bucket %s", removed, r.bucket)
	}
	return removed, nil
}

func (r *Reaper) referencedKeys(ctx context.Context) (map[string]struct{}, error) {
	const pageSize = 500
	keys := make(map[string]struct{})
	for page := 0; ; page++ {
		var rows []models.Room
		q := services.NewQuery().Select("id,images").Order("id", true).Page(page, pageSize)
		if _, err := r.data.Select(ctx, constants.TableRooms, q, &rows); err != nil {
			return nil, err
		}
		for _, room := range rows {
			for _, url := range room.Images {
				if key, err := utils.KeyFromURL(url); err == nil {
					keys[key] = struct{}{}
				}
			}
		}
		if len(rows) < pageSize {
			return keys, nil
		}
	}
}

// InitCronJobs đăng ký job dọn ảnh theo lịch cron và start cron
func InitCronJobs(c *cron.Cron, spec string, reaper *Reaper, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		log.Info("Đang chạy dọn ảnh mồ côi lúc: %v", time.Now())
		if err := reaper.Run(ctx); err != nil {
			log.Error("Lỗi khi dọn ảnh mồ côi: %v", err)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}
