package commands

import (
	"context"
	"fmt"

	"roomadmin/config"
	"roomadmin/services"
	"roomadmin/services/logger"
	"roomadmin/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// app giữ các thành phần đã khởi tạo từ Config
type app struct {
	cfg    *config.Config
	log    *logger.ZapLogger
	store  *session.Store
	rdb    *redis.Client
	db     *gorm.DB
	ledger *services.GormOrphanLedger

	data     *services.RestGateway
	images   *services.ImageService
	rooms    *services.RoomService
	packages *services.PackageService
	orders   *services.OrderService
	auth     *services.AuthService
}

type appOptions struct {
	// WithCache bật Redis cache cho room (dashboard)
	WithCache bool
	// WithLedger mở database orphan ledger nếu được cấu hình
	WithLedger bool
	Navigator  session.Navigator
	Notifier   services.Notifier
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	log, err := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}

	needRedis := cfg.Session.Backend == "redis" || (opts.WithCache && cfg.Redis.CacheEnabled)
	if needRedis {
		rdb, err := config.ConnectRedis(ctx, cfg.Redis)
		switch {
		case err == nil:
			a.rdb = rdb
		case cfg.Session.Backend == "redis":
			return nil, fmt.Errorf("connect redis: %w", err)
		default:
			log.Warn("Không kết nối được Redis, chạy không có cache: %v", err)
		}
	}

	var persister session.Persister = session.NewFilePersister(cfg.Session.File)
	if cfg.Session.Backend == "redis" {
		persister = session.NewRedisPersister(a.rdb, cfg.Session.KeyPrefix)
	}
	a.store = session.NewStore(session.StoreOptions{
		Persister: persister,
		Navigator: opts.Navigator,
		Logger:    log,
	})
	if err := a.store.Restore(ctx); err != nil {
		log.Warn("Không khôi phục được session đã lưu: %v", err)
	}

	remote := services.RemoteOptions{
		BaseURL: cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
		Timeout: cfg.RequestTimeout,
		Session: a.store,
	}

	var store services.ObjectStore = services.NewSupabaseStorage(remote)
	if cfg.Storage.Driver == "cloudinary" {
		cld, err := config.ConnectCloudinary(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}
		store = services.NewCloudinaryStorage(cld)
	}

	if opts.WithLedger && cfg.Ledger.Enabled {
		db, err := config.ConnectDB(cfg.Ledger)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.ledger = services.NewGormOrphanLedger(db)
		if err := a.ledger.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate orphan ledger: %w", err)
		}
	}

	a.data = services.NewRestGateway(remote)
	a.images = services.NewImageService(services.ImageServiceOptions{
		Store:          store,
		DefaultBucket:  cfg.Storage.Bucket,
		AllowedBuckets: cfg.Storage.AllowedBuckets,
		Logger:         log,
	})
	a.packages = services.NewPackageService(a.data, log)

	roomOpts := services.RoomServiceOptions{
		Data:     a.data,
		Images:   a.images,
		Packages: a.packages,
		Bucket:   cfg.Storage.Bucket,
		Notifier: opts.Notifier,
		Logger:   log,
	}
	if a.rdb != nil && opts.WithCache && cfg.Redis.CacheEnabled {
		roomOpts.Cache = services.NewRedisRoomCache(a.rdb, 0)
	}
	if a.ledger != nil {
		roomOpts.Ledger = a.ledger
	}
	a.rooms = services.NewRoomService(roomOpts)

	a.orders = services.NewOrderService(services.OrderServiceOptions{
		Data:     a.data,
		Rooms:    a.rooms,
		Packages: a.packages,
		Notifier: opts.Notifier,
		Logger:   log,
	})
	a.auth = services.NewAuthService(services.AuthServiceOptions{
		Gateway: services.NewAuthGateway(remote),
		Store:   a.store,
		Logger:  log,
	})
	return a, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.log.Sync()
}
