package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"roomadmin/constants"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
)

// Config là cấu hình của dashboard và CLI
type Config struct {
	Env  string
	Port string

	SupabaseURL     string
	SupabaseAnonKey string
	RequestTimeout  time.Duration

	Storage    StorageConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
	Session    SessionConfig
	Ledger     LedgerConfig
	Orphan     OrphanConfig
	Log        LogConfig
}

type StorageConfig struct {
	// Driver là "supabase" hoặc "cloudinary"
	Driver string
	Bucket string
	// AllowedBuckets là bucket phụ client được gửi lên, ngăn cách bởi dấu phẩy
	AllowedBuckets []string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int

	// CacheEnabled bật cache danh sách phòng cho dashboard
	CacheEnabled bool
}

type SessionConfig struct {
	// Backend là "file" hoặc "redis"
	Backend   string
	File      string
	KeyPrefix string
}

type LedgerConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type OrphanConfig struct {
	ReaperSpec   string
	SweepEnabled bool
	SweepGrace   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Dir    string
}

// LoadEnv nạp biến môi trường từ các file .env (nếu có)
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Load đọc cấu hình từ biến môi trường, áp giá trị mặc định
func Load() (*Config, error) {
	cfg := &Config{
		Env:             getEnvDefault("ENV", "dev"),
		Port:            getEnvDefault("PORT", "8083"),
		SupabaseURL:     strings.TrimRight(getEnvDefault("SUPABASE_URL", "http://localhost:54321"), "/"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnvDefault("STORAGE_DRIVER", "supabase")),
			Bucket:         getEnvDefault("STORAGE_BUCKET", constants.DefaultBucket),
			AllowedBuckets: getEnvList("STORAGE_ALLOWED_BUCKETS"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Username: os.Getenv("REDIS_USER"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),

			CacheEnabled: getEnvBool("ROOM_CACHE_ENABLED", true),
		},
		Session: SessionConfig{
			Backend:   strings.ToLower(getEnvDefault("SESSION_BACKEND", "file")),
			File:      getEnvDefault("SESSION_FILE", ".roomadmin/storage.json"),
			KeyPrefix: getEnvDefault("SESSION_KEY_PREFIX", "roomadmin:session:"),
		},
		Ledger: LedgerConfig{
			Enabled:  getEnvBool("LEDGER_ENABLED", false),
			Host:     getEnvDefault("LEDGER_DB_HOST", "localhost"),
			Port:     getEnvDefault("LEDGER_DB_PORT", "5432"),
			User:     getEnvDefault("LEDGER_DB_USER", "postgres"),
			Password: os.Getenv("LEDGER_DB_PASSWORD"),
			Name:     getEnvDefault("LEDGER_DB_NAME", "roomadmin"),
			SSLMode:  getEnvDefault("LEDGER_DB_SSLMODE", "disable"),
		},
		Orphan: OrphanConfig{
			ReaperSpec:   getEnvDefault("ORPHAN_REAPER_SPEC", "*/30 * * * *"),
			SweepEnabled: getEnvBool("ORPHAN_SWEEP_ENABLED", false),
			SweepGrace:   getEnvDuration("ORPHAN_SWEEP_GRACE", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnvDefault("LOG_LEVEL", "info"),
			Format: getEnvDefault("LOG_FORMAT", "console"),
			Dir:    os.Getenv("LOG_DIR"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case "dev", "qc", "prod":
	default:
		return fmt.Errorf("unknown environment: %s", c.Env)
	}
	switch c.Storage.Driver {
	case "supabase":
	case "cloudinary":
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return fmt.Errorf("STORAGE_DRIVER=cloudinary requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	switch c.Session.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown session backend: %s", c.Session.Backend)
	}
	if c.Env == "prod" && c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required in prod")
	}
	return nil
}

// ConnectCloudinary khởi tạo client Cloudinary từ cấu hình
func ConnectCloudinary(cfg CloudinaryConfig) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi khởi tạo Cloudinary: %w", err)
	}
	return cld, nil
}
