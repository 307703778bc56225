package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level định nghĩa các mức độ log
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel đổi chuỗi LOG_LEVEL sang Level, mặc định info
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger interface định nghĩa các phương thức logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Options cấu hình logger
type Options struct {
	Level Level
	// Format là "json" hoặc "console"
	Format string
	// Dir khác rỗng thì ghi thêm vào Dir/app-YYYY-MM-DD.log
	Dir string
}

// ZapLogger implement Logger bằng zap
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// New tạo ZapLogger theo Options
func New(opts Options) (*ZapLogger, error) {
	var cfg zap.Config
	if opts.Format == "json" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level.zapLevel())
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file := filepath.Join(opts.Dir, fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02")))
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: base.Sugar()}, nil
}

// NewDefaultLogger tạo logger console, không ghi file
func NewDefaultLogger(level Level) Logger {
	l, err := New(Options{Level: level, Format: "console"})
	if err != nil {
		return Nop()
	}
	return l
}

// Nop trả về logger bỏ qua mọi log
func Nop() Logger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

// Info log thông tin
func (l *ZapLogger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warn log cảnh báo
func (l *ZapLogger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error log lỗi
func (l *ZapLogger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Debug log debug
func (l *ZapLogger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Sync flush buffer của zap
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
