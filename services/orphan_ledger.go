package services

import (
	"context"
	"time"

	"roomadmin/models"

	"gorm.io/gorm"
)

// GormOrphanLedger lưu ảnh mồ côi vào postgres để job dọn thử xóa lại
type GormOrphanLedger struct {
	db *gorm.DB
}

func NewGormOrphanLedger(db *gorm.DB) *GormOrphanLedger {
	return &GormOrphanLedger{db: db}
}

// Migrate tạo bảng orphan_images nếu chưa có
func (l *GormOrphanLedger) Migrate() error {
	return l.db.AutoMigrate(&models.OrphanImage{})
}

func (l *GormOrphanLedger) Record(ctx context.Context, bucket, url, reason string) error {
	return l.db.WithContext(ctx).Create(&models.OrphanImage{
		Bucket: bucket,
		URL:    url,
		Reason: reason,
	}).Error
}

// Pending trả các ảnh chưa xử lý, cũ nhất trước
func (l *GormOrphanLedger) Pending(ctx context.Context, limit int) ([]models.OrphanImage, error) {
	var items []models.OrphanImage
	err := l.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (l *GormOrphanLedger) MarkResolved(ctx context.Context, id uint, at time.Time) error {
	return l.db.WithContext(ctx).
		Model(&models.OrphanImage{}).
		Where("id = ?", id).
		Update("resolved_at", at).Error
}

func (l *GormOrphanLedger) MarkAttempt(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).
		Model(&models.OrphanImage{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error
}
