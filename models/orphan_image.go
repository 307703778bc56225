package models

import "time"

// OrphanImage ghi lại ảnh mà lần xóa bù trừ đã thất bại
type OrphanImage struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Bucket     string     `json:"bucket" gorm:"index;not null"`
	URL        string     `json:"url" gorm:"type:text;not null"`
	Reason     string     `json:"reason"`
	Attempts   int        `json:"attempts" gorm:"default:0"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	ResolvedAt *time.Time `json:"resolvedAt" gorm:"index"`
}

func (OrphanImage) TableName() string {
	return "orphan_images"
}
