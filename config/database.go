package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// LedgerDSN tạo DSN cho database của orphan ledger
func LedgerDSN(cfg LedgerConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Shanghai",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// ConnectDB mở kết nối gorm tới database của ledger
func ConnectDB(cfg LedgerConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(LedgerDSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to ledger db: %w", err)
	}

	log.Println("Successfully connected to ledger db")
	return db, nil
}
