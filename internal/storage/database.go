package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"filmorate/internal/config"
	"filmorate/internal/logger"
	"filmorate/internal/models"
)

// InitDB initializes the database connection using the provided configuration.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	logger.Info("connecting to database", zap.String("host", cfg.Host), zap.Int("port", cfg.Port), zap.String("db", cfg.DBName))

	// GORM 的日志通过 zap 的 std log 适配器输出
	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = time.Second
	}
	newLogger := gormlogger.New(
		logger.StdLogger(zapcore.InfoLevel),
		gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// AutoMigrateTables runs GORM's auto-migration feature for all defined models
// and seeds the genre and rating reference tables.
func AutoMigrateTables(db *gorm.DB) error {
	logger.Info("开始数据库表结构迁移...")
	err := db.AutoMigrate(
		&models.Genre{},
		&models.Mpa{},
		&models.Film{},
		&models.User{},
		&models.Like{},
		&models.Friendship{},
	)
	if err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	if err := SeedCatalog(db); err != nil {
		return err
	}
	logger.Info("数据库迁移完成。")
	return nil
}

// SeedCatalog 写入默认的类型和分级，已存在的行保持不变。
func SeedCatalog(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.DefaultGenres).Error; err != nil {
		return fmt.Errorf("seed genres: %w", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.DefaultMpaRatings).Error; err != nil {
		return fmt.Errorf("seed mpa ratings: %w", err)
	}
	return nil
}
