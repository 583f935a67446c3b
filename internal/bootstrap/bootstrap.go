// Package bootstrap 根据配置组装存储后端和事件发布者，供各个命令共用。
package bootstrap

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"filmorate/internal/config"
	"filmorate/internal/events"
	appKafka "filmorate/internal/kafka"
	"filmorate/internal/logger"
	"filmorate/internal/storage"
	"filmorate/internal/storage/memory"
)

// publishTimeout 是单个活动事件等待 Kafka 投递报告的时间。
const publishTimeout = 5 * time.Second

// Backend 是打开的存储后端。DB 只在 postgres 后端时非空。
type Backend struct {
	Tx storage.Transactor
	DB *gorm.DB
}

// Close 释放后端持有的连接。
func (b *Backend) Close() {
	if b.DB == nil {
		return
	}
	sqlDB, err := b.DB.DB()
	if err != nil {
		logger.Warn("failed to get sql.DB for closing", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}

// OpenBackend 按 STORAGE.BACKEND 打开内存或 postgres 存储。
// postgres 后端在 DATABASE.AUTO_MIGRATE 打开时同步表结构并写入目录数据。
func OpenBackend(cfg config.Config) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Info("using in-memory storage backend")
		return &Backend{Tx: memory.NewStore()}, nil

	case config.BackendPostgres:
		db, err := storage.InitDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := storage.AutoMigrateTables(db); err != nil {
				return nil, fmt.Errorf("migrate database: %w", err)
			}
			logger.Info("database schema migrated")
		}
		return &Backend{Tx: storage.NewGormTransactor(db), DB: db}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
	}
}

// NewPublisher 在 Kafka 打开时返回写入活动 topic 的发布者，否则返回丢弃事件的发布者。
// 返回的 closer 总是非空。
func NewPublisher(cfg config.KafkaConfig) (events.Publisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("kafka disabled, activity events are discarded")
		return events.NopPublisher{}, func() {}, nil
	}

	producer, err := appKafka.NewConfluentKafkaProducer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	logger.Info("kafka producer initialized", "brokers", cfg.Brokers, "topic", cfg.ActivityTopic)
	return events.NewKafkaPublisher(producer, cfg.ActivityTopic, publishTimeout), producer.Close, nil
}
