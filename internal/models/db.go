package models

import (
	"fmt"
	"time"

	"github.com/fergdesign/backend/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig is shared by the production connection and test databases so
// both see the same error translation and clock.
func GormConfig(production bool) *gorm.Config {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
	if production {
		cfg.Logger = logger.Default.LogMode(logger.Error)
	}
	return cfg
}

// InitDB initializes the database connection pool
func InitDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormConfig := GormConfig(cfg.IsProduction())
	gormConfig.PrepareStmt = true

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	log.Info("database connection established",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Duration("conn_max_idle_time", cfg.DBConnMaxIdleTime))
	return db, nil
}

// InitRedis returns nil when no Redis address is configured.
func InitRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, list cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	log.Info("redis client configured", zap.String("addr", cfg.RedisAddr))
	return client
}

// Migrate runs database migrations. Parents are listed before the tables
// that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PhotoWork{},
		&PhotoAsset{},
		&VideoCategory{},
		&Video{},
	)
}
