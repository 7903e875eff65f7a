package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"apptrack/internal/common"
	"apptrack/internal/entity"
)

// Open connects to the configured database and runs migrations. A DSN
// with a postgres scheme goes through pgxpool so pool sizing and
// lifetimes apply; anything else is treated as a SQLite file path,
// which is the single-user default.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	if isPostgresDSN(cfg.DSN) {
		db, err = openPostgres(ctx, cfg, gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}
	if err != nil {
		return nil, common.NewAppError("DB_CONNECT", "failed to open database", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&entity.Application{}); err != nil {
		return nil, common.NewAppError("DB_MIGRATE", "failed to run migrations", err)
	}

	logger.Info("db.open", "postgres", isPostgresDSN(cfg.DSN))
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg common.DatabaseConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.DialTimeout
	if cfg.StatementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] =
			fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
}
