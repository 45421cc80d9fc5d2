package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docsearch-backend/internal/config"
	"github.com/futig/docsearch-backend/internal/repository"
	"github.com/futig/docsearch-backend/internal/repository/memory"
	"github.com/futig/docsearch-backend/internal/repository/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// stores bundles the repositories of the configured driver and the hook
// releasing them.
type stores struct {
	chunks repository.ChunkRepository
	files  repository.FileRepository
	grades repository.GradeRepository
	close  func()
}

// setupStore opens the document store selected by STORE_DRIVER.
func setupStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		return &stores{
			chunks: repository.NewChunkPostgres(db),
			files:  repository.NewFilePostgres(db),
			grades: repository.NewGradePostgres(db),
			close: func() {
				logger.Info("Closing database connections")
				db.Close()
			},
		}, nil

	case config.StoreDriverSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.SQLitePath))

		return &stores{
			chunks: store,
			files:  store,
			grades: store,
			close: func() {
				if err := store.Close(); err != nil {
					logger.Error("sqlite close error", zap.Error(err))
				}
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			chunks: store,
			files:  store,
			grades: store,
			close:  func() {},
		}, nil
	}

	return nil, errors.New("unknown store driver: " + cfg.StoreDriver)
}

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		zap.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
		zap.Duration("health_check_period", poolConfig.HealthCheckPeriod),
	)

	return pool, nil
}
