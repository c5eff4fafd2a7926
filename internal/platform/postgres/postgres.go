package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectOptions tunes how Connect waits for the database to come up.
type ConnectOptions struct {
	// MaxElapsed bounds the total time spent retrying. Zero means a single attempt.
	MaxElapsed  time.Duration
	PingTimeout time.Duration
	Logger      *slog.Logger
}

// Connect opens a PostgreSQL connection via GORM on the lib/pq driver and
// verifies connectivity, retrying with exponential backoff while the server is
// still starting.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}
	attempt := func() (*gorm.DB, error) {
		return open(ctx, dsn, opts.PingTimeout)
	}
	if opts.MaxElapsed <= 0 {
		return attempt()
	}
	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(opts.MaxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			if opts.Logger != nil {
				opts.Logger.Warn("postgres not reachable yet, retrying",
					slog.String("error", err.Error()),
					slog.Duration("retryIn", next),
				)
			}
		}),
	)
}

func open(ctx context.Context, dsn string, pingTimeout time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
