package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/config"
)

// DSN builds the MySQL driver data source name for cfg
func DSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Pass
	mc.Net = "tcp"
	mc.Addr = cfg.Addr()
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Timeout = cfg.ConnectTimeout
	mc.AllowNativePasswords = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Open opens the connection pool and waits until the server answers a ping.
// Pings are retried PingRetries times, PingInterval apart.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, cfg, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "Database connection established",
		slog.String("addr", cfg.Addr()),
		slog.String("database", cfg.Name),
		slog.Int("max_open_conns", cfg.MaxOpenConns))

	return db, nil
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

func pingWithRetry(ctx context.Context, db Pinger, cfg config.DatabaseConfig, logger *slog.Logger) error {
	attempts := cfg.PingRetries + 1
	var lastErr error

	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}

		logger.WarnContext(ctx, "Database ping failed",
			slog.Int("attempt", i),
			slog.Int("max_attempts", attempts),
			slog.String("error", lastErr.Error()))

		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("database ping cancelled: %w", ctx.Err())
		case <-time.After(cfg.PingInterval):
		}
	}

	return fmt.Errorf("database unreachable after %d attempts: %w", attempts, lastErr)
}
