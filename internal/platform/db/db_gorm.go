// Package db はデータベース接続の確立とマイグレーションを提供します。
//
// DB_TYPE により PostgreSQL と SQLite を切り替えます。方言差は gorm の Dialector が吸収するため、
// リポジトリ側はどちらの方言でも同じコードで動作します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgresql"
	DialectSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Enabled        bool
	Type           string
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	SQLitePath     string
	RunMigrations  bool
	ConnectTimeout time.Duration
}

// IsSQLite は SQLite 方言かどうかを返します。
func (c Config) IsSQLite() bool {
	return c.Type == DialectSQLite
}

// BuildDSN は方言に応じた接続文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.IsSQLite() {
		path := cfg.SQLitePath
		if path == "" {
			path = "finfo.db"
		}
		return path + "?_foreign_keys=on"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslmode)
}

// Opener は DSN から接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// NewOpener は方言に応じた Opener を返します。
func NewOpener(cfg Config) (Opener, error) {
	gcfg := &gorm.Config{TranslateError: true}
	switch cfg.Type {
	case DialectSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	case DialectPostgres, "postgres":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (want %s or %s)", cfg.Type, DialectPostgres, DialectSQLite)
	}
}

// ConnectWithRetry は timeout まで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open は接続を確立し、RunMigrations が有効な場合は models をマイグレーションします。
func Open(cfg Config, models ...any) (*gorm.DB, error) {
	opener, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.IsSQLite() {
		// SQLite は単一ライターのため接続を1本に絞る
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	slog.Info("DB connection established", "dialect", cfg.Type, "migrated", cfg.RunMigrations)
	return db, nil
}
