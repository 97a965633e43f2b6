// Package db はGORMによるデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// DriverPostgres は本番用のPostgreSQLドライバー名です。
	DriverPostgres = "postgres"
	// DriverSQLite は開発・テスト用のSQLiteドライバー名です。
	DriverSQLite = "sqlite"

	// pgUniqueViolation はPostgreSQLの一意制約違反コードです。
	pgUniqueViolation = "23505"
)

// retryInterval は接続リトライの間隔です。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver         string        `env:"DB_DRIVER" env-default:"postgres"`
	Host           string        `env:"DB_HOST" env-default:"localhost"`
	Port           string        `env:"DB_PORT" env-default:"5432"`
	User           string        `env:"DB_USER" env-default:"postgres"`
	Password       string        `env:"DB_PASSWORD"`
	Name           string        `env:"DB_NAME" env-default:"taskhub"`
	SSLMode        string        `env:"DB_SSLMODE" env-default:"disable"`
	Path           string        `env:"DB_PATH" env-default:"taskhub.db"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"60s"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" env-default:"true"`
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替え可能です。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// gormConfig は全ドライバー共通のGORM設定です。
// TranslateErrorにより一意制約違反がgorm.ErrDuplicatedKeyに変換されます。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// PostgresOpener はPostgreSQL用のOpenerです。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// SQLiteOpener はSQLite用のOpenerです。dsnはファイルパスまたは":memory:"です。
func SQLiteOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig())
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open は設定に応じたドライバーで接続し、必要ならマイグレーションを実行します。
func Open(cfg Config, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, PostgresOpener)
	case DriverSQLite:
		db, err = ConnectWithRetry(cfg.Path, cfg.ConnectTimeout, SQLiteOpener)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("db connection successful", "driver", cfg.Driver)

	if cfg.RunMigrations {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("db migration completed", "models", len(models))
	}
	return db, nil
}

// IsUniqueViolation は一意制約違反エラーかどうかを判定します。
// TranslateError経由のgorm.ErrDuplicatedKeyと、pgxの生エラーの両方に対応します。
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
