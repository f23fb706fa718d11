// Package sqlite keeps the CLI session token in a local sqlite file that
// only the current user can read.
package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/session"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	dirMode  = 0o700
	fileMode = 0o600

	singletonID = 1
)

type sessionTokenModel struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sessionTokenModel) TableName() string { return "session_tokens" }

type TokenStore struct {
	db *gorm.DB
}

// Open creates the parent directory and the database file with owner-only
// permissions, then applies migrations.
func Open(ctx context.Context, path string) (*TokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create session file: %w", err)
	}
	f.Close()
	if err := os.Chmod(path, fileMode); err != nil {
		return nil, fmt.Errorf("failed to restrict session file: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}
	return &TokenStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	return goose.UpContext(ctx, sqlDB, "migrations")
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	var m sessionTokenModel
	err := s.db.WithContext(ctx).First(&m, singletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	return m.Token, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	m := sessionTokenModel{ID: singletonID, Token: token}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&sessionTokenModel{}, singletonID).Error; err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

func (s *TokenStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ session.TokenStore = (*TokenStore)(nil)
