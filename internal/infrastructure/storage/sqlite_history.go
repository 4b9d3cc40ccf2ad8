package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/entity"
	"github.com/yourusername/deepseek-assistant-bot/internal/domain/repository"
)

type sqliteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository SQLite asosidagi tarix repository
func NewSQLiteHistoryRepository(dbPath string) (repository.HistoryRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}
	// sqlite bitta yozuvchini qo'llaydi
	db.SetMaxOpenConns(1)

	if err := createHistorySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteHistoryRepository{db: db}, nil
}

func createHistorySchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS history (
	scope INTEGER PRIMARY KEY,
	content TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

// Append tarixga matn qo'shish
func (s *sqliteHistoryRepository) Append(ctx context.Context, scope int64, text string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO history (scope, content, updated_at) VALUES (?, ?, ?)
ON CONFLICT(scope) DO UPDATE SET
	content = CASE WHEN history.content = '' THEN excluded.content ELSE history.content || ? || excluded.content END,
	updated_at = excluded.updated_at`,
		scope, text, time.Now(), entity.HistorySeparator)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("append history: %w", err)
	}

	var content string
	if err := tx.QueryRowContext(ctx, `SELECT content FROM history WHERE scope = ?`, scope).Scan(&content); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("read history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return content, nil
}

// Read tarixni o'qish
func (s *sqliteHistoryRepository) Read(ctx context.Context, scope int64) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM history WHERE scope = ?`, scope).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// Close bazani yopish
func (s *sqliteHistoryRepository) Close() error {
	return s.db.Close()
}
