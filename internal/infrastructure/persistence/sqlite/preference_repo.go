// Package sqlite 提供本地文件上的阅读偏好存储
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"

	"z-novel-studio/internal/domain/repository"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlite")

const schema = `CREATE TABLE IF NOT EXISTS preferences (
	owner_id   TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// PreferenceRepository SQLite 偏好仓储
type PreferenceRepository struct {
	db *sql.DB
}

// Open 打开（必要时创建）数据库文件并建表
func Open(ctx context.Context, path string) (*PreferenceRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 单写者，避免 database is locked
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PreferenceRepository{db: db}, nil
}

// Close 关闭数据库
func (r *PreferenceRepository) Close() error {
	return r.db.Close()
}

// Get 读取原始记录
func (r *PreferenceRepository) Get(ctx context.Context, ownerID string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "sqlite.PreferenceRepository.Get")
	defer span.End()

	var record string
	err := r.db.QueryRowContext(ctx, "SELECT record FROM preferences WHERE owner_id = ?", ownerID).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return []byte(record), nil
}

// Put 整体覆盖记录
func (r *PreferenceRepository) Put(ctx context.Context, ownerID string, record []byte) error {
	ctx, span := tracer.Start(ctx, "sqlite.PreferenceRepository.Put")
	defer span.End()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (owner_id, record, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(owner_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		ownerID, string(record), time.Now().Unix(),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}
