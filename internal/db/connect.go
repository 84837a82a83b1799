package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pressly/goose/v3"
)

// Connect 打开主数据文件并运行迁移
func Connect(ctx context.Context, dataDir string) (*sql.DB, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("数据目录未设置")
	}
	dbPath := filepath.Join(dataDir, "forge.db")

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	goose.SetBaseFS(FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		slog.Error("设置方言失败", "error", err)
		return nil, fmt.Errorf("设置方言失败: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		slog.Error("应用迁移失败", "error", err)
		return nil, fmt.Errorf("应用迁移失败: %w", err)
	}

	return db, nil
}

// OpenFile 打开任意路径上的 SQLite 数据库文件，不做迁移
// 项目的沙盒数据库通过本函数打开
func OpenFile(dbPath string) (*sql.DB, error) {
	return openDB(dbPath)
}
