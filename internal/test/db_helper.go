package test

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	_ "github.com/lib/pq"
)

// SetupTestDB 连接集成测试数据库并执行迁移，数据库不可用时跳过测试
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("跳过集成测试")
	}

	dsn := os.Getenv("BATTLE_TEST_DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("TEST_DB_HOST", "localhost"),
			getEnv("TEST_DB_PORT", "5432"),
			getEnv("TEST_DB_USER", "postgres"),
			getEnv("TEST_DB_PASSWORD", "postgres"),
			getEnv("TEST_DB_NAME", "battle_of_monsters_test"),
		)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Skipf("无法连接测试数据库: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("无法ping测试数据库: %v", err)
	}

	ApplyMigrations(t, db)
	TruncateTables(t, db, "battles", "monsters")

	t.Cleanup(func() { db.Close() })
	return db
}

// ApplyMigrations 按文件名顺序执行 migrations 目录下的 *.up.sql（脚本均为幂等）
func ApplyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(migrationsDir(), "*.up.sql"))
	if err != nil || len(files) == 0 {
		t.Fatalf("未找到迁移脚本: %v", err)
	}
	sort.Strings(files)

	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("读取迁移脚本失败 %s: %v", f, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			t.Fatalf("执行迁移脚本失败 %s: %v", filepath.Base(f), err)
		}
	}
}

// TruncateTables 清空表数据
func TruncateTables(t *testing.T, db *sql.DB, tables ...string) {
	t.Helper()

	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("清空表失败 %v: %v", tables, err)
	}
}

// BeginTestTransaction 开启测试事务
func BeginTestTransaction(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("开启测试事务失败: %v", err)
	}
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("回滚测试事务失败: %v", err)
		}
	})
	return tx
}

// migrationsDir 以本文件位置定位仓库根目录下的 migrations
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
