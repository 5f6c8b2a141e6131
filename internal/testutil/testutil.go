package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-gin-event-manager/config"
	"go-gin-event-manager/internal/database"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var (
	dbOnce sync.Once
	testDB *pgxpool.Pool
	dbErr  error
)

// Setup 連線測試用 Postgres（LoadTestConfig）並建立 schema
func Setup() (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	if err := database.Migrate(context.Background(), pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return pool, pool.Close, nil
}

// RequireDatabase 回傳共用的測試連線池；資料庫無法連線時 skip 測試
func RequireDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbOnce.Do(func() {
		testDB, _, dbErr = Setup()
	})
	if dbErr != nil {
		t.Skipf("postgres not available: %v", dbErr)
	}
	return testDB
}

// Truncate 清空所有測試資料，保留 schema
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE notifications, events CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupMiniRedis 啟動 in-process Redis，測試結束時自動關閉
func SetupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}
