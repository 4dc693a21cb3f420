package database

import (
	"fmt"
	"testing"

	"item_bank_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: "silent",
	}
}

func TestInitDB_MigratesAndCloses(t *testing.T) {
	db, err := InitDB(memoryConfig(), true)
	require.NoError(t, err)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	Close(db)
	assert.Error(t, sqlDB.Ping())

	Close(nil)
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, rdb)

	// 端口 1 无服务监听
	rdb, err = InitRedis(&config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
