package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"item_bank_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configTemplate = "database:\n  driver: sqlite\nanalysis:\n  min_responses: %d\n"

func writeConfig(t *testing.T, dir string, minResponses int) {
	t.Helper()
	content := fmt.Sprintf(configTemplate, minResponses)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, dir, 50*time.Millisecond, func(cfg *config.Config) {
			reloaded <- cfg
		})
	}()

	// 等待 watcher 注册完成
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, 25)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 25, cfg.Analysis.MinResponses)
		assert.Equal(t, 0.27, cfg.Analysis.GroupFraction)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfig_IgnoresInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	go WatchConfig(ctx, dir, 50*time.Millisecond, func(cfg *config.Config) {
		reloaded <- cfg
	})

	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, 0)

	select {
	case <-reloaded:
		t.Fatal("invalid config must not be applied")
	case <-time.After(500 * time.Millisecond):
	}
}
