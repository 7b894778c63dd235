package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("Loads values from the yaml file", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
port: "8080"
board-size: 4
storage: redis
redis:
  host: redis.internal
  port: "6380"
`)

		conf := MustLoad(path)

		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.Port)
		assert.Equal(t, 4, conf.BoardSize)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "redis.internal:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Falls back to defaults for missing keys", func(t *testing.T) {
		path := writeConfig(t, "log-level: info\n")

		conf := MustLoad(path)

		assert.Equal(t, "3000", conf.Port)
		assert.Equal(t, 3, conf.BoardSize)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "nope.yml"))
		})
	})
}
