package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, int64(32), cfg.HTTP.MaxUploadMB)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "X-Remote-User", cfg.Auth.UserHeader)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "UTC", cfg.Display.Timezone)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: /from/file.db
http:
  addr: ":9000"
  max_upload_mb: 8
log:
  level: debug
`), 0o644))

	t.Setenv("TASKBOARD_HTTP_ADDR", ":7000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/from/flag.db"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "/from/flag.db", cfg.DB.Path, "flag beats file")
	assert.Equal(t, ":7000", cfg.HTTP.Addr, "env beats file")
	assert.Equal(t, int64(8), cfg.HTTP.MaxUploadMB)
	assert.Equal(t, "debug", cfg.Log.Level, "unset flag does not override file")

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"timezone":  "display:\n  timezone: Mars/Olympus\n",
		"level":     "log:\n  level: loud\n",
		"format":    "log:\n  format: xml\n",
		"upload":    "http:\n  max_upload_mb: 0\n",
		"date":      "display:\n  date_format: \"  \"\n",
		"malformed": "http: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	cfg.HTTP.Addr = "127.0.0.1:9999"
	cfg.Display.DateFormat = "02.01.2006"
	require.NoError(t, Save(path, cfg))

	again, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", again.HTTP.Addr)
	assert.Equal(t, "02.01.2006", again.Display.DateFormat)
	assert.Equal(t, cfg.DB.Path, again.DB.Path)
}
