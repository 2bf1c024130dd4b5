package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"port": 8080, "jwt_secret": "s", "database": {"dbname": "/tmp/notes.db"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, 60, cfg.AccessTTLMinutes)
	require.Equal(t, 168, cfg.RefreshTTLHours)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, 1024, cfg.UserCache.Size)
	require.False(t, cfg.StrictColors)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STICKYNOTE_PORT", "9090")
	t.Setenv("STICKYNOTE_JWT_SECRET", "from-env")
	t.Setenv("STICKYNOTE_DB_DRIVER", "postgres")
	t.Setenv("STICKYNOTE_DB_DSN", "postgres://u:p@localhost/notes")
	path := writeConfig(t, `{"port": 8080, "jwt_secret": "s", "database": {"dbname": "x"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "from-env", cfg.JWTSecret)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, "postgres://u:p@localhost/notes", cfg.Database.DSN)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing secret", body: `{"port": 1, "database": {"dbname": "x"}}`},
		{name: "missing port", body: `{"jwt_secret": "s", "database": {"dbname": "x"}}`},
		{name: "sqlite without path", body: `{"port": 1, "jwt_secret": "s"}`},
		{name: "postgres without host", body: `{"port": 1, "jwt_secret": "s", "database": {"driver": "postgres", "dbname": "x"}}`},
		{name: "unknown driver", body: `{"port": 1, "jwt_secret": "s", "database": {"driver": "oracle", "dsn": "x"}}`},
		{name: "bad json", body: `{"port":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}
