package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wedledger/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_SKIP", "true")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, 7*24*time.Hour, cfg.InviteTTL)
	require.Equal(t, "USD", cfg.Rates.BaseCurrency)
	require.Equal(t, "memory", cfg.Rates.Cache)
	require.Equal(t, "log", cfg.SMS.Provider)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_SKIP", "false")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(logger.Nop())
	require.Error(t, err)
}

func TestLoadRejectsUnknownRatesCache(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_SKIP", "true")
	t.Setenv("RATES_CACHE", "memcached")

	_, err := Load(logger.Nop())
	require.Error(t, err)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	contents := "HTTP_PORT=9090\nPUBLIC_BASE_URL=\"https://wedledger.example/\"\n# comment\nSESSION_SECRET=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(contents), 0o600))

	chdir(t, nested)
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	os.Unsetenv("PUBLIC_BASE_URL")
	t.Cleanup(func() {
		os.Unsetenv("SESSION_SECRET")
		os.Unsetenv("PUBLIC_BASE_URL")
	})

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.HTTPPort)
	require.Equal(t, "https://wedledger.example", cfg.PublicBaseURL)
	require.Equal(t, "from-file", cfg.Auth.SessionSecret)
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	require.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://x"
	require.Equal(t, "postgres://x", cfg.GetDSN())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
