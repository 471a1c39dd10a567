package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = strings.Repeat("s", 32)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_SECRET", secret)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 5, cfg.LoginBurst)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "API_BASE_URL=http://localhost:3000\nSESSION_SECRET=" + secret + "\nSERVER_PORT=9090\nAPI_TIMEOUT=3s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// godotenv never overrides variables that are already set, so make
	// sure the test environment does not carry them.
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("API_TIMEOUT", "")
	for _, k := range []string{"API_BASE_URL", "SESSION_SECRET", "SERVER_PORT", "API_TIMEOUT"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		secret  string
		wantErr string
	}{
		{"missing url", "", secret, "API_BASE_URL is not set"},
		{"bad scheme", "ftp://x", secret, "not an http(s) URL"},
		{"missing secret", "http://localhost", "", "SESSION_SECRET is not set"},
		{"short secret", "http://localhost", "short", "at least 32 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("API_BASE_URL", tt.url)
			t.Setenv("SESSION_SECRET", tt.secret)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:3000")
	t.Setenv("CLINICCTL_SESSION_FILE", "/tmp/s.json")

	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.json", cfg.SessionFile)
	assert.Equal(t, "warn", cfg.LogLevel)

	t.Setenv("API_BASE_URL", "")
	_, err = LoadClient(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
