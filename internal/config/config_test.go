package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		BackendBaseURL: "http://backend.local",
		Staff: []StaffAccount{
			{Username: "alice", Role: "admin", PasswordHash: "$2a$10$hash"},
		},
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "Should accept a complete config",
			mutate: func(c *Config) {},
		},
		{
			name:    "Should require the backend base url",
			mutate:  func(c *Config) { c.BackendBaseURL = "" },
			wantErr: ErrBackendBaseURLRequired,
		},
		{
			name:    "Should require at least one staff account",
			mutate:  func(c *Config) { c.Staff = nil },
			wantErr: ErrNoStaffConfigured,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("Should reject a staff account without a password hash", func(t *testing.T) {
		cfg := valid
		cfg.Staff = []StaffAccount{{Username: "alice"}}
		require.Error(t, cfg.Validate())
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("Should override defaults from environment", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("SESSION_TTL", "45m")
		t.Setenv("ADMIN_USERNAME", "alice")
		t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")

		cfg := loadEnv(defaultConfig(), &Log{})

		require.Equal(t, "9000", cfg.Port)
		require.Equal(t, 45*time.Minute, cfg.SessionTTL)
		require.Len(t, cfg.Staff, 1)
		require.Equal(t, "admin", cfg.Staff[0].Role)
	})

	t.Run("Should keep the default for an invalid duration", func(t *testing.T) {
		t.Setenv("BACKEND_TIMEOUT", "soon")

		cfgLog := &Log{}
		cfg := loadEnv(defaultConfig(), cfgLog)

		require.Equal(t, 10*time.Second, cfg.BackendTimeout)
		require.NotEmpty(t, cfgLog.entries)
	})
}

func TestLoadYamlFile(t *testing.T) {
	t.Run("Should layer yaml over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
port: "3000"
backend_base_url: http://backend.local
staff:
  - username: alice
    role: admin
    password_hash: $2a$10$hash
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg := loadYamlFile(defaultConfig(), path, &Log{})

		require.Equal(t, "3000", cfg.Port)
		require.Equal(t, "http://backend.local", cfg.BackendBaseURL)
		require.Len(t, cfg.Staff, 1)
		require.Equal(t, "localhost", cfg.Host)
	})

	t.Run("Should keep defaults when the file is missing", func(t *testing.T) {
		cfgLog := &Log{}
		cfg := loadYamlFile(defaultConfig(), "/does/not/exist.yaml", cfgLog)

		require.Equal(t, defaultConfig(), cfg)
		require.NotEmpty(t, cfgLog.entries)
	})
}
