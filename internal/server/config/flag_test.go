package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8081", "-g", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "15", "-r", "redis:6379",
			},
			expected: &Config{
				HTTPAddr:    "127.0.0.1:8081",
				GRPCAddr:    "127.0.0.1:9090",
				DatabaseDSN: "db",
				SecretKey:   "secret",
				TokenTTL:    15 * time.Minute,
				RedisAddr:   "redis:6379",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "conf.json", "-x", "1", "-s", "k"},
			expected: &Config{
				SecretKey: "k",
			},
		},
		{
			name:        "non-numeric ttl panics",
			args:        []string{"-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
