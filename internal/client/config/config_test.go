package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "ok", args: []string{"-a", "127.0.0.1:9090", "-t", "10"},
			expected: &Config{ServerEndpointAddr: "127.0.0.1:9090", RequestTimeout: 10 * time.Second}},
		{name: "foreign flags ignored", args: []string{"-x", "1", "-a", "h:1"},
			expected: &Config{ServerEndpointAddr: "h:1", RequestTimeout: 0}},
		{name: "incorrect timeout", args: []string{"-a", "127.0.0.1:9090", "-t", "abc"}, expectPanic: true},
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

func TestLoad_JsonThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr":"json:1","request_timeout":"7s"}`), 0o600))

	cfg := load([]string{"-c", path})
	assert.Equal(t, &Config{ServerEndpointAddr: "json:1", RequestTimeout: 7 * time.Second}, cfg)

	cfg = load([]string{"-config", path, "-a", "flag:2"})
	assert.Equal(t, "flag:2", cfg.ServerEndpointAddr)
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	assert.Panics(t, func() { parseJson(&Config{}, []string{"-c", path}) })
	assert.Panics(t, func() { parseJson(&Config{}, []string{"-c", path + ".missing"}) })
}

func TestLoad_SubSecondTimeoutFromJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_timeout":"1500ms"}`), 0o600))

	cfg := load([]string{"-c", path})
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}
