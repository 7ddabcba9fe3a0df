// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validConfigYAML = `
network: mainnet
rpc_list:
  - https://api.mainnet-beta.solana.com
  - https://rpc.example.org
wallets_file: wallets.yaml
pool_limit: 10
pool_refresh: 45s
position_refresh: 5s
chart_change_percent: 120
debug_logging: true
`

var invalidConfigYAML = `
network: testnet
pool_limit: 0
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "Valid config",
			file:    "config.yaml",
			content: validConfigYAML,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, NetworkMainnet, cfg.Network)
				assert.Len(t, cfg.RPCList, 2)
				assert.Equal(t, 10, cfg.PoolLimit)
				assert.Equal(t, 45*time.Second, cfg.PoolRefresh)
				assert.Equal(t, 5*time.Second, cfg.PositionRefresh)
				assert.Equal(t, 120, cfg.ChartChangePercent)
				assert.True(t, cfg.DebugLogging)
				assert.Equal(t, DefaultProgramID, cfg.ProgramID)
				assert.Equal(t, DefaultPoolCacheTTL, cfg.PoolCacheTTL)
			},
		},
		{
			name:    "Defaults fill missing keys",
			file:    "config.json",
			content: `{"network": "devnet"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{DefaultDevnetRPC}, cfg.RPCList)
				assert.Equal(t, DefaultPoolLimit, cfg.PoolLimit)
				assert.Equal(t, DefaultChartChangePercent, cfg.ChartChangePercent)
				assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
			},
		},
		{
			name:    "Mainnet without rpc_list uses public endpoint",
			file:    "config.yaml",
			content: "network: mainnet\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultMainnetRPC, cfg.PrimaryRPC())
			},
		},
		{
			name:    "Invalid config",
			file:    "config.yaml",
			content: invalidConfigYAML,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DLMM_RPC_LIST", " https://a.example.org , ,https://b.example.org")
	t.Setenv("DLMM_WALLETS_FILE", "/tmp/other.yaml")

	cfg, err := LoadConfig(writeConfig(t, "config.yaml", validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.RPCList)
	assert.Equal(t, "/tmp/other.yaml", cfg.WalletsFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.RPCList = []string{"ftp://x"} }},
		{"empty rpc list", func(c *Config) { c.RPCList = nil }},
		{"bad program id", func(c *Config) { c.ProgramID = "not-a-key" }},
		{"chart domain", func(c *Config) { c.ChartChangePercent = -90 }},
		{"chart too wide", func(c *Config) { c.ChartChangePercent = MaxChartChangePercent + 1 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
		{"zero refresh", func(c *Config) { c.PositionRefresh = 0 }},
		{"bad redis url", func(c *Config) { c.RedisURL = "http://localhost:6379" }},
	}

	require.NoError(t, Validate(Default()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
