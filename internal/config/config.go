// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	Network            string        `mapstructure:"network"`
	RPCList            []string      `mapstructure:"rpc_list"`
	ProgramID          string        `mapstructure:"program_id"`
	WalletsFile        string        `mapstructure:"wallets_file"`
	KeypairPath        string        `mapstructure:"keypair_path"`
	PoolLimit          int           `mapstructure:"pool_limit"`
	PoolRefresh        time.Duration `mapstructure:"pool_refresh"`
	PositionRefresh    time.Duration `mapstructure:"position_refresh"`
	PoolCacheTTL       time.Duration `mapstructure:"pool_cache_ttl"`
	ChartChangePercent int           `mapstructure:"chart_change_percent"`
	Retries            int           `mapstructure:"retries"`
	DebugLogging       bool          `mapstructure:"debug_logging"`
	LogDir             string        `mapstructure:"log_dir"`
	RedisURL           string        `mapstructure:"redis_url"`
	HTTPAddr           string        `mapstructure:"http_addr"`
	TokenListURL       string        `mapstructure:"token_list_url"`
}

const (
	NetworkDevnet  = "devnet"
	NetworkMainnet = "mainnet"

	DefaultDevnetRPC  = "https://api.devnet.solana.com"
	DefaultMainnetRPC = "https://api.mainnet-beta.solana.com"

	// DefaultProgramID is the Saros liquidity book (DLMM) program.
	DefaultProgramID = "1qbkdrr3z4ryLA7pZykqxvxWPoeifcVKo6ZG9CfkvVE"

	DefaultWalletsFile        = "configs/wallets.yaml"
	DefaultPoolLimit          = 20
	DefaultPoolRefresh        = 30 * time.Second
	DefaultPositionRefresh    = 10 * time.Second
	DefaultPoolCacheTTL       = 10 * time.Second
	DefaultChartChangePercent = 50
	DefaultRetries            = 3
	DefaultLogDir             = "logs"
	DefaultHTTPAddr           = ":8080"

	// MaxChartChangePercent keeps the dashboard chart to a few thousand samples.
	MaxChartChangePercent = 10_000

	envPrefix = "DLMM"
)

// Default returns a configuration populated with defaults only.
func Default() *Config {
	return &Config{
		Network:            NetworkDevnet,
		RPCList:            []string{DefaultDevnetRPC},
		ProgramID:          DefaultProgramID,
		WalletsFile:        DefaultWalletsFile,
		PoolLimit:          DefaultPoolLimit,
		PoolRefresh:        DefaultPoolRefresh,
		PositionRefresh:    DefaultPositionRefresh,
		PoolCacheTTL:       DefaultPoolCacheTTL,
		ChartChangePercent: DefaultChartChangePercent,
		Retries:            DefaultRetries,
		LogDir:             DefaultLogDir,
		HTTPAddr:           DefaultHTTPAddr,
	}
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"network":              NetworkDevnet,
		"program_id":           DefaultProgramID,
		"wallets_file":         DefaultWalletsFile,
		"pool_limit":           DefaultPoolLimit,
		"pool_refresh":         DefaultPoolRefresh,
		"position_refresh":     DefaultPositionRefresh,
		"pool_cache_ttl":       DefaultPoolCacheTTL,
		"chart_change_percent": DefaultChartChangePercent,
		"retries":              DefaultRetries,
		"log_dir":              DefaultLogDir,
		"http_addr":            DefaultHTTPAddr,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)
	applyNetworkDefaults(&cfg)

	return &cfg, Validate(&cfg)
}

// Validate checks a loaded configuration.
func Validate(cfg *Config) error {
	if cfg.Network != NetworkDevnet && cfg.Network != NetworkMainnet {
		return fmt.Errorf("unknown network %q", cfg.Network)
	}
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}
	if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}
	if cfg.TokenListURL != "" {
		if err := validateURLWithCache(cfg.TokenListURL, "http"); err != nil {
			return fmt.Errorf("invalid token_list_url: %w", err)
		}
	}
	if cfg.RedisURL != "" {
		if err := validateURLWithCache(cfg.RedisURL, "redis"); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.PoolLimit <= 0 {
		return errors.New("invalid pool_limit")
	}
	if cfg.PoolRefresh <= 0 {
		return errors.New("invalid pool_refresh")
	}
	if cfg.PositionRefresh <= 0 {
		return errors.New("invalid position_refresh")
	}
	if cfg.PoolCacheTTL < 0 {
		return errors.New("invalid pool_cache_ttl")
	}
	if cfg.ChartChangePercent <= -90 || cfg.ChartChangePercent > MaxChartChangePercent {
		return fmt.Errorf("chart_change_percent must be above -90 and at most %d", MaxChartChangePercent)
	}
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func applyNetworkDefaults(cfg *Config) {
	if len(cfg.RPCList) > 0 {
		return
	}
	if cfg.Network == NetworkMainnet {
		cfg.RPCList = []string{DefaultMainnetRPC}
		return
	}
	cfg.RPCList = []string{DefaultDevnetRPC}
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envWallets := v.GetString("WALLETS_FILE"); envWallets != "" {
		cfg.WalletsFile = envWallets
	}

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
}

// PrimaryRPC returns the first configured RPC endpoint.
func (c *Config) PrimaryRPC() string {
	return c.RPCList[0]
}

// Program returns the DLMM program address.
func (c *Config) Program() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.ProgramID)
}
