package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig TOML 配置文件的结构, 字段与命令行参数一一对应
type fileConfig struct {
	Port    int    `toml:"port"`
	Env     string `toml:"env"`
	Storage struct {
		Dir string `toml:"dir"`
	} `toml:"storage"`
	Limiter struct {
		RPS     float64 `toml:"rps"`
		Burst   int     `toml:"burst"`
		Enabled *bool   `toml:"enabled"`
	} `toml:"limiter"`
	CORS struct {
		TrustedOrigins []string `toml:"trusted_origins"`
	} `toml:"cors"`
}

// loadConfigFile 把配置文件中的值合并到 cfg, explicit 中记录的命令行参数不会被覆盖
func loadConfigFile(path string, cfg *config, explicit map[string]bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if fc.Port != 0 && !explicit["port"] {
		cfg.port = fc.Port
	}
	if fc.Env != "" && !explicit["env"] {
		cfg.env = fc.Env
	}
	if fc.Storage.Dir != "" && !explicit["storage-dir"] {
		cfg.storage.dir = fc.Storage.Dir
	}
	if fc.Limiter.RPS != 0 && !explicit["limiter-rps"] {
		cfg.limiter.rps = fc.Limiter.RPS
	}
	if fc.Limiter.Burst != 0 && !explicit["limiter-burst"] {
		cfg.limiter.burst = fc.Limiter.Burst
	}
	if fc.Limiter.Enabled != nil && !explicit["limiter-enabled"] {
		cfg.limiter.enabled = *fc.Limiter.Enabled
	}
	if len(fc.CORS.TrustedOrigins) > 0 && !explicit["cors-trusted-origins"] {
		cfg.cors.trustedOrigins = fc.CORS.TrustedOrigins
	}

	return nil
}
