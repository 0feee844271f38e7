package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		ListenAddr        string `toml:"listen_addr"`
		UpdateIntervalSec int    `toml:"update_interval_sec"`
		FetchTimeoutSec   int    `toml:"fetch_timeout_sec"`
	} `toml:"app"`

	Sources struct {
		GoldTraders struct {
			URL string `toml:"url"`
		} `toml:"goldtraders"`

		Spot struct {
			URL       string  `toml:"url"`
			THBPerUSD float64 `toml:"thb_per_usd"`
		} `toml:"spot"`
	} `toml:"sources"`

	Transactions struct {
		MaxEntries int `toml:"max_entries"`
	} `toml:"transactions"`

	Storage struct {
		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`

		Redis struct {
			Enabled bool   `toml:"enabled"`
			Addr    string `toml:"addr"`
			Prefix  string `toml:"prefix"`
			TTLSec  int    `toml:"ttl_sec"`
		} `toml:"redis"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.ListenAddr) == "" {
		cfg.App.ListenAddr = ":3000"
	}
	if cfg.App.UpdateIntervalSec <= 0 {
		cfg.App.UpdateIntervalSec = 10
	}
	if cfg.App.FetchTimeoutSec <= 0 {
		cfg.App.FetchTimeoutSec = 30
	}
	if cfg.Sources.Spot.THBPerUSD <= 0 {
		// operator approximation, not a market rate
		cfg.Sources.Spot.THBPerUSD = 35.0
	}
	if cfg.Transactions.MaxEntries <= 0 {
		cfg.Transactions.MaxEntries = 1000
	}
	if strings.TrimSpace(cfg.Storage.Redis.Prefix) == "" {
		cfg.Storage.Redis.Prefix = "goldboard"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Sources.GoldTraders.URL) == "" {
		return errors.New("sources.goldtraders.url is empty")
	}
	if strings.TrimSpace(cfg.Sources.Spot.URL) == "" {
		return errors.New("sources.spot.url is empty")
	}
	if cfg.Storage.SQLite.Enabled && strings.TrimSpace(cfg.Storage.SQLite.Path) == "" {
		return errors.New("storage.sqlite.path empty but enabled")
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	return nil
}
