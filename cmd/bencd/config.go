package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type serviceConfig struct {
	ID          string
	Listen      string
	ScriptsDir  string
	CORSOrigins []string
	MaxDepth    int
	ReadTimeout time.Duration
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		ID:     "bencd",
		Listen: "127.0.0.1:8080",
	}
}

type fileConfig struct {
	ID          string   `toml:"id"`
	Listen      string   `toml:"listen"`
	ScriptsDir  string   `toml:"scripts_dir"`
	CORSOrigins []string `toml:"cors_origins"`
	MaxDepth    int      `toml:"max_depth"`
	ReadTimeout string   `toml:"read_timeout"`
}

func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()
	if path == "" {
		return cfg, cfg.validate()
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load bencd config: %w", err)
	}

	if meta.IsDefined("id") {
		if id := strings.TrimSpace(raw.ID); id != "" {
			cfg.ID = id
		}
	}
	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("scripts_dir") {
		cfg.ScriptsDir = strings.TrimSpace(raw.ScriptsDir)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CORSOrigins)
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return serviceConfig{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}

	if err := cfg.validate(); err != nil {
		return serviceConfig{}, err
	}
	return cfg, nil
}

func (c serviceConfig) validate() error {
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, have %d", c.MaxDepth)
	}
	if c.ReadTimeout < 0 {
		return errors.New("read_timeout must not be negative")
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		if v := strings.TrimSpace(origin); v != "" {
			out = append(out, v)
		}
	}
	return out
}
