package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/anirudhraja/protocodec/rawmsg"
)

// Config holds wiredump settings. Values come from an optional TOML file,
// then WIREDUMP_* environment variables, then command line flags.
type Config struct {
	ProtoDirs []string
	Message   string
	Format    string
	MaxDepth  int
	LogLevel  string
	Hex       bool
}

type fileConfig struct {
	ProtoDirs []string `toml:"proto_dirs"`
	Message   string   `toml:"message"`
	Format    string   `toml:"format"`
	MaxDepth  int      `toml:"max_depth"`
	LogLevel  string   `toml:"log_level"`
	Hex       bool     `toml:"hex"`
}

const (
	formatText = "text"
	formatJSON = "json"
)

func DefaultConfig() Config {
	return Config{
		ProtoDirs: []string{"."},
		Format:    formatText,
		MaxDepth:  rawmsg.DefaultConfig.MaxDepth,
		LogLevel:  zerolog.LevelWarnValue,
	}
}

// loadConfig reads path on top of the defaults. An empty path skips the file.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load wiredump config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load wiredump config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("proto_dirs") {
		cfg.ProtoDirs = normalizeDirs(raw.ProtoDirs)
	}
	if meta.IsDefined("message") {
		cfg.Message = strings.TrimSpace(raw.Message)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("hex") {
		cfg.Hex = raw.Hex
	}
	return cfg, nil
}

// applyEnv overrides cfg with the WIREDUMP_* variables that lookup finds.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("WIREDUMP_PROTO_DIRS"); ok {
		cfg.ProtoDirs = normalizeDirs(filepath.SplitList(v))
	}
	if v, ok := lookup("WIREDUMP_MESSAGE"); ok {
		cfg.Message = strings.TrimSpace(v)
	}
	if v, ok := lookup("WIREDUMP_FORMAT"); ok {
		cfg.Format = strings.TrimSpace(v)
	}
	if v, ok := lookup("WIREDUMP_MAX_DEPTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse WIREDUMP_MAX_DEPTH: %w", err)
		}
		cfg.MaxDepth = n
	}
	if v, ok := lookup("WIREDUMP_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup("WIREDUMP_HEX"); ok {
		cfg.Hex = v == "1" || v == "true"
	}
	return nil
}

func (c Config) validate() error {
	if c.Format != formatText && c.Format != formatJSON {
		return fmt.Errorf("format must be %q or %q, got %q", formatText, formatJSON, c.Format)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func normalizeDirs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, dir := range in {
		if d := strings.TrimSpace(dir); d != "" {
			out = append(out, d)
		}
	}
	return out
}
