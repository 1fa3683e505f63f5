// Package config holds the engine configuration: the names the raw
// data uses for administrative pseudo-rows and the overseas-vote
// bucket, headline size, aggregation parallelism, and the history DB
// location. A config file is optional; Default covers the Honduras
// 2025 feed this engine was written against.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Config is loaded from YAML or JSON. Zero-valued fields fall back to
// their defaults after loading.
type Config struct {
	// PseudoRows are tally rows that are bookkeeping, not candidates,
	// and must be excluded before any aggregation.
	PseudoRows []string `json:"pseudo_rows" yaml:"pseudo_rows"`

	// OverseasRegion is the structurally-zero bucket excluded from the
	// zero-report quality check until overseas results arrive.
	OverseasRegion string `json:"overseas_region" yaml:"overseas_region"`

	// HeadlineSize is the number of ranked candidates on the headline
	// summary and in the per-region table columns.
	HeadlineSize int `json:"headline_size" yaml:"headline_size"`

	// Workers bounds parallel leaf aggregation. Zero means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`

	// HistoryPath is the SQLite file recording projection samples.
	HistoryPath string `json:"history_path" yaml:"history_path"`
}

// DefaultHistoryPath is where projection samples are recorded unless
// overridden.
var DefaultHistoryPath = filepath.Join(".escrutinio", "history.db")

// Default returns the configuration for the upstream feed as scraped.
func Default() Config {
	return Config{
		PseudoRows:     []string{"Información General", "Información Acta"},
		OverseasRegion: "VOTO EN EL EXTERIOR",
		HeadlineSize:   3,
		Workers:        runtime.GOMAXPROCS(0),
		HistoryPath:    DefaultHistoryPath,
	}
}

// LoadFromPath reads a config file (YAML or JSON) and returns the
// parsed Config with defaults applied to missing fields.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes. ext is the file extension for a
// format hint; empty means detect from content (JSON objects start
// with "{", everything else is treated as YAML).
func Load(data []byte, ext string) (Config, error) {
	var cfg Config

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}

	useJSON := ext == ".json"
	if ext == "" {
		useJSON = strings.HasPrefix(strings.TrimSpace(string(data)), "{")
	}

	if useJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	def := Default()
	if len(cfg.PseudoRows) == 0 {
		cfg.PseudoRows = def.PseudoRows
	}
	if cfg.OverseasRegion == "" {
		cfg.OverseasRegion = def.OverseasRegion
	}
	if cfg.HeadlineSize <= 0 {
		cfg.HeadlineSize = def.HeadlineSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = def.HistoryPath
	}
	return cfg
}
