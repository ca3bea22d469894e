package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML), from filePath or MAPPER_CONFIG
//  3. env (prefix MAPPER_)
func Load(filePath string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if filePath == "" {
		filePath = os.Getenv("MAPPER_CONFIG")
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", filePath, err)
		}
	}

	// Environment variables: MAPPER_MAPPING_FILE, MAPPER_OUTPUT_DIR, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("MAPPER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mapper_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.MappingFile) == "" {
		return errors.New("mapping_file must not be empty")
	}
	if strings.TrimSpace(cfg.TaxonomyURL) == "" {
		return errors.New("taxonomy_url must not be empty")
	}
	if cfg.HTTPTimeoutSeconds < 1 || cfg.HTTPTimeoutSeconds > 300 {
		return errors.New("http_timeout_seconds must be in range 1..300")
	}
	if strings.TrimSpace(cfg.DatasourcesSheet) == "" || strings.TrimSpace(cfg.DetectionsSheet) == "" {
		return errors.New("sheet names must not be empty")
	}
	return nil
}
