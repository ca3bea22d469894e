// Package config defines tool configuration and its loading order:
// defaults, then an optional YAML file, then MAPPER_-prefixed environment
// variables.
package config

import "github.com/siriussecurity/mitre-attack-mapping/internal/taxonomy"

type Config struct {
	// MappingFile is the xlsx workbook holding the Datasources and
	// Detections sheets.
	MappingFile string `koanf:"mapping_file"`

	// TaxonomyURL points at the enterprise ATT&CK STIX bundle.
	TaxonomyURL string `koanf:"taxonomy_url"`

	// HTTPTimeoutSeconds bounds the taxonomy fetch.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// OutputDir receives one layer JSON per topic.
	OutputDir string `koanf:"output_dir"`

	DatasourcesSheet string `koanf:"datasources_sheet"`
	DetectionsSheet  string `koanf:"detections_sheet"`

	// PaletteFile optionally overrides the built-in color palettes.
	PaletteFile string `koanf:"palette_file"`

	RunLog    bool `koanf:"run_log"`
	Checksums bool `koanf:"checksums"`
}

func New() *Config {
	return &Config{
		MappingFile:        "mitre-mapping.xlsx",
		TaxonomyURL:        taxonomy.DefaultBundleURL,
		HTTPTimeoutSeconds: 60,
		OutputDir:          ".",
		DatasourcesSheet:   "Datasources",
		DetectionsSheet:    "Detections",
		RunLog:             true,
		Checksums:          true,
	}
}
