package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/siriussecurity/mitre-attack-mapping/internal/attackmapper"
	"github.com/siriussecurity/mitre-attack-mapping/internal/config"
	"github.com/siriussecurity/mitre-attack-mapping/internal/sheet"
)

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config YAML (default $MAPPER_CONFIG)")

	var mappingPath string
	var outputDir string
	var palettePath string
	var taxonomyURL string
	var datasourcesSheet string
	var detectionsSheet string
	var noRunLog bool
	var noChecksums bool
	flag.StringVar(&mappingPath, "f", "", "Path to the xlsx mapping workbook")
	flag.StringVar(&outputDir, "out-dir", "", "Directory the layer files are written to")
	flag.StringVar(&palettePath, "palette", "", "Path to a palette override YAML")
	flag.StringVar(&taxonomyURL, "taxonomy-url", "", "URL of the ATT&CK STIX bundle")
	flag.StringVar(&datasourcesSheet, "datasources-sheet", "", "Name of the datasource sheet")
	flag.StringVar(&detectionsSheet, "detections-sheet", "", "Name of the detection sheet")
	flag.BoolVar(&noRunLog, "no-run-log", false, "Disable the JSONL run log")
	flag.BoolVar(&noChecksums, "no-checksums", false, "Disable the checksums.sha256 output")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "attack-mapper error:", err)
		os.Exit(2)
	}

	// Flags win over config file and environment.
	if mappingPath != "" {
		cfg.MappingFile = mappingPath
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if palettePath != "" {
		cfg.PaletteFile = palettePath
	}
	if taxonomyURL != "" {
		cfg.TaxonomyURL = taxonomyURL
	}
	if datasourcesSheet != "" {
		cfg.DatasourcesSheet = datasourcesSheet
	}
	if detectionsSheet != "" {
		cfg.DetectionsSheet = detectionsSheet
	}
	if noRunLog {
		cfg.RunLog = false
	}
	if noChecksums {
		cfg.Checksums = false
	}

	summary, err := attackmapper.Run(context.Background(), attackmapper.Config{
		MappingPath:      cfg.MappingFile,
		TaxonomyURL:      cfg.TaxonomyURL,
		HTTPTimeout:      time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		OutputDir:        cfg.OutputDir,
		DatasourcesSheet: cfg.DatasourcesSheet,
		DetectionsSheet:  cfg.DetectionsSheet,
		PalettePath:      cfg.PaletteFile,
		WriteRunLog:      cfg.RunLog,
		WriteChecksums:   cfg.Checksums,
	})
	if err != nil {
		if errors.Is(err, sheet.ErrMissingSheet) {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "attack-mapper error:", err)
		os.Exit(2)
	}
	fmt.Printf("topics=%d techniques=%d datasources=%d files=%d out_dir=%s\n", summary.Topics, summary.Techniques, summary.Datasources, len(summary.Files), cfg.OutputDir)
}
