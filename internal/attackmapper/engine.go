package attackmapper

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/siriussecurity/mitre-attack-mapping/internal/layer"
	"github.com/siriussecurity/mitre-attack-mapping/internal/scoring"
	"github.com/siriussecurity/mitre-attack-mapping/internal/sheet"
	"github.com/siriussecurity/mitre-attack-mapping/internal/taxonomy"
)

func Run(ctx context.Context, cfg Config) (Summary, error) {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = "."
	}
	if strings.TrimSpace(cfg.DatasourcesSheet) == "" {
		cfg.DatasourcesSheet = "Datasources"
	}
	if strings.TrimSpace(cfg.DetectionsSheet) == "" {
		cfg.DetectionsSheet = "Detections"
	}
	if strings.TrimSpace(cfg.RunLogPath) == "" {
		cfg.RunLogPath = layer.DefaultRunLogPath(cfg.OutputDir)
	}
	if strings.TrimSpace(cfg.ChecksumsPath) == "" {
		cfg.ChecksumsPath = layer.DefaultChecksumsPath(cfg.OutputDir)
	}

	var log *runLogger
	if cfg.WriteRunLog {
		l, err := newRunLogger(cfg.RunLogPath)
		if err == nil {
			log = l
			defer log.close()
		}
	}
	log.info("run.start", map[string]interface{}{
		"mapping_file":      cfg.MappingPath,
		"taxonomy_url":      cfg.TaxonomyURL,
		"output_dir":        cfg.OutputDir,
		"datasources_sheet": cfg.DatasourcesSheet,
		"detections_sheet":  cfg.DetectionsSheet,
		"palette_file":      cfg.PalettePath,
	})

	palettes := scoring.DefaultPalettes()
	if cfg.PalettePath != "" {
		p, err := loadPalettes(cfg.PalettePath)
		if err != nil {
			log.warn("run.palette.error", map[string]interface{}{"error": err.Error()})
			return Summary{}, err
		}
		palettes = p
	}

	provider := cfg.Provider
	if provider == nil {
		provider = taxonomy.NewClient(cfg.TaxonomyURL, cfg.HTTPTimeout)
	}
	index, err := provider.Load(ctx)
	if err != nil {
		log.warn("run.taxonomy.error", map[string]interface{}{"error": err.Error()})
		return Summary{}, err
	}
	datasourceUnion := taxonomy.AllDatasources(index)
	log.info("run.taxonomy.ok", map[string]interface{}{
		"techniques":  len(index),
		"datasources": len(datasourceUnion),
	})

	techniques := make(map[string]scoring.Technique, len(index))
	for id, t := range index {
		techniques[id] = scoring.Technique{
			ID:          t.ID,
			Tactics:     append([]string{}, t.Tactics...),
			DataSources: append([]string{}, t.DataSources...),
		}
	}

	table := cfg.Table
	if table == nil {
		wb, err := sheet.Open(cfg.MappingPath)
		if err != nil {
			log.warn("run.workbook.error", map[string]interface{}{"error": err.Error()})
			return Summary{}, err
		}
		defer wb.Close()
		table = wb
	}

	topicDatasources, err := sheet.TopicDatasources(table, cfg.DatasourcesSheet)
	if err != nil {
		log.warn("run.sheet.error", map[string]interface{}{"sheet": cfg.DatasourcesSheet, "error": err.Error()})
		return Summary{}, err
	}
	topicDetections, err := sheet.TopicDetections(table, cfg.DetectionsSheet)
	if err != nil {
		log.warn("run.sheet.error", map[string]interface{}{"sheet": cfg.DetectionsSheet, "error": err.Error()})
		return Summary{}, err
	}
	log.info("run.sheets.ok", map[string]interface{}{"topics": len(topicDatasources)})

	topics := make([]string, 0, len(topicDatasources))
	for name := range topicDatasources {
		topics = append(topics, name)
	}
	sort.Strings(topics)

	files := make([]string, 0, len(topics))
	for _, topic := range topics {
		topicDS := topicDatasources[topic]
		detected := topicDetections[topic]
		if detected == nil {
			detected = map[string]bool{}
		}
		colors := scoring.Colorize(techniques, topicDS, detected, palettes)
		entries := scoring.BuildEntries(techniques, topicDS, colors)

		doc := layer.New(topic, toLayerEntries(entries))
		path := filepath.Join(cfg.OutputDir, layer.Filename(topic))
		if err := layer.WriteJSON(path, doc); err != nil {
			log.warn("run.layer.error", map[string]interface{}{"topic": topic, "error": err.Error()})
			return Summary{}, fmt.Errorf("write layer for topic %q: %w", topic, err)
		}
		files = append(files, path)
		log.info("run.topic.emitted", map[string]interface{}{
			"topic":   topic,
			"entries": len(entries),
			"path":    path,
		})
	}

	if cfg.WriteChecksums {
		if err := layer.WriteChecksums(cfg.ChecksumsPath, files); err != nil {
			log.warn("run.checksums.error", map[string]interface{}{"error": err.Error()})
			return Summary{}, err
		}
	}

	summary := Summary{
		Topics:      len(topics),
		Techniques:  len(techniques),
		Datasources: len(datasourceUnion),
		Files:       files,
	}
	log.info("run.complete", map[string]interface{}{
		"topics":      summary.Topics,
		"techniques":  summary.Techniques,
		"datasources": summary.Datasources,
		"files":       len(summary.Files),
	})
	return summary, nil
}

func toLayerEntries(entries []scoring.Entry) []layer.Entry {
	out := make([]layer.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, layer.Entry{
			TechniqueID: e.TechniqueID,
			Tactic:      e.Tactic,
			Color:       e.Color,
			Comment:     e.Comment,
			Enabled:     e.Enabled,
		})
	}
	return out
}
