package attackmapper

import (
	"time"

	"github.com/siriussecurity/mitre-attack-mapping/internal/sheet"
	"github.com/siriussecurity/mitre-attack-mapping/internal/taxonomy"
)

type Config struct {
	MappingPath      string
	TaxonomyURL      string
	HTTPTimeout      time.Duration
	OutputDir        string
	DatasourcesSheet string
	DetectionsSheet  string
	PalettePath      string
	RunLogPath       string
	ChecksumsPath    string
	WriteRunLog      bool
	WriteChecksums   bool

	// Test seams. When nil the engine builds real ones from the fields above.
	Provider taxonomy.Provider
	Table    sheet.Table
}

type Summary struct {
	Topics      int
	Techniques  int
	Datasources int
	Files       []string
}
