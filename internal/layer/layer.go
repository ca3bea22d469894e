package layer

import "strings"

// Entry is one colored (technique, tactic) cell in a Navigator layer.
type Entry struct {
	TechniqueID string `json:"techniqueID"`
	Tactic      string `json:"tactic"`
	Color       string `json:"color"`
	Comment     string `json:"comment"`
	Enabled     bool   `json:"enabled"`
}

type Filters struct {
	Stages    []string `json:"stages"`
	Platforms []string `json:"platforms"`
}

type Gradient struct {
	Colors   []string `json:"colors"`
	MinValue int      `json:"minValue"`
	MaxValue int      `json:"maxValue"`
}

type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Layer is the document the ATT&CK Navigator loads.
type Layer struct {
	Name                          string       `json:"name"`
	Version                       string       `json:"version"`
	Domain                        string       `json:"domain"`
	Description                   string       `json:"description"`
	Filters                       Filters      `json:"filters"`
	Sorting                       int          `json:"sorting"`
	ViewMode                      int          `json:"viewMode"`
	HideDisabled                  bool         `json:"hideDisable"`
	Techniques                    []Entry      `json:"techniques"`
	Gradient                      Gradient     `json:"gradient"`
	LegendItems                   []LegendItem `json:"legendItems"`
	ShowTacticRowBackground       bool         `json:"showTacticRowBackground"`
	TacticRowBackground           string       `json:"tacticRowBackground"`
	SelectTechniquesAcrossTactics bool         `json:"selectTechniquesAcrossTactics"`
}

func New(name string, entries []Entry) Layer {
	if entries == nil {
		entries = []Entry{}
	}
	return Layer{
		Name:        name,
		Version:     "2.0",
		Domain:      "mitre-enterprise",
		Description: "",
		Filters: Filters{
			Stages:    []string{"act"},
			Platforms: []string{"windows", "linux", "mac"},
		},
		Sorting:      0,
		ViewMode:     0,
		HideDisabled: false,
		Techniques:   entries,
		Gradient: Gradient{
			Colors:   []string{"#ff6666", "#ffe766", "#8ec843"},
			MinValue: 0,
			MaxValue: 100,
		},
		LegendItems:                   []LegendItem{},
		ShowTacticRowBackground:       false,
		TacticRowBackground:           "#dddddd",
		SelectTechniquesAcrossTactics: true,
	}
}

// Filename turns a topic name into its layer file name: lowercase, spaces
// replaced with dashes, .json suffix.
func Filename(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), " ", "-") + ".json"
}
