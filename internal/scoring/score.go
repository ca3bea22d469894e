package scoring

import (
	"sort"
	"strings"
)

type Technique struct {
	ID          string
	Tactics     []string
	DataSources []string
}

type Entry struct {
	TechniqueID string
	Tactic      string
	Color       string
	Comment     string
	Enabled     bool
}

type Palette [5]string

type Palettes struct {
	Coverage  Palette
	Detection Palette
	Unmapped  string
}

// Tier ceilings in ascending order; anything above the last ceiling falls
// into the top tier, including a coverage of exactly 100.
var tierCeilings = [4]float64{25, 50, 75, 99}

func DefaultPalettes() Palettes {
	return Palettes{
		Coverage:  Palette{"#f9f1c6", "#ffe766", "#ffd466", "#f6b922", "#c39217"},
		Detection: Palette{"#bbfcd5", "#96f2bb", "#63eb99", "#33de77", "#06c452"},
		Unmapped:  "#dc1a33",
	}
}

func Tier(ratio float64) int {
	for i, ceiling := range tierCeilings {
		if ratio <= ceiling {
			return i
		}
	}
	return len(tierCeilings)
}

func Coverage(techniqueDS []string, topicDS map[string]bool) float64 {
	total := len(techniqueDS)
	if total == 0 {
		return 0
	}
	hits := 0
	for _, ds := range techniqueDS {
		if topicDS[ds] {
			hits++
		}
	}
	return float64(hits) / float64(total) * 100
}

func Color(p Palettes, t Technique, topicDS map[string]bool, detected map[string]bool) string {
	if len(t.DataSources) == 0 {
		return p.Unmapped
	}
	tier := Tier(Coverage(t.DataSources, topicDS))
	if detected[t.ID] {
		return p.Detection[tier]
	}
	return p.Coverage[tier]
}

func Colorize(techniques map[string]Technique, topicDS, detected map[string]bool, p Palettes) map[string]string {
	colors := make(map[string]string, len(techniques))
	for id, t := range techniques {
		colors[id] = Color(p, t, topicDS, detected)
	}
	return colors
}

// BuildEntries assembles the per-topic technique list. Data-sources and
// techniques are walked in sorted order so output is reproducible; the first
// data-source to reference a technique claims it for the topic.
func BuildEntries(techniques map[string]Technique, topicDS map[string]bool, colors map[string]string) []Entry {
	ids := make([]string, 0, len(techniques))
	for id := range techniques {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := []Entry{}
	claimed := map[string]bool{}
	for _, ds := range sortedKeys(topicDS) {
		for _, id := range ids {
			t := techniques[id]
			if claimed[id] || len(t.DataSources) == 0 || !containsString(t.DataSources, ds) {
				continue
			}
			claimed[id] = true
			for _, tactic := range t.Tactics {
				entries = append(entries, Entry{
					TechniqueID: id,
					Tactic:      NormalizeTactic(tactic),
					Color:       colors[id],
					Comment:     "",
					Enabled:     true,
				})
			}
		}
	}
	return entries
}

func NormalizeTactic(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
