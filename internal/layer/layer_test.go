package layer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilenameNormalization(t *testing.T) {
	cases := map[string]string{
		"Blue Team":     "blue-team.json",
		"SOC":           "soc.json",
		"Red Team Ops":  "red-team-ops.json",
		"already-lower": "already-lower.json",
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Fatalf("Filename(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestNewLayerEnvelope(t *testing.T) {
	l := New("Blue Team", nil)

	if l.Version != "2.0" || l.Domain != "mitre-enterprise" {
		t.Fatalf("unexpected envelope metadata: version=%s domain=%s", l.Version, l.Domain)
	}
	if !l.SelectTechniquesAcrossTactics {
		t.Fatal("selectTechniquesAcrossTactics must be true")
	}
	if len(l.Filters.Stages) != 1 || l.Filters.Stages[0] != "act" {
		t.Fatalf("unexpected filter stages: %v", l.Filters.Stages)
	}
	if len(l.Filters.Platforms) != 3 {
		t.Fatalf("unexpected platforms: %v", l.Filters.Platforms)
	}
	if len(l.Gradient.Colors) != 3 || l.Gradient.MinValue != 0 || l.Gradient.MaxValue != 100 {
		t.Fatalf("unexpected gradient: %+v", l.Gradient)
	}

	b, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	// Entries and legend must serialize as empty arrays, not null.
	if !bytes.Contains(b, []byte(`"techniques":[]`)) {
		t.Fatalf("techniques should marshal as []: %s", b)
	}
	if !bytes.Contains(b, []byte(`"legendItems":[]`)) {
		t.Fatalf("legendItems should marshal as []: %s", b)
	}
	if !bytes.Contains(b, []byte(`"hideDisable":false`)) {
		t.Fatalf("expected hideDisable key: %s", b)
	}
}

func TestWriteJSONIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blue-team.json")
	l := New("Blue Team", []Entry{
		{TechniqueID: "T0001", Tactic: "execution", Color: "#ffe766", Enabled: true},
	})

	if err := WriteJSON(path, l); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(path, l); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("rewriting the same layer must produce byte-identical output")
	}
}

func TestWriteChecksums(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	if err := os.WriteFile(a, []byte("alpha"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("beta"), 0o644); err != nil {
		t.Fatal(err)
	}

	checksums := filepath.Join(dir, "checksums.sha256")
	if err := WriteChecksums(checksums, []string{b, a}); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(checksums)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 checksum lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "  a.json") || !strings.HasSuffix(lines[1], "  b.json") {
		t.Fatalf("checksums must be sorted by path: %v", lines)
	}
}

func TestWriteChecksumsMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := WriteChecksums(filepath.Join(dir, "checksums.sha256"), []string{filepath.Join(dir, "absent.json")})
	if err == nil {
		t.Fatal("expected error for unreadable layer file")
	}
}

func TestRunLoggerAppendsJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "attack-mapper.run.log")

	l, err := NewRunLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("run.start", map[string]interface{}{"topics": 2})
	l.Warn("run.retry", nil)
	l.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	var ev RunEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Event != "run.start" || ev.Level != "INFO" {
		t.Fatalf("unexpected first event: %+v", ev)
	}
}
