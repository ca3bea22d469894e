package sheet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSheet marks a workbook that lacks a required sheet. Callers treat
// it as a user-facing early exit, not a crash.
var ErrMissingSheet = errors.New("missing sheet")

// Table is the narrow surface the engine reads from, so scoring can be tested
// against in-memory fixtures instead of a real workbook.
type Table interface {
	Rows(sheet string) ([][]string, error)
}

// TopicDatasources reads the datasource sheet: row 1 columns 2..N are topic
// names, column 1 rows 2..N are data-source names, and a literal "x" cell
// claims the row's data-source for the column's topic.
func TopicDatasources(t Table, sheetName string) (map[string]map[string]bool, error) {
	rows, err := t.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]bool{}
	if len(rows) == 0 {
		return out, nil
	}
	header := rows[0]
	for col := 1; col < len(header); col++ {
		topic := header[col]
		if strings.TrimSpace(topic) == "" {
			continue
		}
		claimed := map[string]bool{}
		for _, row := range rows[1:] {
			if cellAt(row, col) == "x" {
				if ds := cellAt(row, 0); ds != "" {
					claimed[ds] = true
				}
			}
		}
		out[topic] = claimed
	}
	return out, nil
}

// TopicDetections reads the detection sheet: any non-empty cell holds a
// comma-separated list of technique IDs. The split values are added literally,
// whitespace included, to match how detections are keyed downstream.
func TopicDetections(t Table, sheetName string) (map[string]map[string]bool, error) {
	rows, err := t.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	out := map[string]map[string]bool{}
	if len(rows) == 0 {
		return out, nil
	}
	header := rows[0]
	for col := 1; col < len(header); col++ {
		topic := header[col]
		if strings.TrimSpace(topic) == "" {
			continue
		}
		detected := map[string]bool{}
		for _, row := range rows[1:] {
			value := cellAt(row, col)
			if value == "" {
				continue
			}
			for _, id := range strings.Split(value, ",") {
				detected[id] = true
			}
		}
		out[topic] = detected
	}
	return out, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// MissingSheet wraps ErrMissingSheet with the sheet name for diagnostics.
func MissingSheet(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingSheet, name)
}
