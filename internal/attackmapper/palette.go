package attackmapper

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/siriussecurity/mitre-attack-mapping/internal/scoring"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type schemaError struct {
	Path    string
	Line    int
	Message string
}

func (e schemaError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d field %s: %s", e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("field %s: %s", e.Path, e.Message)
}

func formatSchemaErrors(path string, errs []schemaError) string {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		if errs[i].Path != errs[j].Path {
			return errs[i].Path < errs[j].Path
		}
		return errs[i].Message < errs[j].Message
	})
	var b strings.Builder
	b.WriteString("schema validation failed for ")
	b.WriteString(path)
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e.String())
	}
	return b.String()
}

// loadPalettes reads a palette override file. Both palettes list their five
// tier colors from lowest to highest coverage.
func loadPalettes(path string) (scoring.Palettes, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return scoring.Palettes{}, fmt.Errorf("read palette file: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return scoring.Palettes{}, fmt.Errorf("parse %s: %w", path, err)
	}
	errs := validatePaletteYAML(&root)
	if len(errs) > 0 {
		return scoring.Palettes{}, fmt.Errorf("%s", formatSchemaErrors(path, errs))
	}

	var pf struct {
		Coverage  []string `yaml:"coverage"`
		Detection []string `yaml:"detection"`
		Unmapped  string   `yaml:"unmapped"`
	}
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return scoring.Palettes{}, fmt.Errorf("decode %s: %w", path, err)
	}

	var out scoring.Palettes
	copy(out.Coverage[:], pf.Coverage)
	copy(out.Detection[:], pf.Detection)
	out.Unmapped = pf.Unmapped
	return out, nil
}

func validatePaletteYAML(root *yaml.Node) []schemaError {
	if root == nil || len(root.Content) == 0 {
		return []schemaError{{Path: "palette", Line: 0, Message: "empty YAML document"}}
	}
	errList := []schemaError{}
	m := validateMapNode(root.Content[0], "palette", []string{"coverage", "detection", "unmapped"}, []string{"coverage", "detection", "unmapped"}, &errList)
	for _, key := range []string{"coverage", "detection"} {
		node, ok := m[key]
		if !ok {
			continue
		}
		seq := validateSequenceNode(node, "palette."+key, &errList)
		if seq != nil && len(seq) != 5 {
			errList = append(errList, schemaError{Path: "palette." + key, Line: node.Line, Message: fmt.Sprintf("must hold exactly 5 colors, got %d", len(seq))})
		}
		for i, item := range seq {
			if item.Kind != yaml.ScalarNode || !hexColorRe.MatchString(item.Value) {
				errList = append(errList, schemaError{Path: fmt.Sprintf("palette.%s[%d]", key, i), Line: item.Line, Message: "must be a #rrggbb hex color"})
			}
		}
	}
	if node, ok := m["unmapped"]; ok {
		if node.Kind != yaml.ScalarNode || !hexColorRe.MatchString(node.Value) {
			errList = append(errList, schemaError{Path: "palette.unmapped", Line: node.Line, Message: "must be a #rrggbb hex color"})
		}
	}
	return errList
}

func validateMapNode(node *yaml.Node, path string, allowed, required []string, errs *[]schemaError) map[string]*yaml.Node {
	result := map[string]*yaml.Node{}
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Line: 0, Message: "missing object"})
		return result
	}
	if node.Kind != yaml.MappingNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a mapping/object"})
		return result
	}
	allowedSet := map[string]bool{}
	for _, a := range allowed {
		allowedSet[a] = true
	}
	seen := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		v := node.Content[i+1]
		key := k.Value
		if prevLine, ok := seen[key]; ok {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: fmt.Sprintf("duplicate key (already defined at line %d)", prevLine)})
			continue
		}
		seen[key] = k.Line
		if !allowedSet[key] {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: "unknown field"})
		}
		result[key] = v
	}
	for _, req := range required {
		if _, ok := result[req]; !ok {
			*errs = append(*errs, schemaError{Path: path + "." + req, Line: node.Line, Message: "missing required field"})
		}
	}
	return result
}

func validateSequenceNode(node *yaml.Node, path string, errs *[]schemaError) []*yaml.Node {
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Line: 0, Message: "missing sequence"})
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a sequence/array"})
		return nil
	}
	return node.Content
}
