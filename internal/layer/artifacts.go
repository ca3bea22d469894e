package layer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func DefaultChecksumsPath(outDir string) string {
	if strings.TrimSpace(outDir) == "" {
		outDir = "."
	}
	return filepath.Join(outDir, "checksums.sha256")
}

func DefaultRunLogPath(outDir string) string {
	if strings.TrimSpace(outDir) == "" {
		outDir = "."
	}
	return filepath.Join(outDir, "attack-mapper.run.log")
}

// WriteChecksums records the SHA-256 of every emitted layer file, sorted by
// path, so reruns can be compared byte for byte.
func WriteChecksums(checksumsPath string, layerPaths []string) error {
	clean := make([]string, 0, len(layerPaths))
	for _, p := range layerPaths {
		if strings.TrimSpace(p) != "" {
			clean = append(clean, p)
		}
	}
	sort.Strings(clean)

	lines := make([]string, 0, len(clean))
	for _, p := range clean {
		sum, err := fileSHA256(p)
		if err != nil {
			return fmt.Errorf("checksum read failed for %s: %w", p, err)
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, filepath.Base(p)))
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}

	dir := filepath.Dir(checksumsPath)
	if err := os.MkdirAll(dir, 0o755); err != nil && dir != "." {
		return err
	}
	return os.WriteFile(checksumsPath, []byte(content), 0o644)
}

func fileSHA256(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
