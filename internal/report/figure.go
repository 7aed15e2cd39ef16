package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supportedFormats are the encodings accepted by CreateComparisonFigure.
var supportedFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "svg": true,
	"pdf": true, "eps": true, "tif": true, "tiff": true,
}

// FormatFromPath derives the figure format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", fmt.Errorf("output %q has no extension; use one of png, jpg, svg, pdf, eps, tiff", path)
	}
	if !supportedFormats[ext] {
		return "", fmt.Errorf("unsupported figure format %q", ext)
	}
	return ext, nil
}

// SaveFigure writes encoded figure bytes to path, creating parent directories.
func SaveFigure(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	return nil
}
