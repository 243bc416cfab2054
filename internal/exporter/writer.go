package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer writes output files under a base directory. Used by the CLI; the
// HTTP server serves outputs straight from the session store instead.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteFile writes one output file, creating parent directories as needed.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	fullPath := filepath.Join(w.dir, name)

	slog.Info("writing output file",
		slog.String("path", fullPath),
		slog.Int("size_bytes", len(data)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return fullPath, nil
}
