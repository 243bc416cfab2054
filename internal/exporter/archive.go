package exporter

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zip"
)

// ArchiveEntry is one named file inside an archive.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// BuildArchive bundles the entries into a ZIP archive, in the order given.
func BuildArchive(entries []ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to create archive entry %s: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to write archive entry %s: %w", entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
