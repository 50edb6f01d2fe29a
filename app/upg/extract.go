package upg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ExtractedFile is a single usable archive entry with its directory
// components stripped.
type ExtractedFile struct {
	Name string
	Data []byte
}

// Extract walks a validated archive and returns its usable entries in
// archive order, applying the same skip rules as ValidateArchive and
// flattening entry names to basenames. Callers are expected to have run
// ValidateArchive first; Extract only fails on unreadable archives or
// entries.
func Extract(data []byte) ([]ExtractedFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var files []ExtractedFile
	for _, f := range reader.File {
		if skipEntry(f) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %q: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %q: %w", f.Name, err)
		}

		files = append(files, ExtractedFile{Name: flatten(f.Name), Data: content})
	}

	return files, nil
}

// DeriveName returns the package name seeded by the first anchor file:
// its basename without the extension. Falls back to the given default when
// no anchor is present.
func DeriveName(files []ExtractedFile, fallback string) string {
	for _, f := range files {
		if Extension(f.Name) == AnchorExtension {
			if idx := strings.LastIndex(f.Name, "."); idx > 0 {
				return f.Name[:idx]
			}
			return f.Name
		}
	}
	return fallback
}

// DecodeText converts raw UPG file bytes to a string. UPG files predate
// UTF-8 tooling; anything that is not valid UTF-8 is decoded as
// Windows-1252, which never fails.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
