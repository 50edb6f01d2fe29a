// Package upg validates and extracts UPG post processor packages uploaded
// as ZIP archives. The seven extensions in ValidExtensions are the complete
// UPG file-type set confirmed by corpus scan.
package upg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// ValidExtensions is the fixed set of recognized UPG file extensions,
// compared case-insensitively against uppercased extensions.
var ValidExtensions = map[string]struct{}{
	".SRC":  {},
	".LIB":  {},
	".CTL":  {},
	".KIN":  {},
	".ATR":  {},
	".PINF": {},
	".LNG":  {},
}

// AnchorExtension is the required source-file extension. Its presence gates
// archive acceptance and its basename seeds the derived package name.
const AnchorExtension = ".SRC"

const macOSMetadataMarker = "__MACOSX"

// skipEntry reports whether a ZIP entry is ignored entirely: directory
// entries and macOS metadata paths are neither extracted nor errors.
func skipEntry(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return true
	}
	return strings.Contains(f.Name, macOSMetadataMarker)
}

// flatten strips any directory components from an archive entry name.
// Nested directories are not preserved in storage.
func flatten(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

// Extension returns the uppercased extension of a filename, including the
// leading dot, or the empty string when the name has none.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToUpper(name[idx:])
}

// ValidateArchive checks raw ZIP bytes against the UPG package rules and
// returns all violations as human-readable strings. An empty result means
// the archive is acceptable and Extract will succeed. All rule violations
// are collected rather than short-circuited so a client can fix everything
// in one round trip; only archive corruption stops validation outright.
func ValidateArchive(data []byte) []string {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return []string{"not a valid archive"}
	}

	var errs []string
	var usable []*zip.File
	for _, f := range reader.File {
		if skipEntry(f) {
			continue
		}
		usable = append(usable, f)
	}

	if len(usable) == 0 {
		return []string{"archive is empty"}
	}

	hasAnchor := false
	seen := make(map[string]bool)
	for _, f := range usable {
		name := flatten(f.Name)
		ext := Extension(name)

		if _, ok := ValidExtensions[ext]; !ok {
			errs = append(errs, fmt.Sprintf("file %q has unsupported extension %q", name, ext))
		}
		if ext == AnchorExtension {
			hasAnchor = true
		}
		if seen[name] {
			errs = append(errs, fmt.Sprintf("duplicate filename %q after flattening nested directories", name))
		}
		seen[name] = true
	}

	if !hasAnchor {
		errs = append(errs, fmt.Sprintf("missing required %s file", AnchorExtension))
	}

	return errs
}
