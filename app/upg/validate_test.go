package upg

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

type zipEntry struct {
	name string
	data string
	dir  bool
}

func buildZip(t *testing.T, entries []zipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		name := e.name
		if e.dir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %q: %v", e.name, err)
		}
		if !e.dir {
			if _, err := fw.Write([]byte(e.data)); err != nil {
				t.Fatalf("failed to write zip entry %q: %v", e.name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}

	return buf.Bytes()
}

func TestValidateArchiveCorrupt(t *testing.T) {
	errs := ValidateArchive([]byte("this is definitely not a zip file"))

	if len(errs) != 1 {
		t.Fatalf("Expected exactly 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0] != "not a valid archive" {
		t.Errorf("Expected corruption error, got: %s", errs[0])
	}
}

func TestValidateArchiveEmpty(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "subdir", dir: true},
		{name: "__MACOSX/._Fanuc.SRC", data: "metadata"},
	})

	errs := ValidateArchive(data)

	if len(errs) != 1 {
		t.Fatalf("Expected exactly 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0] != "archive is empty" {
		t.Errorf("Expected empty-archive error, got: %s", errs[0])
	}
}

func TestValidateArchiveUnsupportedExtensions(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "readme.txt", data: "docs"},
		{name: "Fanuc.SRC", data: "source"},
		{name: "notes.md", data: "notes"},
	})

	errs := ValidateArchive(data)

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), errs)
	}
	// Errors follow archive order
	if !strings.Contains(errs[0], `"readme.txt"`) || !strings.Contains(errs[0], `".TXT"`) {
		t.Errorf("Expected first error to name readme.txt and .TXT, got: %s", errs[0])
	}
	if !strings.Contains(errs[1], `"notes.md"`) {
		t.Errorf("Expected second error to name notes.md, got: %s", errs[1])
	}
}

func TestValidateArchiveMissingAnchor(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "Fanuc.LIB", data: "library"},
		{name: "Fanuc.CTL", data: "control"},
	})

	errs := ValidateArchive(data)

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], ".SRC") {
		t.Errorf("Expected missing-anchor error, got: %s", errs[0])
	}
}

func TestValidateArchiveMissingAnchorWithOtherErrors(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "readme.txt", data: "docs"},
		{name: "Fanuc.LIB", data: "library"},
	})

	errs := ValidateArchive(data)

	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], `"readme.txt"`) {
		t.Errorf("Expected extension error first, got: %s", errs[0])
	}
	if !strings.Contains(errs[1], ".SRC") {
		t.Errorf("Expected missing-anchor error last, got: %s", errs[1])
	}
}

func TestValidateArchiveExtensionCaseInsensitive(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "fanuc.src", data: "source"},
		{name: "fanuc.Lib", data: "library"},
	})

	if errs := ValidateArchive(data); len(errs) != 0 {
		t.Errorf("Expected no errors for lowercase extensions, got: %v", errs)
	}
}

func TestValidateArchiveDuplicateFlattenedNames(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "a/Fanuc.SRC", data: "one"},
		{name: "b/Fanuc.SRC", data: "two"},
	})

	errs := ValidateArchive(data)

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "duplicate filename") || !strings.Contains(errs[0], `"Fanuc.SRC"`) {
		t.Errorf("Expected duplicate-filename error, got: %s", errs[0])
	}
}

func TestValidateArchiveAccepted(t *testing.T) {
	data := buildZip(t, []zipEntry{
		{name: "posts/Fanuc.SRC", data: "source"},
		{name: "posts/Fanuc.LIB", data: "library"},
		{name: "posts/Fanuc.CTL", data: "control"},
		{name: "posts/Fanuc.KIN", data: "kinematics"},
		{name: "posts/Fanuc.ATR", data: "attributes"},
		{name: "posts/Fanuc.PINF", data: "info"},
		{name: "posts/Fanuc.LNG", data: "language"},
		{name: "__MACOSX/posts/._Fanuc.SRC", data: "metadata"},
	})

	if errs := ValidateArchive(data); len(errs) != 0 {
		t.Errorf("Expected no errors for a valid package, got: %v", errs)
	}
}
