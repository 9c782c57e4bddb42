package documents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeDocumentName(t *testing.T) {
	cases := []struct {
		ref  string
		want string
	}{
		{"TNDR-2024-001", "TNDR-2024-001.pdf"},
		{"NH/2024/45", "NH_2024_45.pdf"},
		{"  spaced  ", "spaced.pdf"},
		{"../etc/passwd", "_etc_passwd.pdf"},
		{`..\secret`, "_secret.pdf"},
	}
	for _, c := range cases {
		if got := safeDocumentName(c.ref); got != c.want {
			t.Errorf("safeDocumentName(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}

func TestLocalSourceFetch(t *testing.T) {
	dir := t.TempDir()
	content := []byte("%PDF-1.4 fake")
	if err := os.WriteFile(filepath.Join(dir, "TNDR-1.pdf"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewLocalSource(dir)
	data, filename, err := src.Fetch(t.Context(), "TNDR-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "TNDR-1.pdf" {
		t.Errorf("unexpected filename %q", filename)
	}
	if string(data) != string(content) {
		t.Error("content mismatch")
	}
}

func TestLocalSourceMissing(t *testing.T) {
	src := NewLocalSource(t.TempDir())
	_, _, err := src.Fetch(t.Context(), "nope")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}
