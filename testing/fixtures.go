package testing

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ZipEntry is one entry of a generated archive. A name ending in "/" is a directory.
type ZipEntry struct {
	Name string
	Body string
	Mode os.FileMode
}

// BuildZip creates an in-memory ZIP archive from entries, in order
func BuildZip(t *testing.T, entries ...ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if e.Mode != 0 {
			header.SetMode(e.Mode)
		}
		fw, err := w.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to add %s to zip: %v", e.Name, err)
		}
		if _, err := fw.Write([]byte(e.Body)); err != nil {
			t.Fatalf("failed to write %s to zip: %v", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize zip: %v", err)
	}
	return buf.Bytes()
}

// ZipFromFiles builds an archive from a name->content map (sorted by name)
func ZipFromFiles(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]ZipEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, ZipEntry{Name: name, Body: files[name]})
	}
	return BuildZip(t, entries...)
}

// WriteZip writes an archive built from files into dir/name and returns its path
func WriteZip(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, ZipFromFiles(t, files), 0644); err != nil {
		t.Fatalf("failed to write zip: %v", err)
	}
	return path
}
