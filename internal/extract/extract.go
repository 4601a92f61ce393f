package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/codeclysm/extract/v4"

	"github.com/playegkro/egk-updater/internal/download"
	"github.com/playegkro/egk-updater/internal/failure"
	"github.com/playegkro/egk-updater/internal/paths"
)

// Summary describes an extracted archive
type Summary struct {
	Files int
	Dirs  int
	Bytes uint64
}

// Inspect checks every entry of the archive against targetDir before anything is written.
// Absolute names, names escaping targetDir and symlinks are rejected.
func Inspect(r *zip.Reader, targetDir string) (Summary, error) {
	var sum Summary
	for _, f := range r.File {
		if _, err := EntryTarget(targetDir, f.Name); err != nil {
			return Summary{}, err
		}
		if f.Mode()&os.ModeSymlink != 0 {
			return Summary{}, fmt.Errorf("archive entry %s is a symlink", f.Name)
		}
		if f.FileInfo().IsDir() {
			sum.Dirs++
			continue
		}
		sum.Files++
		sum.Bytes += f.UncompressedSize64
	}
	return sum, nil
}

// EntryTarget resolves an archive entry name to its location under targetDir
func EntryTarget(targetDir, name string) (string, error) {
	// Archives built on Windows sometimes use backslashes
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" || path.IsAbs(name) || filepath.VolumeName(paths.Denormalize(name)) != "" {
		return "", fmt.Errorf("path traversal attempt detected: %q", name)
	}
	return download.ValidatePath(targetDir, filepath.Join(targetDir, paths.Denormalize(name)))
}

// Zip extracts archivePath into targetDir, preserving the archive's folder structure
func Zip(ctx context.Context, archivePath, targetDir string) (Summary, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return Summary{}, failure.Filesystem("open archive", archivePath, err)
	}
	sum, err := Inspect(&reader.Reader, targetDir)
	reader.Close()
	if err != nil {
		return Summary{}, failure.Filesystem("extract", archivePath, err)
	}

	body, err := os.Open(archivePath)
	if err != nil {
		return Summary{}, failure.Filesystem("open archive", archivePath, err)
	}
	defer body.Close()

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return Summary{}, failure.Filesystem("create", targetDir, err)
	}
	if err := extract.Zip(ctx, body, targetDir, nil); err != nil {
		return Summary{}, failure.Filesystem("extract", archivePath, err)
	}

	return sum, nil
}
