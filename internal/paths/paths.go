package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	GameDirName     = ".minecraft"
	VersionsDirName = "versions"
	InstanceName    = "PLAY.EGK.RO"
	ModsDirName     = "mods"
)

// Layout holds the fixed installation locations. It is computed once at startup.
type Layout struct {
	AppData  string
	Game     string
	Versions string
	Instance string
	Mods     string
}

// New derives the layout from an application-data root
func New(appData string) Layout {
	game := filepath.Join(appData, GameDirName)
	versions := filepath.Join(game, VersionsDirName)
	instance := filepath.Join(versions, InstanceName)
	return Layout{
		AppData:  appData,
		Game:     game,
		Versions: versions,
		Instance: instance,
		Mods:     filepath.Join(instance, ModsDirName),
	}
}

// AppDataRoot returns the platform application-data directory.
// A non-empty override wins; on Windows %APPDATA% is used, elsewhere os.UserConfigDir.
func AppDataRoot(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errors.New("application data directory is not set")
	}
	return dir, nil
}

// Denormalize converts a path from forward slashes to platform-specific separators
func Denormalize(p string) string {
	return strings.ReplaceAll(p, "/", string(filepath.Separator))
}

// CleanLower returns a cleaned, lowercase path for case-insensitive comparison
func CleanLower(p string) string {
	return strings.ToLower(filepath.Clean(p))
}

// IsDir reports whether p exists and is a directory
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at p
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
