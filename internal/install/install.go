package install

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/playegkro/egk-updater/internal/download"
	"github.com/playegkro/egk-updater/internal/extract"
	"github.com/playegkro/egk-updater/internal/failure"
	"github.com/playegkro/egk-updater/internal/github"
	"github.com/playegkro/egk-updater/internal/paths"
	"github.com/playegkro/egk-updater/internal/state"
)

// Sound cue names
const (
	CueDownloading = "downloading"
	CueInstalling  = "installing"
	CueSuccess     = "success"
	CueError       = "error"
)

// archiveName is the local name of the downloaded modpack inside the scratch directory
const archiveName = "modsegk.zip"

// Sources names the two release feeds and the assets taken from them
type Sources struct {
	ModpackRepo  string
	ModpackAsset string
	CoreRepo     string
	CorePrefix   string
	CoreSuffix   string
}

// Resolver finds the latest release asset of a repository
type Resolver interface {
	LatestAsset(ctx context.Context, repo string, m github.Matcher) (*github.Release, github.Asset, error)
}

// Fetcher streams a URL to a local file
type Fetcher interface {
	File(ctx context.Context, url, targetPath string, callback download.ProgressCallback) error
}

// Preflight runs the environment checks; failure.ErrUserDeclined aborts the workflow
type Preflight interface {
	Run(ctx context.Context) error
}

// Installer runs the install-modpack and update-core workflows
type Installer struct {
	Layout    paths.Layout
	Sources   Sources
	Preflight Preflight
	Releases  Resolver
	Downloads Fetcher
	Reporter  Reporter
	Sounds    Sounds
	Logger    *pterm.Logger

	// TempDir is the parent of the scratch directory; empty means os.TempDir
	TempDir string
	// Now is used for install records
	Now func() time.Time
}

// Outcome separates a clean finish from one worth a warning
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeWarning
)

// Result is what a finished workflow reports to the user
type Result struct {
	Outcome Outcome
	Title   string
	Message string
	Tag     string
	Path    string
}

func (in *Installer) status(s Status) {
	in.reporter().SetStatus(s)
}

func (in *Installer) reporter() Reporter {
	if in.Reporter == nil {
		return nopReporter{}
	}
	return in.Reporter
}

func (in *Installer) play(cue string) {
	if in.Sounds != nil {
		in.Sounds.Play(cue)
	}
}

func (in *Installer) onProgress(bytesComplete, totalBytes int64) {
	in.reporter().SetProgress(download.Fraction(bytesComplete, totalBytes))
}

func (in *Installer) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

// InstallModpack wipes the instance folder and extracts the latest modpack archive into it.
// A failure after the wipe leaves the folder half-installed.
func (in *Installer) InstallModpack(ctx context.Context) (Result, error) {
	if err := in.Preflight.Run(ctx); err != nil {
		return Result{}, err
	}

	target := in.Layout.Instance
	if paths.Exists(target) {
		in.Logger.Info("removing previous installation", in.Logger.Args("path", target))
		if err := os.RemoveAll(target); err != nil {
			return Result{}, failure.Filesystem("remove", target, err)
		}
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return Result{}, failure.Filesystem("create", target, err)
	}

	tempDir, err := os.MkdirTemp(in.TempDir, "egk-modpack-*")
	if err != nil {
		return Result{}, failure.Filesystem("create temporary directory in", in.TempDir, err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			in.Logger.Warn("failed to remove temporary directory", in.Logger.Args("path", tempDir, "error", err))
		}
	}()

	in.status(StatusDownloadingModpack)
	in.reporter().SetProgress(0)
	in.play(CueDownloading)

	release, asset, err := in.Releases.LatestAsset(ctx, in.Sources.ModpackRepo, github.ExactName(in.Sources.ModpackAsset))
	if err != nil {
		return Result{}, err
	}
	in.Logger.Info("downloading modpack", in.Logger.Args("tag", release.TagName, "url", asset.BrowserDownloadURL))

	archive := filepath.Join(tempDir, archiveName)
	if err := in.Downloads.File(ctx, asset.BrowserDownloadURL, archive, in.onProgress); err != nil {
		return Result{}, err
	}

	in.status(StatusExtracting)
	in.play(CueInstalling)
	sum, err := extract.Zip(ctx, archive, target)
	if err != nil {
		return Result{}, err
	}
	in.Logger.Info("modpack extracted", in.Logger.Args("files", sum.Files, "dirs", sum.Dirs, "path", target))

	if err := os.Remove(archive); err != nil {
		return Result{}, failure.Filesystem("remove", archive, err)
	}

	record := &state.Record{ModpackTag: release.TagName, UpdatedAt: in.now()}
	if err := state.Save(target, record); err != nil {
		in.Logger.Warn("failed to save install record", in.Logger.Args("error", err))
	}

	result := Result{
		Outcome: OutcomeSuccess,
		Title:   "Succes",
		Message: "Modpack-ul complet a fost instalat!",
		Tag:     release.TagName,
		Path:    target,
	}
	if !paths.IsDir(filepath.Join(target, paths.ModsDirName)) {
		in.Logger.Warn("installed archive has no mods folder", in.Logger.Args("path", target))
		result.Outcome = OutcomeWarning
		result.Title = "Atentie"
		result.Message = "Modpack-ul a fost instalat dar folderul mods nu a fost gasit!"
	}

	in.status(StatusDone)
	return result, nil
}

// UpdateCore replaces every EGK-Core jar in the mods folder with the latest release
func (in *Installer) UpdateCore(ctx context.Context) (Result, error) {
	if err := in.Preflight.Run(ctx); err != nil {
		return Result{}, err
	}

	mods := in.Layout.Mods
	if err := os.MkdirAll(mods, 0755); err != nil {
		return Result{}, failure.Filesystem("create", mods, err)
	}

	removed, err := RemoveMatching(mods, github.PrefixSuffix(in.Sources.CorePrefix, in.Sources.CoreSuffix))
	if err != nil {
		return Result{}, err
	}
	if len(removed) > 0 {
		in.Logger.Info("removed stale core jars", in.Logger.Args("files", strings.Join(removed, ", ")))
	}

	in.status(StatusDownloadingCore)
	in.reporter().SetProgress(0)
	in.play(CueDownloading)

	release, asset, err := in.Releases.LatestAsset(ctx, in.Sources.CoreRepo, github.PrefixSuffix(in.Sources.CorePrefix, in.Sources.CoreSuffix))
	if err != nil {
		return Result{}, err
	}

	name, err := FileNameFromURL(asset.BrowserDownloadURL)
	if err != nil {
		name = asset.Name
	}
	if name != filepath.Base(name) || name == ".." {
		return Result{}, failure.Filesystem("write", name, fmt.Errorf("asset name escapes the mods folder"))
	}
	dest, err := download.ValidatePath(mods, filepath.Join(mods, name))
	if err != nil {
		return Result{}, failure.Filesystem("write", name, err)
	}

	in.Logger.Info("downloading core plugin", in.Logger.Args("tag", release.TagName, "file", name))
	if err := in.Downloads.File(ctx, asset.BrowserDownloadURL, dest, in.onProgress); err != nil {
		return Result{}, err
	}

	record := state.LoadOrEmpty(in.Layout.Instance)
	record.CoreTag = release.TagName
	record.CoreFile = name
	record.UpdatedAt = in.now()
	if err := state.Save(in.Layout.Instance, record); err != nil {
		in.Logger.Warn("failed to save install record", in.Logger.Args("error", err))
	}

	in.status(StatusDone)
	return Result{
		Outcome: OutcomeSuccess,
		Title:   "Succes",
		Message: "EGK-Core a fost actualizat!",
		Tag:     release.TagName,
		Path:    dest,
	}, nil
}

// RemoveMatching deletes the regular files in dir whose names m accepts and returns their names
func RemoveMatching(dir string, m github.Matcher) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, failure.Filesystem("list", dir, err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !m.Match(entry.Name()) {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		if err := os.Remove(p); err != nil {
			return removed, failure.Filesystem("remove", p, err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

// FileNameFromURL returns the unescaped last path segment of rawURL
func FileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("no file name in %s", rawURL)
	}
	return name, nil
}
