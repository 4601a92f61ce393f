package preflight

import (
	"context"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/playegkro/egk-updater/internal/failure"
	"github.com/playegkro/egk-updater/internal/paths"
	"github.com/playegkro/egk-updater/internal/process"
)

// Files whose presence in the game folder means TLauncher is installed
var LauncherFiles = []string{"TLauncher.exe", "TLauncherProfiles.json"}

// Confirmer asks the user a yes/no question and blocks until answered
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) bool
}

// ConfirmerFunc adapts a function to a Confirmer
type ConfirmerFunc func(ctx context.Context, title, message string) bool

func (f ConfirmerFunc) Confirm(ctx context.Context, title, message string) bool {
	return f(ctx, title, message)
}

// Always answers yes (non-interactive runs)
var Always = ConfirmerFunc(func(context.Context, string, string) bool { return true })

const (
	launcherTitle   = "Atentie"
	launcherMessage = "TLauncher nu a fost detectat!\nVrei sa continui oricum?"
	gameTitle       = "Minecraft Deschis"
	gameMessage     = "Minecraft pare sa fie deschis.\nVrei sa continui oricum?"
)

// LauncherInstalled reports whether a launcher executable or profile exists in the game folder
func LauncherInstalled(layout paths.Layout) bool {
	for _, name := range LauncherFiles {
		if paths.Exists(filepath.Join(layout.Game, name)) {
			return true
		}
	}
	return false
}

// Gate runs the advisory pre-flight checks. Neither check changes anything on disk.
type Gate struct {
	Layout    paths.Layout
	Processes process.Lister
	Confirmer Confirmer
	Logger    *pterm.Logger
}

// ConfirmLauncher asks to continue when the launcher is missing
func (g *Gate) ConfirmLauncher(ctx context.Context) error {
	if LauncherInstalled(g.Layout) {
		return nil
	}
	g.Logger.Warn("launcher not detected", g.Logger.Args("game_dir", g.Layout.Game))
	if !g.Confirmer.Confirm(ctx, launcherTitle, launcherMessage) {
		return failure.ErrUserDeclined
	}
	return nil
}

// ConfirmGameStopped asks to continue when the game appears to be running.
// A failure to list processes is logged and treated as "not running".
func (g *Gate) ConfirmGameStopped(ctx context.Context) error {
	if g.Processes == nil {
		return nil
	}
	running, err := process.GameRunning(ctx, g.Processes)
	if err != nil {
		g.Logger.Warn("could not check for a running game", g.Logger.Args("error", err))
		return nil
	}
	if !running {
		return nil
	}
	g.Logger.Warn("game appears to be running")
	if !g.Confirmer.Confirm(ctx, gameTitle, gameMessage) {
		return failure.ErrUserDeclined
	}
	return nil
}

// Run performs both checks in order
func (g *Gate) Run(ctx context.Context) error {
	if err := g.ConfirmLauncher(ctx); err != nil {
		return err
	}
	return g.ConfirmGameStopped(ctx)
}
