package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"runtime"

	"github.com/pterm/pterm"

	"github.com/playegkro/egk-updater/internal/audio"
	"github.com/playegkro/egk-updater/internal/config"
	"github.com/playegkro/egk-updater/internal/download"
	"github.com/playegkro/egk-updater/internal/github"
	"github.com/playegkro/egk-updater/internal/install"
	"github.com/playegkro/egk-updater/internal/logging"
	"github.com/playegkro/egk-updater/internal/paths"
	"github.com/playegkro/egk-updater/internal/preflight"
	"github.com/playegkro/egk-updater/internal/process"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const AppID = "ro.egk.play.updater"

func userAgent() string {
	return fmt.Sprintf("egk-updater/%s (%s)", version, runtime.GOOS)
}

// updater holds everything both the window and the headless commands need
type updater struct {
	cfg       *config.Config
	logger    *pterm.Logger
	logCloser io.Closer
	layout    paths.Layout
	sounds    *audio.Player
	gate      *preflight.Gate
	installer *install.Installer
}

func newUpdater(opts *globalOptions, console io.Writer) (*updater, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(console, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	appData, err := paths.AppDataRoot(cfg.AppData)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to locate the application data folder: %w", err)
	}
	layout := paths.New(appData)
	logger.Debug("paths resolved", logger.Args("game", layout.Game, "instance", layout.Instance))

	transport := newTransport(cfg.HTTP)
	apiClient := &http.Client{Transport: transport, Timeout: cfg.HTTP.APITimeout}
	downloadClient := &http.Client{Transport: transport}

	sounds := audio.NewPlayer(opts.quiet || !cfg.Sound, 0, logger)
	gate := &preflight.Gate{
		Layout:    layout,
		Processes: process.System(),
		Confirmer: preflight.Always,
		Logger:    logger,
	}

	u := &updater{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		layout:    layout,
		sounds:    sounds,
		gate:      gate,
		installer: &install.Installer{
			Layout: layout,
			Sources: install.Sources{
				ModpackRepo:  cfg.Modpack.Repo,
				ModpackAsset: cfg.Modpack.Asset,
				CoreRepo:     cfg.Core.Repo,
				CorePrefix:   cfg.Core.Prefix,
				CoreSuffix:   cfg.Core.Suffix,
			},
			Preflight: gate,
			Releases:  github.NewClient(cfg.GitHub.APIURL, userAgent(), apiClient),
			Downloads: download.New(downloadClient, userAgent(), cfg.Download.RateLimit),
			Sounds:    sounds,
			Logger:    logger,
		},
	}
	return u, nil
}

// newTransport bounds connection setup and the wait for response headers.
// Bodies are not bounded so large archives can stream for as long as they need.
func newTransport(cfg config.HTTPConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: cfg.ConnectTimeout,
	}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	return transport
}

func (u *updater) Close() error {
	u.sounds.StopAll()
	return u.logCloser.Close()
}

func main() {
	// Global panic handler to prevent path leakage in error messages
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nOops, something broke: %v\n", r)
			fmt.Fprintln(os.Stderr, "Let the developers know what happened.")
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errWorkflowFailed) {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}
