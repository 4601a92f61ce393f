package ui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/pterm/pterm"

	"github.com/playegkro/egk-updater/internal/install"
	"github.com/playegkro/egk-updater/internal/paths"
	"github.com/playegkro/egk-updater/internal/state"
	"github.com/playegkro/egk-updater/internal/task"
)

const (
	WindowTitle  = "PLAY.EGK.RO Updater"
	WindowWidth  = 600
	WindowHeight = 450

	installLabel = "Install Mod Complet"
	coreLabel    = "Update EGK Core"

	// closeTimeout bounds how long closing the window waits for a cancelled workflow
	closeTimeout = 10 * time.Second
)

// Shell is the updater window
type Shell struct {
	app       fyne.App
	window    fyne.Window
	installer *install.Installer
	runner    *task.Runner
	logger    *pterm.Logger
	state     *State

	installButton *widget.Button
	coreButton    *widget.Button
	progress      *widget.ProgressBar
	status        *widget.Label
	footer        *widget.Label
}

// New builds the window. The installer's reporter is replaced by the window's
// progress state; its pre-flight prompts should use the returned Shell as Confirmer.
func New(a fyne.App, installer *install.Installer, runner *task.Runner, logger *pterm.Logger) *Shell {
	s := &Shell{
		app:       a,
		window:    a.NewWindow(WindowTitle),
		installer: installer,
		runner:    runner,
		logger:    logger,
	}

	s.progress = widget.NewProgressBar()
	s.status = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	s.footer = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	s.installButton = widget.NewButton(installLabel, func() { s.start(install.WorkflowInstallModpack) })
	s.coreButton = widget.NewButton(coreLabel, func() { s.start(install.WorkflowUpdateCore) })
	s.installButton.Importance = widget.HighImportance

	s.state = NewState(fyne.Do, s.status.SetText, s.progress.SetValue)
	installer.Reporter = s.state

	runner.OnChange(func(busy bool) {
		fyne.Do(func() { s.setBusy(busy) })
	})

	title := widget.NewLabelWithStyle(paths.InstanceName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	content := container.NewVBox(
		title,
		s.installButton,
		s.coreButton,
		s.progress,
		s.status,
	)
	s.window.SetContent(container.NewBorder(nil, s.footer, nil, nil, container.NewPadded(content)))
	s.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	s.window.SetFixedSize(true)
	s.window.CenterOnScreen()
	s.window.SetCloseIntercept(s.onClose)

	s.refreshFooter()
	return s
}

// Window returns the underlying fyne window
func (s *Shell) Window() fyne.Window {
	return s.window
}

// ShowAndRun shows the window and runs the fyne event loop
func (s *Shell) ShowAndRun() {
	s.window.ShowAndRun()
}

// Confirm shows a yes/no dialog and blocks the calling worker until it is answered.
// It must not be called from the UI goroutine.
func (s *Shell) Confirm(ctx context.Context, title, message string) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, func(ok bool) { answer <- ok }, s.window)
	})

	select {
	case ok := <-answer:
		return ok
	case <-ctx.Done():
		return false
	}
}

func (s *Shell) setBusy(busy bool) {
	if busy {
		s.installButton.Disable()
		s.coreButton.Disable()
		return
	}
	s.installButton.Enable()
	s.coreButton.Enable()
}

func (s *Shell) refreshFooter() {
	summary := state.LoadOrEmpty(s.installer.Layout.Instance).Summary()
	if summary == "" {
		s.footer.SetText("")
		return
	}
	s.footer.SetText("Instalat: " + summary)
}

func (s *Shell) start(w install.Workflow) {
	info, err := s.runner.Start(w.String(), func(ctx context.Context) {
		report := s.installer.Run(ctx, w)
		fyne.Do(func() { s.show(report) })
	})
	if errors.Is(err, task.ErrBusy) {
		s.logger.Debug("ignoring click while busy", s.logger.Args("workflow", w.String()))
		return
	}
	s.logger.Debug("task started", s.logger.Args("id", info.ID, "workflow", info.Name))
}

// show renders the end of a workflow; runs on the UI goroutine
func (s *Shell) show(report install.Report) {
	if report.Exit {
		s.app.Quit()
		return
	}

	switch report.Dialog {
	case install.DialogInfo:
		dialog.ShowInformation(report.Title, report.Message, s.window)
	case install.DialogWarning:
		s.showMessage(theme.WarningIcon(), report.Title, report.Message)
	case install.DialogError:
		s.showMessage(theme.ErrorIcon(), report.Title, report.Message)
	}

	if report.Err == nil {
		s.refreshFooter()
	}
}

func (s *Shell) showMessage(icon fyne.Resource, title, message string) {
	body := container.NewHBox(widget.NewIcon(icon), widget.NewLabel(message))
	dialog.ShowCustom(title, "OK", body, s.window)
}

func (s *Shell) onClose() {
	if !s.runner.Busy() {
		s.window.Close()
		return
	}

	s.logger.Info("window closed during a workflow, cancelling")
	s.status.SetText("Se anuleaza...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := s.runner.Shutdown(ctx); err != nil {
			s.logger.Warn("workflow did not stop in time", s.logger.Args("error", err))
		}
		fyne.Do(s.window.Close)
	}()
}

