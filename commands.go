package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/playegkro/egk-updater/internal/console"
	"github.com/playegkro/egk-updater/internal/install"
	"github.com/playegkro/egk-updater/internal/prompt"
	"github.com/playegkro/egk-updater/internal/state"
	"github.com/playegkro/egk-updater/internal/task"
	"github.com/playegkro/egk-updater/internal/ui"
)

// errWorkflowFailed is returned after the failure has already been shown
var errWorkflowFailed = errors.New("workflow failed")

const shutdownTimeout = 10 * time.Second

type globalOptions struct {
	configPath string
	yes        bool
	quiet      bool
	verbose    bool
}

func (o *globalOptions) logConsole() io.Writer {
	if o.verbose {
		return os.Stderr
	}
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "egk-updater",
		Short:         "Install and update the PLAY.EGK.RO modpack",
		Long:          "Without a subcommand the updater window opens. The install and update-core\nsubcommands run the same workflows in the terminal.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default <config dir>/egk-updater/config.yaml)")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "answer yes to every pre-flight question")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "disable sounds")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "also write the log to stderr")

	root.AddCommand(
		newWorkflowCommand(opts, "install", "Replace the PLAY.EGK.RO instance with the latest modpack", install.WorkflowInstallModpack),
		newWorkflowCommand(opts, "update-core", "Replace EGK-Core in the mods folder with the latest release", install.WorkflowUpdateCore),
		newCheckCommand(opts),
		newStatusCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newWorkflowCommand(opts *globalOptions, name, short string, w install.Workflow) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), opts, w)
		},
	}
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the installed releases with the latest ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attachConsole()
			u, err := newUpdater(opts, opts.logConsole())
			if err != nil {
				return err
			}
			defer u.Close()

			a, err := u.installer.Check(cmd.Context())
			if err != nil {
				return err
			}

			data := pterm.TableData{
				{"", "Instalat", "Disponibil"},
				{"Modpack", orDash(a.Installed.ModpackTag), a.ModpackTag},
				{"EGK-Core", orDash(a.Installed.CoreTag), a.CoreTag},
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render(); err != nil {
				return err
			}
			if !a.ModpackOutdated() && !a.CoreOutdated() {
				pterm.Success.Println("Totul este la zi.")
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the last install recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attachConsole()
			u, err := newUpdater(opts, opts.logConsole())
			if err != nil {
				return err
			}
			defer u.Close()

			record, err := state.Load(u.layout.Instance)
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing installed yet")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nInstance: %s\nUpdated: %s\n",
				record.Summary(), u.layout.Instance, record.UpdatedAt.Local().Format(time.RFC1123))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the updater version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "egk-updater %s\n", version)
		},
	}
}

func runWindow(ctx context.Context, opts *globalOptions) error {
	u, err := newUpdater(opts, opts.logConsole())
	if err != nil {
		return err
	}
	defer u.Close()

	u.logger.Info("starting updater window", u.logger.Args("version", version))

	a := fyneapp.NewWithID(AppID)
	runner := task.NewRunner(ctx)
	shell := ui.New(a, u.installer, runner, u.logger)
	if !opts.yes {
		u.gate.Confirmer = shell
	}

	u.sounds.Play("start")
	shell.ShowAndRun()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return runner.Shutdown(shutdownCtx)
}

func runHeadless(ctx context.Context, opts *globalOptions, w install.Workflow) error {
	attachConsole()

	u, err := newUpdater(opts, opts.logConsole())
	if err != nil {
		return err
	}
	defer u.Close()

	u.gate.Confirmer = &prompt.Terminal{Config: prompt.Config{
		NonInteractive: opts.yes,
		Sound:          u.sounds,
	}}
	reporter := newTerminalReporter()
	u.installer.Reporter = reporter
	u.installer.Sounds = closingCues{player: u.sounds}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	report := u.installer.Run(ctx, w)
	reporter.Stop()

	switch {
	case report.Exit:
		pterm.Info.Println("Anulat.")
		return nil
	case report.Dialog == install.DialogInfo:
		pterm.Success.Println(report.Message)
	case report.Dialog == install.DialogWarning:
		pterm.Warning.Println(report.Message)
	case report.Dialog == install.DialogError:
		pterm.Error.Println(report.Message)
		return errWorkflowFailed
	case report.Err != nil:
		return report.Err
	}
	return nil
}

// attachConsole connects to the console the process was started from. Without
// one there is nowhere to draw to, so pterm output is switched off.
func attachConsole() {
	console.Attach()
	if !console.IsAttached() {
		pterm.DisableOutput()
		return
	}
	console.SetTitle(ui.WindowTitle)
}

type cuePlayer interface {
	Play(cue string)
	PlaySync(cue string)
}

// closingCues blocks on the cue that ends a workflow so a headless run does not
// exit while it is still playing
type closingCues struct {
	player cuePlayer
}

func (c closingCues) Play(cue string) {
	switch cue {
	case install.CueSuccess, install.CueError:
		c.player.PlaySync(cue)
	default:
		c.player.Play(cue)
	}
}
