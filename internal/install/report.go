package install

import (
	"context"
	"errors"
	"fmt"

	"github.com/playegkro/egk-updater/internal/failure"
)

// Workflow selects one of the two user actions
type Workflow int

const (
	WorkflowInstallModpack Workflow = iota
	WorkflowUpdateCore
)

func (w Workflow) String() string {
	switch w {
	case WorkflowInstallModpack:
		return "install"
	case WorkflowUpdateCore:
		return "update-core"
	default:
		return "unknown"
	}
}

// DialogKind is the kind of message box shown when a workflow ends
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogInfo
	DialogWarning
	DialogError
)

// Report is everything the front end shows once a workflow has ended
type Report struct {
	Workflow Workflow
	Status   Status
	Dialog   DialogKind
	Title    string
	Message  string
	Result   Result
	Err      error
	// Exit is set when the user declined a pre-flight prompt and the application should close
	Exit bool
}

// Render turns a workflow outcome into exactly one user-facing report
func Render(w Workflow, res Result, err error) Report {
	r := Report{Workflow: w, Result: res, Err: err}

	switch {
	case err == nil:
		r.Status = StatusDone
		r.Title = res.Title
		r.Message = res.Message
		r.Dialog = DialogInfo
		if res.Outcome == OutcomeWarning {
			r.Dialog = DialogWarning
		}
	case errors.Is(err, failure.ErrUserDeclined):
		r.Status = StatusIdle
		r.Exit = true
	case errors.Is(err, context.Canceled):
		r.Status = StatusError
	default:
		r.Status = StatusError
		r.Dialog = DialogError
		r.Title = "Eroare"
		r.Message = fmt.Sprintf("A aparut o eroare: %v", err)
	}
	return r
}

// Run executes w and renders its outcome. The final status is pushed to the reporter
// before returning so the caller only has to show the dialog.
func (in *Installer) Run(ctx context.Context, w Workflow) Report {
	in.Logger.Info("workflow started", in.Logger.Args("workflow", w.String()))

	var (
		res Result
		err error
	)
	switch w {
	case WorkflowInstallModpack:
		res, err = in.InstallModpack(ctx)
	case WorkflowUpdateCore:
		res, err = in.UpdateCore(ctx)
	default:
		err = fmt.Errorf("unknown workflow %d", w)
	}

	report := Render(w, res, err)
	switch report.Dialog {
	case DialogInfo, DialogWarning:
		in.Logger.Info("workflow finished", in.Logger.Args("workflow", w.String(), "tag", res.Tag, "path", res.Path))
		in.play(CueSuccess)
	case DialogError:
		in.Logger.Error("workflow failed", in.Logger.Args("workflow", w.String(), "kind", failure.KindOf(err).String(), "error", err))
		in.play(CueError)
	}
	if report.Exit {
		in.Logger.Info("user declined, exiting", in.Logger.Args("workflow", w.String()))
	}
	in.status(report.Status)
	return report
}
