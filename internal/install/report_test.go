package install

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/playegkro/egk-updater/internal/failure"
)

func TestRender(t *testing.T) {
	netErr := &failure.NetworkError{Op: "download", URL: "https://example.com/x.zip", StatusCode: http.StatusNotFound}

	tests := []struct {
		name    string
		res     Result
		err     error
		status  Status
		dialog  DialogKind
		title   string
		message string
		exit    bool
	}{
		{
			name:    "success",
			res:     Result{Outcome: OutcomeSuccess, Title: "Succes", Message: "ok"},
			status:  StatusDone,
			dialog:  DialogInfo,
			title:   "Succes",
			message: "ok",
		},
		{
			name:    "warning",
			res:     Result{Outcome: OutcomeWarning, Title: "Atentie", Message: "no mods"},
			status:  StatusDone,
			dialog:  DialogWarning,
			title:   "Atentie",
			message: "no mods",
		},
		{
			name:    "network error",
			err:     netErr,
			status:  StatusError,
			dialog:  DialogError,
			title:   "Eroare",
			message: "A aparut o eroare: " + netErr.Error(),
		},
		{
			name:   "declined",
			err:    fmt.Errorf("preflight: %w", failure.ErrUserDeclined),
			status: StatusIdle,
			dialog: DialogNone,
			exit:   true,
		},
		{
			name:   "cancelled",
			err:    context.Canceled,
			status: StatusError,
			dialog: DialogNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Render(WorkflowInstallModpack, tt.res, tt.err)
			if r.Status != tt.status {
				t.Errorf("Status = %v, want %v", r.Status, tt.status)
			}
			if r.Dialog != tt.dialog {
				t.Errorf("Dialog = %v, want %v", r.Dialog, tt.dialog)
			}
			if r.Title != tt.title || r.Message != tt.message {
				t.Errorf("dialog = %q/%q, want %q/%q", r.Title, r.Message, tt.title, tt.message)
			}
			if r.Exit != tt.exit {
				t.Errorf("Exit = %v, want %v", r.Exit, tt.exit)
			}
		})
	}
}

func TestRunReportsFailureOnce(t *testing.T) {
	f := newFixture(t)
	f.server.SetError(testSources.CoreRepo, http.StatusNotFound)

	report := f.installer.Run(context.Background(), WorkflowUpdateCore)
	if report.Dialog != DialogError {
		t.Fatalf("Dialog = %v, want error", report.Dialog)
	}
	if f.reporter.last() != StatusError {
		t.Errorf("final status = %v, want %v", f.reporter.last(), StatusError)
	}

	errorCues := 0
	for _, c := range f.sounds.cues {
		if c == CueError {
			errorCues++
		}
	}
	if errorCues != 1 {
		t.Errorf("error cues = %d, want 1 (cues %v)", errorCues, f.sounds.cues)
	}
}

func TestRunSuccess(t *testing.T) {
	f := newFixture(t)
	f.publishModpack(t, "v1", map[string]string{"mods/A.jar": "a"})

	report := f.installer.Run(context.Background(), WorkflowInstallModpack)
	if report.Err != nil {
		t.Fatalf("Err = %v", report.Err)
	}
	if report.Dialog != DialogInfo || report.Title != "Succes" {
		t.Errorf("report = %+v", report)
	}
	if len(f.sounds.cues) == 0 || f.sounds.cues[len(f.sounds.cues)-1] != CueSuccess {
		t.Errorf("cues = %v, want to end with %s", f.sounds.cues, CueSuccess)
	}
}

func TestRunDeclinedExits(t *testing.T) {
	f := newFixture(t)
	f.running = true
	f.answer = false

	report := f.installer.Run(context.Background(), WorkflowInstallModpack)
	if !report.Exit {
		t.Error("Exit = false, want true")
	}
	if !errors.Is(report.Err, failure.ErrUserDeclined) {
		t.Errorf("Err = %v", report.Err)
	}
	if report.Dialog != DialogNone {
		t.Errorf("Dialog = %v, want none", report.Dialog)
	}
}

func TestStatusText(t *testing.T) {
	if StatusDownloadingModpack.String() != "Se descarca modpack-ul..." {
		t.Errorf("got %q", StatusDownloadingModpack.String())
	}
	if StatusIdle.String() != "" {
		t.Errorf("idle status should be empty, got %q", StatusIdle.String())
	}
}
