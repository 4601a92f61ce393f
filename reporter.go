package main

import (
	"sync"

	"github.com/pterm/pterm"

	"github.com/playegkro/egk-updater/internal/install"
)

// terminalReporter shows workflow progress with pterm: a progress bar while
// downloading, a spinner while extracting.
type terminalReporter struct {
	mu      sync.Mutex
	bar     *pterm.ProgressbarPrinter
	spinner *pterm.SpinnerPrinter
	percent int
}

func newTerminalReporter() *terminalReporter {
	return &terminalReporter{}
}

func (r *terminalReporter) SetStatus(s install.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	switch s {
	case install.StatusDownloadingModpack, install.StatusDownloadingCore:
		r.percent = 0
		bar, err := pterm.DefaultProgressbar.WithTitle(s.String()).WithTotal(100).WithRemoveWhenDone(false).Start()
		if err == nil {
			r.bar = bar
		}
	case install.StatusExtracting:
		spinner, err := pterm.DefaultSpinner.Start(s.String())
		if err == nil {
			r.spinner = spinner
		}
	}
}

func (r *terminalReporter) SetProgress(fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar == nil {
		return
	}
	pct := int(fraction * 100)
	if pct > 100 {
		pct = 100
	}
	if pct > r.percent {
		r.bar.Add(pct - r.percent)
		r.percent = pct
	}
}

// Stop clears any running bar or spinner
func (r *terminalReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *terminalReporter) stopLocked() {
	if r.bar != nil {
		r.bar.Stop()
		r.bar = nil
	}
	if r.spinner != nil {
		r.spinner.Success()
		r.spinner = nil
	}
}
