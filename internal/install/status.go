package install

// Status is the text shown under the progress bar
type Status int

const (
	StatusIdle Status = iota
	StatusDownloadingModpack
	StatusExtracting
	StatusDownloadingCore
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDownloadingModpack:
		return "Se descarca modpack-ul..."
	case StatusExtracting:
		return "Se dezarhiveaza..."
	case StatusDownloadingCore:
		return "Se descarca EGK-Core..."
	case StatusDone:
		return "Gata"
	case StatusError:
		return "Eroare"
	default:
		return ""
	}
}

// Reporter receives status and progress updates from a running workflow.
// Implementations must not block; they are called from the download goroutine.
type Reporter interface {
	SetStatus(Status)
	SetProgress(fraction float64)
}

type nopReporter struct{}

func (nopReporter) SetStatus(Status)    {}
func (nopReporter) SetProgress(float64) {}

// Sounds plays named cues; see internal/audio
type Sounds interface {
	Play(cue string)
}
