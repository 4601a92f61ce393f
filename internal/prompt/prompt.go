package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// SoundPlayer plays named cues
type SoundPlayer interface {
	Play(name string)
}

// Config holds configuration for prompting
type Config struct {
	NonInteractive bool
	Sound          SoundPlayer
	In             io.Reader
	Out            io.Writer
}

func (c Config) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks the user to confirm an action. Romanian "d"/"da" count as yes.
func Confirm(prompt string, cfg Config) bool {
	if cfg.NonInteractive {
		return true
	}

	fmt.Fprintf(cfg.out(), "%s (y/n): ", prompt)
	reader := bufio.NewReader(cfg.in())
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	confirmed := response == "y" || response == "yes" || response == "d" || response == "da"

	if cfg.Sound != nil && confirmed {
		cfg.Sound.Play("select")
	}
	return confirmed
}

// Terminal asks pre-flight questions on the console
type Terminal struct {
	Config Config
}

// Confirm prints title and message and reads a yes/no answer.
// A cancelled context answers no.
func (t *Terminal) Confirm(ctx context.Context, title, message string) bool {
	if ctx.Err() != nil {
		return false
	}
	out := t.Config.out()
	fmt.Fprintf(out, "\n%s\n", title)
	return Confirm(strings.ReplaceAll(message, "\n", " "), t.Config)
}
