package process

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/playegkro/egk-updater/internal/paths"
)

// JavaLaunchers are the executable names the game runs under
var JavaLaunchers = []string{"javaw.exe", "java.exe", "javaw", "java"}

// Process is a running process as seen by a Lister
type Process struct {
	Name string
	Args []string
}

// Lister enumerates running processes
type Lister interface {
	List(ctx context.Context) ([]Process, error)
}

// ListerFunc adapts a function to a Lister
type ListerFunc func(ctx context.Context) ([]Process, error)

func (f ListerFunc) List(ctx context.Context) ([]Process, error) { return f(ctx) }

// IsGame reports whether p is a Java launcher with "minecraft" among its arguments
func IsGame(p Process) bool {
	name := paths.CleanLower(filepath.Base(p.Name))
	isJava := false
	for _, launcher := range JavaLaunchers {
		if name == launcher {
			isJava = true
			break
		}
	}
	if !isJava {
		return false
	}

	for _, arg := range p.Args {
		if strings.Contains(strings.ToLower(arg), "minecraft") {
			return true
		}
	}
	return false
}

// GameRunning checks whether any listed process is the game
func GameRunning(ctx context.Context, l Lister) (bool, error) {
	procs, err := l.List(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range procs {
		if IsGame(p) {
			return true, nil
		}
	}
	return false, nil
}

// parsePS parses `ps -A -o pid=,args=` output. The name is the base of argv[0],
// so names containing spaces are only split when the executable path itself has one.
func parsePS(output string) []Process {
	var procs []Process
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		procs = append(procs, Process{
			Name: filepath.Base(fields[1]),
			Args: fields[1:],
		})
	}
	return procs
}
