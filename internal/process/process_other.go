//go:build !windows

package process

import (
	"context"
	"fmt"
	"os/exec"
)

type psLister struct{}

// System returns the Lister for this platform
func System() Lister {
	return psLister{}
}

func (psLister) List(ctx context.Context) ([]Process, error) {
	output, err := exec.CommandContext(ctx, "ps", "-A", "-o", "pid=,args=").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	return parsePS(string(output)), nil
}
