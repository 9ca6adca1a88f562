// Package process spawns the watched command and captures one frame of its
// output.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/berrythewa/neowatch/internal/types"
)

// Runner executes the target command with stdin and stderr inherited and
// stdout captured
type Runner struct {
	Stdin  io.Reader
	Stderr io.Writer
	Dir    string
	Env    []string
}

// NewRunner creates a Runner wired to the current process's stdin and stderr
func NewRunner() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stderr: os.Stderr,
	}
}

// Run spawns name with args and blocks until it exits. A non-zero exit is
// not an error; it is reported in the frame. Cancelling ctx kills the child.
func (r *Runner) Run(ctx context.Context, name string, args []string) (*types.Frame, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stderr = r.Stderr
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	frame := &types.Frame{Started: time.Now()}
	if err := cmd.Start(); err != nil {
		return nil, types.NewSpawnFailed(err)
	}

	err := cmd.Wait()
	frame.Duration = time.Since(frame.Started)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, types.NewProcessFailed(err.Error(), err)
		}
		frame.ExitCode = exitErr.ExitCode()
	}

	if !utf8.Valid(stdout.Bytes()) {
		return nil, types.NewProcessFailed("output is not valid UTF-8", nil)
	}
	frame.Text = stdout.String()

	return frame, nil
}
