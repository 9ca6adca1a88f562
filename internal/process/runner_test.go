package process

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/neowatch/internal/types"
)

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func newTestRunner() (*Runner, *bytes.Buffer) {
	var stderr bytes.Buffer
	return &Runner{Stdin: strings.NewReader(""), Stderr: &stderr}, &stderr
}

func TestRunCapturesStdout(t *testing.T) {
	sh := shell(t)
	r, stderr := newTestRunner()

	frame, err := r.Run(context.Background(), sh, []string{"-c", "printf 'cpu: 10%%\\n'; echo oops >&2"})
	require.NoError(t, err)
	assert.Equal(t, "cpu: 10%\n", frame.Text)
	assert.Equal(t, 0, frame.ExitCode)
	assert.False(t, frame.Started.IsZero())
	assert.Equal(t, "oops\n", stderr.String())
}

func TestRunReportsExitCode(t *testing.T) {
	sh := shell(t)
	r, _ := newTestRunner()

	frame, err := r.Run(context.Background(), sh, []string{"-c", "echo partial; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, frame.ExitCode)
	assert.Equal(t, "partial\n", frame.Text)
}

func TestRunPassesStdin(t *testing.T) {
	sh := shell(t)
	r := &Runner{Stdin: strings.NewReader("from stdin"), Stderr: &bytes.Buffer{}}

	frame, err := r.Run(context.Background(), sh, []string{"-c", "cat"})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", frame.Text)
}

func TestRunSpawnFailure(t *testing.T) {
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), "/nonexistent/neowatch-target", nil)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.SpawnFailed))
	assert.Equal(t, 2, types.ExitCode(err))
}

func TestRunRejectsInvalidUTF8(t *testing.T) {
	sh := shell(t)
	r, _ := newTestRunner()

	_, err := r.Run(context.Background(), sh, []string{"-c", "printf '\\377\\376'"})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ProcessFailed))
	assert.Equal(t, 4, types.ExitCode(err))
}

func TestRunCancelledContextKillsChild(t *testing.T) {
	sh := shell(t)
	r, _ := newTestRunner()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	frame, err := r.Run(ctx, sh, []string{"-c", "sleep 10"})
	assert.Less(t, time.Since(start), 5*time.Second)
	if err == nil {
		assert.NotEqual(t, 0, frame.ExitCode)
	}
}
