package cli

import (
	"os/exec"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/neowatch/internal/config"
	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/format"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NEOWATCH_CONFIG_DIR", dir+"/config")
	t.Setenv("NEOWATCH_DATA_DIR", dir+"/data")
	for _, key := range []string{"NEOWATCH_INTERVAL", "NEOWATCH_DIFFERENCES", "NEOWATCH_RADIX", "NEOWATCH_LOG_LEVEL", "NEOWATCH_RECORD"} {
		t.Setenv(key, "")
	}
}

func TestRootFindsCommandNotSubcommand(t *testing.T) {
	root := newRootCmd()

	found, _, err := root.Find([]string{"-n", "2", "df", "-h"})
	require.NoError(t, err)
	assert.Equal(t, root, found)

	found, _, err = root.Find([]string{"history", "list"})
	require.NoError(t, err)
	assert.Equal(t, "list", found.Name())
}

func TestFlagsStopAtCommand(t *testing.T) {
	root := newRootCmd()

	require.NoError(t, root.ParseFlags([]string{"-d", "-n", "0.5", "ls", "-la", "-d"}))
	assert.Equal(t, []string{"ls", "-la", "-d"}, root.Flags().Args())

	root = newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"-g", "--", "history", "list"}))
	assert.Equal(t, []string{"history", "list"}, root.Flags().Args())
}

func TestApplyFlagsAndBuildOptions(t *testing.T) {
	var flags watchFlags
	root := &cobra.Command{Use: "neowatch"}
	root.Flags().SetInterspersed(false)
	bindWatchFlags(root, &flags)

	require.NoError(t, root.ParseFlags([]string{"-n", "0.25", "-d", "-N", "-r", "16", "--increase-color", "red", "-c", "3", "--no-alt-screen", "cat", "/proc/loadavg"}))

	c := config.DefaultConfig()
	c.Precise = true // from the config file, no flag given
	require.NoError(t, applyFlags(root, c, &flags))

	opts, err := buildOptions(c, &flags, root.Flags().Args())
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, opts.Interval)
	assert.True(t, opts.ShowDiff)
	assert.True(t, opts.NumberDiff)
	assert.True(t, opts.Precise)
	assert.Equal(t, 16, opts.Radix)
	assert.Equal(t, format.Red, opts.Palette.Increased)
	assert.Equal(t, format.Green, opts.Palette.New)
	assert.Equal(t, 3, opts.Count)
	assert.Equal(t, "cat", opts.Command)
	assert.Equal(t, []string{"/proc/loadavg"}, opts.Args)
	assert.False(t, c.AltScreen)
}

func TestBuildOptionsRejectsBadRadix(t *testing.T) {
	c := config.DefaultConfig()
	c.Radix = 37

	_, err := buildOptions(c, &watchFlags{}, []string{"date"})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.InvalidArgs))
	assert.Equal(t, 1, types.ExitCode(err))
}

func TestBuildOptionsRejectsBadColor(t *testing.T) {
	c := config.DefaultConfig()
	c.Colors.Change = "not-a-color"

	_, err := buildOptions(c, &watchFlags{}, []string{"date"})
	assert.True(t, types.IsKind(err, types.InvalidArgs))
}

func TestApplyFlagsRejectsBadInterval(t *testing.T) {
	for _, value := range []string{"-1", "inf", "nan", "1e12"} {
		t.Run(value, func(t *testing.T) {
			var flags watchFlags
			root := &cobra.Command{Use: "neowatch"}
			root.Flags().SetInterspersed(false)
			bindWatchFlags(root, &flags)
			require.NoError(t, root.ParseFlags([]string{"-n", value, "date"}))

			c := config.DefaultConfig()
			err := applyFlags(root, c, &flags)
			assert.True(t, types.IsKind(err, types.InvalidArgs), "got %v", err)
			assert.Equal(t, time.Second, c.Interval)
		})
	}
}

func TestRunWithoutCommand(t *testing.T) {
	isolate(t)

	root := newRootCmd()
	root.SetArgs([]string{"--no-alt-screen"})
	err := root.Execute()
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.InvalidArgs))
}

func TestRunEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	isolate(t)

	root := newRootCmd()
	root.SetArgs([]string{"-c", "2", "-n", "0", "--no-alt-screen", "--", "sh", "-c", "echo tick"})
	require.NoError(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"-e", "-n", "0", "--no-alt-screen", "sh", "-c", "exit 3"})
	err := root.Execute()
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrExit))
	assert.Equal(t, 3, types.ExitCode(err))

	root = newRootCmd()
	root.SetArgs([]string{"--no-alt-screen", "/nonexistent/neowatch-target"})
	err = root.Execute()
	assert.Equal(t, 2, types.ExitCode(err))
}
