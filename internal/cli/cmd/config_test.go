package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/neowatch/internal/config"
	"github.com/berrythewa/neowatch/internal/types"
)

func runConfigCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "neowatch"}
	root.PersistentFlags().String("config", "", "")
	root.AddCommand(newConfigCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"config"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	useTempState(t)
	GetConfig().Radix = 16

	out, err := runConfigCmd(t, "show")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 16, shown.Radix)
	assert.Contains(t, out, "interval: 1s")
}

func TestConfigInit(t *testing.T) {
	p := useTempState(t)

	out, err := runConfigCmd(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, p.ConfigFile)

	_, err = os.Stat(p.ConfigFile)
	require.NoError(t, err)

	_, err = runConfigCmd(t, "init")
	assert.Error(t, err)

	_, err = runConfigCmd(t, "init", "--force")
	assert.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	p := useTempState(t)

	out, err := runConfigCmd(t, "path")
	require.NoError(t, err)
	assert.Contains(t, out, "Config:   "+p.ConfigFile)
	assert.Contains(t, out, "Database: "+p.DBFile)

	GetConfig().Record.DBPath = "/srv/neowatch.db"
	out, err = runConfigCmd(t, "path")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: /srv/neowatch.db")
}

func TestConfigValidate(t *testing.T) {
	useTempState(t)

	out, err := runConfigCmd(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	GetConfig().Radix = 99
	_, err = runConfigCmd(t, "validate")
	assert.True(t, types.IsKind(err, types.InvalidArgs))
}
