package cmd

import (
	"go.uber.org/zap"

	"github.com/berrythewa/neowatch/internal/config"
)

// Shared variables across all commands
var (
	cfg       *config.Config
	paths     *config.ConfigPaths
	zapLogger *zap.Logger
)

// SetConfig sets the configuration for commands
func SetConfig(config *config.Config) {
	cfg = config
}

func GetConfig() *config.Config {
	return cfg
}

// SetPaths sets the resolved application paths
func SetPaths(p *config.ConfigPaths) {
	paths = p
}

func GetPaths() *config.ConfigPaths {
	return paths
}

// SetZapLogger sets the logger for commands
func SetZapLogger(log *zap.Logger) {
	zapLogger = log
}
