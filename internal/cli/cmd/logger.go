package cmd

import (
	"go.uber.org/zap"

	"github.com/berrythewa/neowatch/internal/common"
	"github.com/berrythewa/neowatch/internal/config"
)

// SetupLogger creates the zap logger described by the log section of cfg
func SetupLogger(cfg *config.Config, paths *config.ConfigPaths, verbose bool) (*zap.Logger, error) {
	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	logFile := ""
	if paths != nil {
		logFile = paths.LogFile
	}
	return common.NewLogger(logCfg, logFile)
}

// GetZapLogger returns the configured logger, or a no-op logger before setup
func GetZapLogger() *zap.Logger {
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}
