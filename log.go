// As this file is very similar in every package, ignore the linter here.
// nolint:dupl
package tierfee

import (
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/curvedb"
	"github.com/lightninglabs/tierfee/hook"
	"github.com/lightningnetwork/lnd/build"
)

const Subsystem = "TIER"

var (
	logWriter = build.NewRotatingLogWriter()
	log       = build.NewSubLogger(Subsystem, nil)
)

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.RotatingLogWriter) {
	genLogger := genSubLogger(root)

	logWriter = root
	log = build.NewSubLogger(Subsystem, genLogger)

	setSubLogger(root, Subsystem, log, nil)
	addSubLogger(root, curve.Subsystem, genLogger, curve.UseLogger)
	addSubLogger(root, hook.Subsystem, genLogger, hook.UseLogger)
	addSubLogger(root, curvedb.Subsystem, genLogger, curvedb.UseLogger)
}

// InitLogging creates a log writer for all subsystems, starts writing to the
// log file in the configured directory and applies the configured debug
// levels.
func InitLogging(cfg *Config) (*build.RotatingLogWriter, error) {
	root := build.NewRotatingLogWriter()
	SetupLoggers(root)

	err := root.InitLogRotator(
		filepath.Join(cfg.LogDir, DefaultLogFilename),
		cfg.MaxLogFileSize, cfg.MaxLogFiles,
	)
	if err != nil {
		return nil, err
	}

	err = build.ParseAndSetDebugLevels(cfg.DebugLevel, root)
	if err != nil {
		return nil, err
	}

	return root, nil
}

// genSubLogger creates a logger for a subsystem. There is no daemon to shut
// down on a critical error, so the loggers are created without a shutdown
// function.
func genSubLogger(root *build.RotatingLogWriter) func(string) btclog.Logger {
	return func(tag string) btclog.Logger {
		return root.GenSubLogger(tag, func() {})
	}
}

// addSubLogger is a helper method to conveniently create and register the
// logger of a sub system.
func addSubLogger(root *build.RotatingLogWriter, subsystem string,
	genLogger func(string) btclog.Logger, useLogger func(btclog.Logger)) {

	logger := build.NewSubLogger(subsystem, genLogger)
	setSubLogger(root, subsystem, logger, useLogger)
}

// setSubLogger is a helper method to conveniently register the logger of a sub
// system.
func setSubLogger(root *build.RotatingLogWriter, subsystem string,
	logger btclog.Logger, useLogger func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	if useLogger != nil {
		useLogger(logger)
	}
}

// SupportedSubsystems returns the names of all subsystems that have a logger
// registered with the current log writer.
func SupportedSubsystems() []string {
	return logWriter.SupportedSubsystems()
}
