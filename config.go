package tierfee

import (
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/holiman/uint256"
	"github.com/jessevdk/go-flags"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/lightningnetwork/lnd/lncfg"
)

var (
	// DefaultBaseDir is the default root data directory where tierfee will
	// store all its data. On UNIX like systems this will resolve to
	// ~/.tierfee. Below this directory the logs and the curve database will
	// be created.
	DefaultBaseDir = btcutil.AppDataDir("tierfee", false)

	// DefaultConfigFilename is the default name of the config file that
	// holds the fee curve parameters.
	DefaultConfigFilename = "tierfee.conf"

	// DefaultLogFilename is the default name that is given to the tierfee
	// log file.
	DefaultLogFilename = "tierfee.log"

	defaultLogLevel   = "info"
	defaultLogDirname = "logs"
	defaultLogDir     = filepath.Join(DefaultBaseDir, defaultLogDirname)

	defaultConfigFile = filepath.Join(DefaultBaseDir, DefaultConfigFilename)

	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
)

// CurveConfig holds the nine parameters of a fee curve as they are read from
// the command line or the config file. Amounts are decimal strings since they
// may exceed 64 bits.
type CurveConfig struct {
	DefaultFee uint32 `long:"defaultfee" description:"Fee in pips charged below the minimum amount of the relevant side"`

	Fee0Min uint32 `long:"fee0min" description:"Fee in pips at the minimum amount of currency0"`
	Fee0Max uint32 `long:"fee0max" description:"Fee in pips at or above the maximum amount of currency0"`
	Min0    string `long:"min0" description:"Minimum amount of currency0 from which on the tiered fees apply"`
	Max0    string `long:"max0" description:"Amount of currency0 from which on the fee at the maximum amount applies"`

	Fee1Min uint32 `long:"fee1min" description:"Fee in pips at the minimum amount of currency1"`
	Fee1Max uint32 `long:"fee1max" description:"Fee in pips at or above the maximum amount of currency1"`
	Min1    string `long:"min1" description:"Minimum amount of currency1 from which on the tiered fees apply"`
	Max1    string `long:"max1" description:"Amount of currency1 from which on the fee at the maximum amount applies"`
}

// Config is the main configuration of tierfee.
type Config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	BaseDir     string `long:"basedir" description:"The base directory where tierfee stores all its data"`
	ConfigFile  string `long:"configfile" description:"Path to the config file holding the fee curve"`

	LogDir         string `long:"logdir" description:"Directory to log output."`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`

	PermissiveFees bool `long:"permissivefees" description:"Accept a fee at the maximum amount that equals the fee at the minimum amount"`

	Curve *CurveConfig `group:"curve" namespace:"curve"`
}

// DefaultConfig returns all default values for the Config struct. The default
// curve charges 0.3% below 1e18 units, 0.27% at 1e18 and 0.24% from 10e18
// units on, for both currencies.
func DefaultConfig() Config {
	return Config{
		BaseDir:        DefaultBaseDir,
		ConfigFile:     defaultConfigFile,
		LogDir:         defaultLogDir,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		DebugLevel:     defaultLogLevel,
		Curve: &CurveConfig{
			DefaultFee: 3000,
			Fee0Min:    2700,
			Fee0Max:    2400,
			Min0:       "1000000000000000000",
			Max0:       "10000000000000000000",
			Fee1Min:    2700,
			Fee1Max:    2400,
			Min1:       "1000000000000000000",
			Max1:       "10000000000000000000",
		},
	}
}

// LoadConfig reads the ini formatted config file at the given path into cfg.
// Values not present in the file are left untouched.
func LoadConfig(path string, cfg *Config) error {
	if err := flags.IniParse(path, cfg); err != nil {
		return fmt.Errorf("unable to parse config file %v: %w", path,
			err)
	}

	return nil
}

// Validate cleans up paths in the config provided and validates it.
func Validate(cfg *Config) error {
	// Cleanup any paths before we use them.
	cfg.BaseDir = lncfg.CleanAndExpandPath(cfg.BaseDir)
	cfg.ConfigFile = lncfg.CleanAndExpandPath(cfg.ConfigFile)
	cfg.LogDir = lncfg.CleanAndExpandPath(cfg.LogDir)

	// Since our log dir defaults to the default base dir, we need to
	// update it if the base dir was changed but the log dir left alone.
	if cfg.BaseDir != DefaultBaseDir && cfg.LogDir == defaultLogDir {
		cfg.LogDir = filepath.Join(cfg.BaseDir, defaultLogDirname)
	}
	if cfg.BaseDir != DefaultBaseDir &&
		cfg.ConfigFile == defaultConfigFile {

		cfg.ConfigFile = filepath.Join(
			cfg.BaseDir, DefaultConfigFilename,
		)
	}

	if cfg.MaxLogFiles < 0 {
		return fmt.Errorf("maxlogfiles must not be negative")
	}
	if cfg.MaxLogFileSize <= 0 {
		return fmt.Errorf("maxlogfilesize must be positive")
	}

	if cfg.Curve == nil {
		return fmt.Errorf("curve config missing")
	}

	return nil
}

// FeeOrdering returns the fee ordering selected by the config.
func (c *Config) FeeOrdering() curve.FeeOrdering {
	if c.PermissiveFees {
		return curve.FeeOrderingPermissive
	}

	return curve.DefaultFeeOrdering
}

// CurveConfig converts the curve parameters into a curve.Config. The result
// is not validated yet.
func (c *Config) CurveConfig() (curve.Config, error) {
	var cfg curve.Config
	if c.Curve == nil {
		return cfg, fmt.Errorf("curve config missing")
	}

	amounts := []struct {
		name   string
		value  string
		target *uint256.Int
	}{
		{"min0", c.Curve.Min0, &cfg.Side0.MinAmount},
		{"max0", c.Curve.Max0, &cfg.Side0.MaxAmount},
		{"min1", c.Curve.Min1, &cfg.Side1.MinAmount},
		{"max1", c.Curve.Max1, &cfg.Side1.MaxAmount},
	}
	for _, amt := range amounts {
		parsed, err := ParseAmount(amt.value)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", amt.name, err)
		}
		*amt.target = *parsed
	}

	cfg.DefaultFee = terms.FeeRate(c.Curve.DefaultFee)
	cfg.Side0.FeeAtMinAmount = terms.FeeRate(c.Curve.Fee0Min)
	cfg.Side0.FeeAtMaxAmount = terms.FeeRate(c.Curve.Fee0Max)
	cfg.Side1.FeeAtMinAmount = terms.FeeRate(c.Curve.Fee1Min)
	cfg.Side1.FeeAtMaxAmount = terms.FeeRate(c.Curve.Fee1Max)

	return cfg, nil
}

// NewEngine creates a fee curve engine from the config.
func (c *Config) NewEngine() (*curve.Engine, error) {
	cfg, err := c.CurveConfig()
	if err != nil {
		return nil, err
	}

	return curve.New(cfg, curve.WithFeeOrdering(c.FeeOrdering()))
}

// ParseAmount parses a non-negative decimal amount of up to 256 bits.
func ParseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("amount missing")
	}

	return uint256.FromDecimal(s)
}
