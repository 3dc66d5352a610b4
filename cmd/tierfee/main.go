package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/lightninglabs/tierfee"
	"github.com/lightninglabs/tierfee/curvedb"
	"github.com/lightningnetwork/lnd/lncfg"
	"github.com/urfave/cli"
)

var (
	baseDirFlag = cli.StringFlag{
		Name:  "basedir",
		Value: tierfee.DefaultBaseDir,
		Usage: "path to tierfee's base directory",
	}
	configFileFlag = cli.StringFlag{
		Name: "configfile",
		Usage: "path to the config file holding the fee curve, " +
			"defaults to tierfee.conf in the base directory",
	}
	debugLevelFlag = cli.StringFlag{
		Name:  "debuglevel",
		Usage: "logging level for all subsystems",
	}
	poolIDFlag = cli.StringFlag{
		Name:  "poolid",
		Usage: "the hex encoded 32 byte ID of the pool",
	}
)

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func printJSON(resp interface{}) {
	b, err := json.Marshal(resp)
	if err != nil {
		fatal(err)
	}

	var out bytes.Buffer
	_ = json.Indent(&out, b, "", "\t")
	out.WriteString("\n")
	_, _ = out.WriteTo(os.Stdout)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[tierfee] %v\n", err)
	}
	os.Exit(1)
}

func main() {
	app := cli.NewApp()

	app.Version = tierfee.Version()
	app.Name = "tierfee"
	app.Usage = "validate, quote and manage volume-tiered fee curves"
	app.Flags = []cli.Flag{
		baseDirFlag,
		configFileFlag,
		debugLevelFlag,
	}
	app.Commands = append(app.Commands, validateCommand)
	app.Commands = append(app.Commands, quoteCommand)
	app.Commands = append(app.Commands, tableCommand)
	app.Commands = append(app.Commands, curvesCommands...)
	app.Commands = append(app.Commands, poolIDCommand)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// loadConfig assembles the tierfee config from the defaults, the config file
// and the global flags and starts logging.
func loadConfig(ctx *cli.Context) (*tierfee.Config, error) {
	var configFile string
	if ctx.GlobalIsSet(configFileFlag.Name) {
		configFile = ctx.GlobalString(configFileFlag.Name)
	}

	cfg, err := buildConfig(
		ctx.GlobalString(baseDirFlag.Name), configFile,
		ctx.GlobalString(debugLevelFlag.Name),
	)
	if err != nil {
		return nil, err
	}

	if _, err := tierfee.InitLogging(cfg); err != nil {
		return nil, fmt.Errorf("unable to initialize logging: %w", err)
	}

	return cfg, nil
}

// buildConfig creates the config for the given base directory. An empty
// configFile selects tierfee.conf in the base directory, which may be absent,
// in which case the default curve is used. An explicitly given config file
// must exist. A non-empty debugLevel overrides the one of the config file.
func buildConfig(baseDir, configFile, debugLevel string) (*tierfee.Config,
	error) {

	cfg := tierfee.DefaultConfig()
	cfg.BaseDir = lncfg.CleanAndExpandPath(baseDir)

	// A custom base directory also moves the default config file unless
	// the file was set explicitly.
	explicitFile := configFile != ""
	cfg.ConfigFile = filepath.Join(cfg.BaseDir, tierfee.DefaultConfigFilename)
	if explicitFile {
		cfg.ConfigFile = lncfg.CleanAndExpandPath(configFile)
	}

	_, err := os.Stat(cfg.ConfigFile)
	switch {
	case err == nil:
		if err := tierfee.LoadConfig(cfg.ConfigFile, &cfg); err != nil {
			return nil, err
		}

	case os.IsNotExist(err) && !explicitFile:

	default:
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if debugLevel != "" {
		cfg.DebugLevel = debugLevel
	}

	if err := tierfee.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// openDB loads the config and opens the curve registry in the base
// directory.
func openDB(ctx *cli.Context) (*tierfee.Config, *curvedb.DB, func(), error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := curvedb.New(cfg.BaseDir, curvedb.DBFilename)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	return cfg, db, cleanup, nil
}

func parseStr(ctx *cli.Context, argIdx int, flag, cmd string) (string, error) {
	var str string
	switch {
	case ctx.IsSet(flag):
		str = ctx.String(flag)
	case ctx.Args().Get(argIdx) != "":
		str = ctx.Args().Get(argIdx)
	default:
		return "", &invalidUsageError{ctx, cmd}
	}
	return str, nil
}

// parsePoolID parses a pool ID given either as flag or as positional
// argument.
func parsePoolID(ctx *cli.Context, argIdx int, cmd string) (common.Hash,
	error) {

	idStr, err := parseStr(ctx, argIdx, poolIDFlag.Name, cmd)
	if err != nil {
		return common.Hash{}, err
	}

	return decodePoolID(idStr)
}

// decodePoolID decodes a hex encoded 32 byte pool ID with or without 0x
// prefix.
func decodePoolID(idStr string) (common.Hash, error) {
	if !strings.HasPrefix(strings.ToLower(idStr), "0x") {
		idStr = "0x" + idStr
	}

	idBytes, err := hexutil.Decode(idStr)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid pool ID: %w", err)
	}
	if len(idBytes) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid pool ID length %d, "+
			"expected %d", len(idBytes), common.HashLength)
	}

	return common.BytesToHash(idBytes), nil
}
