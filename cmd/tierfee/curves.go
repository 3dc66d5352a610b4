package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lightninglabs/tierfee/hook"
	"github.com/urfave/cli"
)

var curvesCommands = []cli.Command{
	{
		Name:      "curves",
		ShortName: "c",
		Usage:     "manage the fee curves stored per pool",
		Category:  "Registry",
		Subcommands: []cli.Command{
			addCurveCommand,
			listCurvesCommand,
			showCurveCommand,
			deleteCurveCommand,
		},
	},
}

type storedCurve struct {
	PoolID string       `json:"pool_id"`
	Curve  *curveParams `json:"curve"`
}

var addCurveCommand = cli.Command{
	Name:      "add",
	ShortName: "a",
	Usage:     "store the fee curve of the config file for a pool",
	ArgsUsage: "poolid",
	Description: "Validates the fee curve of the config file and stores " +
		"it as the curve of the given pool, replacing any curve " +
		"stored before",
	Flags: []cli.Flag{
		poolIDFlag,
	},
	Action: addCurve,
}

func addCurve(ctx *cli.Context) error {
	poolID, err := parsePoolID(ctx, 0, "add")
	if err != nil {
		return err
	}

	cfg, db, cleanup, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	if err := db.StoreCurve(poolID, engine); err != nil {
		return err
	}

	params, err := newCurveParams(engine)
	if err != nil {
		return err
	}

	printJSON(&storedCurve{
		PoolID: poolID.Hex(),
		Curve:  params,
	})

	return nil
}

var listCurvesCommand = cli.Command{
	Name:        "list",
	ShortName:   "l",
	Usage:       "list all stored fee curves",
	Description: "Lists the fee curves of all pools in the registry",
	Action:      listCurves,
}

func listCurves(ctx *cli.Context) error {
	_, db, cleanup, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	curves, err := db.Curves()
	if err != nil {
		return err
	}

	resp := make([]*storedCurve, 0, len(curves))
	for poolID, engine := range curves {
		params, err := newCurveParams(engine)
		if err != nil {
			return err
		}
		resp = append(resp, &storedCurve{
			PoolID: poolID.Hex(),
			Curve:  params,
		})
	}
	sortCurves(resp)

	printJSON(resp)

	return nil
}

var showCurveCommand = cli.Command{
	Name:      "show",
	ShortName: "s",
	Usage:     "show the fee curve of a pool",
	ArgsUsage: "poolid",
	Flags: []cli.Flag{
		poolIDFlag,
	},
	Action: showCurve,
}

func showCurve(ctx *cli.Context) error {
	poolID, err := parsePoolID(ctx, 0, "show")
	if err != nil {
		return err
	}

	_, db, cleanup, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	engine, err := db.Curve(poolID)
	if err != nil {
		return err
	}

	params, err := newCurveParams(engine)
	if err != nil {
		return err
	}

	printJSON(&storedCurve{
		PoolID: poolID.Hex(),
		Curve:  params,
	})

	return nil
}

var deleteCurveCommand = cli.Command{
	Name:      "delete",
	ShortName: "d",
	Usage:     "remove the fee curve of a pool",
	ArgsUsage: "poolid",
	Flags: []cli.Flag{
		poolIDFlag,
	},
	Action: deleteCurve,
}

func deleteCurve(ctx *cli.Context) error {
	poolID, err := parsePoolID(ctx, 0, "delete")
	if err != nil {
		return err
	}

	_, db, cleanup, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return db.DeleteCurve(poolID)
}

var poolIDCommand = cli.Command{
	Name:      "poolid",
	Usage:     "compute the ID of a pool",
	ArgsUsage: "currency0 currency1 fee tickspacing hooks",
	Description: "Computes the ID of the pool identified by the given " +
		"key. Use a fee of 8388608 for pools with dynamic fees.",
	Action: poolID,
}

func poolID(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) != 5 {
		return &invalidUsageError{ctx, "poolid"}
	}

	for _, addr := range []string{args[0], args[1], args[4]} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid address %q", addr)
		}
	}
	fee, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid fee: %v", err)
	}
	tickSpacing, err := strconv.ParseInt(args[3], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid tick spacing: %v", err)
	}

	key := hook.PoolKey{
		Currency0:   common.HexToAddress(args[0]),
		Currency1:   common.HexToAddress(args[1]),
		Fee:         uint32(fee),
		TickSpacing: int32(tickSpacing),
		Hooks:       common.HexToAddress(args[4]),
	}

	printJSON(map[string]interface{}{
		"pool_id":     key.ID().Hex(),
		"dynamic_fee": key.IsDynamicFee(),
	})

	return nil
}

func sortCurves(curves []*storedCurve) {
	sort.Slice(curves, func(i, j int) bool {
		return curves[i].PoolID < curves[j].PoolID
	})
}
