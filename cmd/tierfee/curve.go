package main

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/urfave/cli"
)

type sideParams struct {
	FeeAtMinAmount uint32 `json:"fee_at_min_amount"`
	FeeAtMaxAmount uint32 `json:"fee_at_max_amount"`
	MinAmount      string `json:"min_amount"`
	MaxAmount      string `json:"max_amount"`
}

type curveParams struct {
	Digest     string     `json:"digest"`
	Ordering   string     `json:"fee_ordering"`
	DefaultFee uint32     `json:"default_fee"`
	Side0      sideParams `json:"side0"`
	Side1      sideParams `json:"side1"`
}

func newSideParams(p *curve.SideParams) sideParams {
	return sideParams{
		FeeAtMinAmount: uint32(p.FeeAtMinAmount),
		FeeAtMaxAmount: uint32(p.FeeAtMaxAmount),
		MinAmount:      p.MinAmount.Dec(),
		MaxAmount:      p.MaxAmount.Dec(),
	}
}

func newCurveParams(engine *curve.Engine) (*curveParams, error) {
	cfg := engine.Config()
	digest, err := cfg.Digest()
	if err != nil {
		return nil, err
	}

	return &curveParams{
		Digest:     fmt.Sprintf("%x", digest[:]),
		Ordering:   engine.Ordering().String(),
		DefaultFee: uint32(cfg.DefaultFee),
		Side0:      newSideParams(&cfg.Side0),
		Side1:      newSideParams(&cfg.Side1),
	}, nil
}

var validateCommand = cli.Command{
	Name:  "validate",
	Usage: "validate the fee curve of the config file",
	Description: "Loads the fee curve from the config file, runs all " +
		"construction checks against it and prints its parameters " +
		"together with their digest",
	Action: validateCurve,
}

func validateCurve(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	params, err := newCurveParams(engine)
	if err != nil {
		return err
	}

	printJSON(params)

	return nil
}

type quoteResponse struct {
	Side       string `json:"side"`
	Volume     string `json:"volume"`
	Tier       string `json:"tier"`
	FeeRate    uint32 `json:"fee_rate"`
	FeePercent string `json:"fee_percent"`
}

var quoteCommand = cli.Command{
	Name:      "quote",
	ShortName: "q",
	Usage:     "price a single swap",
	ArgsUsage: "amount",
	Description: "Prices a swap against the fee curve of the config " +
		"file or, if a pool ID is given, against the curve stored " +
		"for that pool. A negative amount denotes an exact input " +
		"swap, a positive amount an exact output swap.",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "zeroforone",
			Usage: "swap currency0 for currency1",
		},
		cli.StringFlag{
			Name:  "amount",
			Usage: "the signed amount specified for the swap",
		},
		poolIDFlag,
	},
	Action: quote,
}

func quote(ctx *cli.Context) error {
	cmd := "quote"
	amtStr, err := parseStr(ctx, 0, "amount", cmd)
	if err != nil {
		return err
	}
	amt, ok := new(big.Int).SetString(amtStr, 10)
	if !ok {
		return fmt.Errorf("invalid amount %q", amtStr)
	}

	var engine *curve.Engine
	if ctx.IsSet(poolIDFlag.Name) {
		poolID, err := parsePoolID(ctx, 1, cmd)
		if err != nil {
			return err
		}

		_, db, cleanup, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		engine, err = db.Curve(poolID)
		if err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		engine, err = cfg.NewEngine()
		if err != nil {
			return err
		}
	}

	q := engine.Quote(ctx.Bool("zeroforone"), amt)
	printJSON(&quoteResponse{
		Side:       q.Side.String(),
		Volume:     q.Volume.Dec(),
		Tier:       q.Tier.String(),
		FeeRate:    uint32(q.Fee),
		FeePercent: q.Fee.Percent().String(),
	})

	return nil
}

type tableEntry struct {
	Volume     string `json:"volume"`
	Tier       string `json:"tier"`
	FeeRate    uint32 `json:"fee_rate"`
	FeePercent string `json:"fee_percent"`
}

var tableCommand = cli.Command{
	Name:  "table",
	Usage: "sample the fee curve of one side",
	Description: "Evaluates the fee curve of the config file at evenly " +
		"spaced volumes from zero to one quarter beyond the maximum " +
		"amount, always including both thresholds",
	Flags: []cli.Flag{
		cli.UintFlag{
			Name:  "side",
			Usage: "the side to sample, 0 or 1",
		},
		cli.UintFlag{
			Name:  "steps",
			Usage: "the number of samples between zero and the end",
			Value: 20,
		},
	},
	Action: table,
}

func table(ctx *cli.Context) error {
	var side curve.Side
	switch ctx.Uint("side") {
	case 0:
		side = curve.Side0
	case 1:
		side = curve.Side1
	default:
		return fmt.Errorf("invalid side %d", ctx.Uint("side"))
	}

	steps := ctx.Uint("steps")
	if steps == 0 {
		return fmt.Errorf("steps must be positive")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	curveCfg := engine.Config()
	params := curveCfg.Params(side)

	entries := make([]tableEntry, 0, steps+3)
	for _, volume := range sampleVolumes(&params, steps) {
		fee, tier := curve.Evaluate(volume, &params, curveCfg.DefaultFee)
		entries = append(entries, newTableEntry(volume, tier, fee))
	}

	printJSON(entries)

	return nil
}

// sampleVolumes returns steps+1 evenly spaced volumes from zero to 5/4 of the
// maximum amount plus both thresholds, in ascending order.
func sampleVolumes(p *curve.SideParams, steps uint) []*uint256.Int {
	end, overflow := new(uint256.Int).MulDivOverflow(
		&p.MaxAmount, uint256.NewInt(5), uint256.NewInt(4),
	)
	if overflow {
		end.SetAllOne()
	}

	volumes := []*uint256.Int{
		new(uint256.Int).Set(&p.MinAmount),
		new(uint256.Int).Set(&p.MaxAmount),
	}
	for i := uint(0); i <= steps; i++ {
		volume, _ := new(uint256.Int).MulDivOverflow(
			end, uint256.NewInt(uint64(i)),
			uint256.NewInt(uint64(steps)),
		)
		volumes = append(volumes, volume)
	}

	sort.Slice(volumes, func(i, j int) bool {
		return volumes[i].Lt(volumes[j])
	})

	// Drop duplicates the thresholds may have introduced.
	unique := volumes[:1]
	for _, volume := range volumes[1:] {
		if !volume.Eq(unique[len(unique)-1]) {
			unique = append(unique, volume)
		}
	}

	return unique
}

func newTableEntry(volume *uint256.Int, tier curve.Tier,
	fee terms.FeeRate) tableEntry {

	return tableEntry{
		Volume:     volume.Dec(),
		Tier:       tier.String(),
		FeeRate:    uint32(fee),
		FeePercent: fee.Percent().String(),
	}
}
