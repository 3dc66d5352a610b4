package tierfee

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/internal/test"
	"github.com/stretchr/testify/require"
)

const testConfigFile = `
[Application Options]
permissivefees=true

[curve]
curve.defaultfee=10000
curve.fee0min=9000
curve.fee0max=5000
curve.min0=1000
curve.max0=2000
curve.fee1min=8000
curve.fee1max=8000
curve.min1=50
curve.max1=100
`

// TestDefaultConfig makes sure the default config describes the reference
// curve.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(&cfg))

	curveCfg, err := cfg.CurveConfig()
	require.NoError(t, err)
	require.Equal(t, test.ReferenceConfig(), curveCfg)

	engine, err := cfg.NewEngine()
	require.NoError(t, err)
	require.Equal(t, curve.FeeOrderingStrict, engine.Ordering())
}

// TestLoadConfig makes sure a curve can be read from an ini file.
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(testConfigFile), 0600))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfig(path, &cfg))
	require.True(t, cfg.PermissiveFees)

	curveCfg, err := cfg.CurveConfig()
	require.NoError(t, err)

	expected := test.AsymmetricConfig()
	expected.Side1.FeeAtMaxAmount = expected.Side1.FeeAtMinAmount
	require.Equal(t, expected, curveCfg)

	// The equal fees of side1 are only accepted because of the permissive
	// ordering.
	engine, err := cfg.NewEngine()
	require.NoError(t, err)
	require.Equal(t, curve.FeeOrderingPermissive, engine.Ordering())

	cfg.PermissiveFees = false
	_, err = cfg.NewEngine()
	require.True(t, errors.Is(err, curve.ErrInvalidFees))

	err = LoadConfig(filepath.Join(dir, "missing.conf"), &cfg)
	require.Error(t, err)
}

// TestCurveConfigAmounts makes sure invalid amounts are rejected with the name
// of the offending field.
func TestCurveConfigAmounts(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *CurveConfig)
		err    string
	}{{
		name: "negative amount",
		modify: func(c *CurveConfig) {
			c.Min0 = "-1"
		},
		err: "invalid min0",
	}, {
		name: "missing amount",
		modify: func(c *CurveConfig) {
			c.Max1 = ""
		},
		err: "invalid max1",
	}, {
		name: "amount beyond 256 bits",
		modify: func(c *CurveConfig) {
			c.Max0 = "1" + c.Max0 + c.Max0 + c.Max0 + c.Max0
		},
		err: "invalid max0",
	}, {
		name: "hex amount",
		modify: func(c *CurveConfig) {
			c.Min1 = "0x10"
		},
		err: "invalid min1",
	}}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.modify(cfg.Curve)

		_, err := cfg.CurveConfig()
		require.Error(t, err, tc.name)
		require.Contains(t, err.Error(), tc.err, tc.name)
	}

	// A valid amount larger than 64 bits is accepted.
	amt, err := ParseAmount(
		"115792089237316195423570985008687907853269984665640564039457" +
			"584007913129639935",
	)
	require.NoError(t, err)
	require.Equal(t, 256, amt.BitLen())
}

// TestValidate makes sure paths follow the base dir and invalid log options
// are rejected.
func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = "/tmp/tierfee-test"
	require.NoError(t, Validate(&cfg))
	require.Equal(t, "/tmp/tierfee-test/logs", cfg.LogDir)
	require.Equal(
		t, "/tmp/tierfee-test/"+DefaultConfigFilename, cfg.ConfigFile,
	)

	cfg = DefaultConfig()
	cfg.MaxLogFiles = -1
	require.Error(t, Validate(&cfg))

	cfg = DefaultConfig()
	cfg.MaxLogFileSize = 0
	require.Error(t, Validate(&cfg))

	cfg = DefaultConfig()
	cfg.Curve = nil
	require.Error(t, Validate(&cfg))
	_, err := cfg.CurveConfig()
	require.Error(t, err)
}
