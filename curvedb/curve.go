package curvedb

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/lightninglabs/tierfee/curve"
	"github.com/lightninglabs/tierfee/terms"
	"github.com/lightningnetwork/lnd/tlv"
	"go.etcd.io/bbolt"
)

const (
	defaultFeeType tlv.Type = 0

	side0FeeAtMinType  tlv.Type = 1
	side0FeeAtMaxType  tlv.Type = 2
	side0MinAmountType tlv.Type = 3
	side0MaxAmountType tlv.Type = 4

	side1FeeAtMinType  tlv.Type = 5
	side1FeeAtMaxType  tlv.Type = 6
	side1MinAmountType tlv.Type = 7
	side1MaxAmountType tlv.Type = 8

	feeOrderingType tlv.Type = 9
	digestType      tlv.Type = 10
)

var (
	// curveBucketKey is the top level bucket where we can find all fee
	// curves. The curves are indexed by the ID of the pool they price.
	curveBucketKey = []byte("curves")

	// ErrCurveNotFound is an error returned when we attempt to retrieve
	// the fee curve of a pool that has none stored.
	ErrCurveNotFound = errors.New("fee curve not found")

	// ErrDigestMismatch is returned when a stored fee curve does not match
	// the digest it was stored with.
	ErrDigestMismatch = errors.New("fee curve digest mismatch")
)

// StoreCurve stores the configuration of the given engine as the fee curve of
// a pool, replacing any curve stored before. Since an engine can only be
// created from a valid configuration, no invalid curve is ever persisted.
func (db *DB) StoreCurve(poolID common.Hash, engine *curve.Engine) error {
	cfg := engine.Config()
	digest, err := cfg.Digest()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = serializeCurve(&buf, &cfg, engine.Ordering(), digest)
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		curves, err := getBucket(tx, curveBucketKey)
		if err != nil {
			return err
		}

		return curves.Put(poolID[:], buf.Bytes())
	})
	if err != nil {
		return err
	}

	log.Debugf("Stored fee curve %x for pool %v", digest[:], poolID)

	return nil
}

// Curve retrieves the fee curve of a pool or returns ErrCurveNotFound if there
// is none.
func (db *DB) Curve(poolID common.Hash) (*curve.Engine, error) {
	var engine *curve.Engine
	err := db.View(func(tx *bbolt.Tx) error {
		curves, err := getBucket(tx, curveBucketKey)
		if err != nil {
			return err
		}

		engine, err = readCurve(curves, poolID[:])
		return err
	})
	if err != nil {
		return nil, err
	}

	return engine, nil
}

// Curves retrieves all stored fee curves indexed by pool ID.
func (db *DB) Curves() (map[common.Hash]*curve.Engine, error) {
	res := make(map[common.Hash]*curve.Engine)
	err := db.View(func(tx *bbolt.Tx) error {
		curves, err := getBucket(tx, curveBucketKey)
		if err != nil {
			return err
		}

		return curves.ForEach(func(k, v []byte) error {
			// We'll also get buckets here, skip those (identified
			// by nil value).
			if v == nil {
				return nil
			}

			engine, err := readCurve(curves, k)
			if err != nil {
				return err
			}
			res[common.BytesToHash(k)] = engine
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// DeleteCurve removes the fee curve of a pool.
func (db *DB) DeleteCurve(poolID common.Hash) error {
	return db.Update(func(tx *bbolt.Tx) error {
		curves, err := getBucket(tx, curveBucketKey)
		if err != nil {
			return err
		}

		if curves.Get(poolID[:]) == nil {
			return ErrCurveNotFound
		}

		return curves.Delete(poolID[:])
	})
}

// readCurve reads a fee curve from the given bucket and validates it again.
func readCurve(sourceBucket *bbolt.Bucket, poolID []byte) (*curve.Engine,
	error) {

	curveBytes := sourceBucket.Get(poolID)
	if curveBytes == nil {
		return nil, ErrCurveNotFound
	}

	cfg, ordering, digest, err := deserializeCurve(
		bytes.NewReader(curveBytes),
	)
	if err != nil {
		return nil, err
	}

	expected, err := cfg.Digest()
	if err != nil {
		return nil, err
	}
	if expected != digest {
		return nil, fmt.Errorf("%w: pool %x stored %x, computed %x",
			ErrDigestMismatch, poolID, digest[:], expected[:])
	}

	return curve.New(*cfg, curve.WithFeeOrdering(ordering))
}

func serializeCurve(w io.Writer, cfg *curve.Config,
	ordering curve.FeeOrdering, digest [32]byte) error {

	var (
		defaultFee = uint32(cfg.DefaultFee)
		fee0Min    = uint32(cfg.Side0.FeeAtMinAmount)
		fee0Max    = uint32(cfg.Side0.FeeAtMaxAmount)
		min0       = cfg.Side0.MinAmount.Bytes32()
		max0       = cfg.Side0.MaxAmount.Bytes32()
		fee1Min    = uint32(cfg.Side1.FeeAtMinAmount)
		fee1Max    = uint32(cfg.Side1.FeeAtMaxAmount)
		min1       = cfg.Side1.MinAmount.Bytes32()
		max1       = cfg.Side1.MaxAmount.Bytes32()
		order      = uint8(ordering)
	)

	tlvStream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(defaultFeeType, &defaultFee),
		tlv.MakePrimitiveRecord(side0FeeAtMinType, &fee0Min),
		tlv.MakePrimitiveRecord(side0FeeAtMaxType, &fee0Max),
		tlv.MakePrimitiveRecord(side0MinAmountType, &min0),
		tlv.MakePrimitiveRecord(side0MaxAmountType, &max0),
		tlv.MakePrimitiveRecord(side1FeeAtMinType, &fee1Min),
		tlv.MakePrimitiveRecord(side1FeeAtMaxType, &fee1Max),
		tlv.MakePrimitiveRecord(side1MinAmountType, &min1),
		tlv.MakePrimitiveRecord(side1MaxAmountType, &max1),
		tlv.MakePrimitiveRecord(feeOrderingType, &order),
		tlv.MakePrimitiveRecord(digestType, &digest),
	)
	if err != nil {
		return err
	}

	return tlvStream.Encode(w)
}

func deserializeCurve(r io.Reader) (*curve.Config, curve.FeeOrdering,
	[32]byte, error) {

	var (
		defaultFee, fee0Min, fee0Max, fee1Min, fee1Max uint32
		min0, max0, min1, max1, digest                 [32]byte
		order                                          uint8
	)

	tlvStream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(defaultFeeType, &defaultFee),
		tlv.MakePrimitiveRecord(side0FeeAtMinType, &fee0Min),
		tlv.MakePrimitiveRecord(side0FeeAtMaxType, &fee0Max),
		tlv.MakePrimitiveRecord(side0MinAmountType, &min0),
		tlv.MakePrimitiveRecord(side0MaxAmountType, &max0),
		tlv.MakePrimitiveRecord(side1FeeAtMinType, &fee1Min),
		tlv.MakePrimitiveRecord(side1FeeAtMaxType, &fee1Max),
		tlv.MakePrimitiveRecord(side1MinAmountType, &min1),
		tlv.MakePrimitiveRecord(side1MaxAmountType, &max1),
		tlv.MakePrimitiveRecord(feeOrderingType, &order),
		tlv.MakePrimitiveRecord(digestType, &digest),
	)
	if err != nil {
		return nil, 0, digest, err
	}

	if err := tlvStream.Decode(r); err != nil {
		return nil, 0, digest, err
	}

	cfg := &curve.Config{
		DefaultFee: terms.FeeRate(defaultFee),
		Side0: curve.SideParams{
			FeeAtMinAmount: terms.FeeRate(fee0Min),
			FeeAtMaxAmount: terms.FeeRate(fee0Max),
			MinAmount:      *new(uint256.Int).SetBytes32(min0[:]),
			MaxAmount:      *new(uint256.Int).SetBytes32(max0[:]),
		},
		Side1: curve.SideParams{
			FeeAtMinAmount: terms.FeeRate(fee1Min),
			FeeAtMaxAmount: terms.FeeRate(fee1Max),
			MinAmount:      *new(uint256.Int).SetBytes32(min1[:]),
			MaxAmount:      *new(uint256.Int).SetBytes32(max1[:]),
		},
	}

	return cfg, curve.FeeOrdering(order), digest, nil
}
