package hook

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// DynamicFeeFlag marks the fee field of a pool key as dynamic, meaning
	// the LP fee is provided by the hook instead of being static.
	DynamicFeeFlag uint32 = 0x800000

	// OverrideFeeFlag is set on the fee returned from a before swap
	// callback to signal that the returned value replaces the pool's fee
	// for that swap.
	OverrideFeeFlag uint32 = 0x400000

	// MaxLPFee is the largest LP fee the host accepts, 100% in pips.
	MaxLPFee uint32 = 1_000_000
)

// PoolKey uniquely identifies a pool of the host.
type PoolKey struct {
	// Currency0 is the lower currency of the pool, sorted numerically.
	Currency0 common.Address

	// Currency1 is the higher currency of the pool.
	Currency1 common.Address

	// Fee is the 24-bit LP fee of the pool or DynamicFeeFlag.
	Fee uint32

	// TickSpacing is the 24-bit signed tick spacing of the pool.
	TickSpacing int32

	// Hooks is the address of the pool's hook contract.
	Hooks common.Address
}

// IsDynamicFee returns true if the pool's fee is provided by its hook.
func (k PoolKey) IsDynamicFee() bool {
	return k.Fee == DynamicFeeFlag
}

// ID returns the pool ID, the keccak256 hash of the ABI encoded key.
func (k PoolKey) ID() common.Hash {
	tickSpacing := new(big.Int).SetInt64(int64(k.TickSpacing))

	return crypto.Keccak256Hash(
		common.LeftPadBytes(k.Currency0.Bytes(), 32),
		common.LeftPadBytes(k.Currency1.Bytes(), 32),
		common.LeftPadBytes(new(big.Int).SetUint64(
			uint64(k.Fee),
		).Bytes(), 32),
		signExtend(tickSpacing),
		common.LeftPadBytes(k.Hooks.Bytes(), 32),
	)
}

// String returns a short human readable representation of the key.
func (k PoolKey) String() string {
	return fmt.Sprintf("%v/%v (fee=%#x, tick_spacing=%d, hooks=%v)",
		k.Currency0, k.Currency1, k.Fee, k.TickSpacing, k.Hooks)
}

// signExtend returns the 32 byte two's complement representation of x.
func signExtend(x *big.Int) []byte {
	if x.Sign() >= 0 {
		return common.LeftPadBytes(x.Bytes(), 32)
	}

	// Negative numbers are represented as 2^256 + x.
	twos := new(big.Int).Lsh(big.NewInt(1), 256)
	twos.Add(twos, x)
	return common.LeftPadBytes(twos.Bytes(), 32)
}
