package perms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Flags is the set of host lifecycle callbacks a hook participates in. The
// host derives the set from the lowest bits of the hook's address, so the bit
// positions below must match the host's layout.
type Flags uint16

const (
	// BeforeInitialize is called before a pool is initialized.
	BeforeInitialize Flags = 1 << 13

	// AfterInitialize is called after a pool is initialized.
	AfterInitialize Flags = 1 << 12

	// BeforeAddLiquidity is called before liquidity is added to a pool.
	BeforeAddLiquidity Flags = 1 << 11

	// AfterAddLiquidity is called after liquidity is added to a pool.
	AfterAddLiquidity Flags = 1 << 10

	// BeforeRemoveLiquidity is called before liquidity is removed from a
	// pool.
	BeforeRemoveLiquidity Flags = 1 << 9

	// AfterRemoveLiquidity is called after liquidity is removed from a
	// pool.
	AfterRemoveLiquidity Flags = 1 << 8

	// BeforeSwap is called before a swap is executed. It is the only
	// callback that can override the LP fee of a dynamic fee pool.
	BeforeSwap Flags = 1 << 7

	// AfterSwap is called after a swap is executed.
	AfterSwap Flags = 1 << 6

	// BeforeDonate is called before tokens are donated to a pool.
	BeforeDonate Flags = 1 << 5

	// AfterDonate is called after tokens are donated to a pool.
	AfterDonate Flags = 1 << 4

	// BeforeSwapReturnsDelta allows the before swap callback to return a
	// balance delta to the host.
	BeforeSwapReturnsDelta Flags = 1 << 3

	// AfterSwapReturnsDelta allows the after swap callback to return a
	// balance delta to the host.
	AfterSwapReturnsDelta Flags = 1 << 2

	// AfterAddLiquidityReturnsDelta allows the after add liquidity
	// callback to return a balance delta to the host.
	AfterAddLiquidityReturnsDelta Flags = 1 << 1

	// AfterRemoveLiquidityReturnsDelta allows the after remove liquidity
	// callback to return a balance delta to the host.
	AfterRemoveLiquidityReturnsDelta Flags = 1 << 0

	// AllHooks is the mask of all known flags.
	AllHooks Flags = 1<<14 - 1

	// Required is the static set of callbacks the volume-tiered fee hook
	// participates in. The fee is determined before the swap executes,
	// nothing else is needed.
	Required = BeforeSwap
)

// ErrAddressMismatch is returned when a hook address does not encode the
// flags the hook declares.
var ErrAddressMismatch = errors.New("hook address does not match permissions")

// flagNames is ordered from the most to the least significant bit.
var flagNames = []struct {
	flag Flags
	name string
}{
	{BeforeInitialize, "before_initialize"},
	{AfterInitialize, "after_initialize"},
	{BeforeAddLiquidity, "before_add_liquidity"},
	{AfterAddLiquidity, "after_add_liquidity"},
	{BeforeRemoveLiquidity, "before_remove_liquidity"},
	{AfterRemoveLiquidity, "after_remove_liquidity"},
	{BeforeSwap, "before_swap"},
	{AfterSwap, "after_swap"},
	{BeforeDonate, "before_donate"},
	{AfterDonate, "after_donate"},
	{BeforeSwapReturnsDelta, "before_swap_returns_delta"},
	{AfterSwapReturnsDelta, "after_swap_returns_delta"},
	{AfterAddLiquidityReturnsDelta, "after_add_liquidity_returns_delta"},
	{AfterRemoveLiquidityReturnsDelta, "after_remove_liquidity_returns_delta"},
}

// Has returns true if all bits of other are set.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// String returns the names of all set flags separated by a pipe.
func (f Flags) String() string {
	if f&AllHooks == 0 {
		return "none"
	}

	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// FromAddress returns the flags encoded in the lowest 14 bits of a hook
// address.
func FromAddress(addr common.Address) Flags {
	low := uint16(addr[common.AddressLength-2])<<8 |
		uint16(addr[common.AddressLength-1])

	return Flags(low) & AllHooks
}

// ValidateAddress makes sure the given address encodes exactly the declared
// flags, otherwise the host would invoke a different set of callbacks than the
// hook implements.
func ValidateAddress(addr common.Address, declared Flags) error {
	encoded := FromAddress(addr)
	if encoded != declared&AllHooks {
		return fmt.Errorf("%w: address %v encodes %v, declared %v",
			ErrAddressMismatch, addr, encoded, declared)
	}

	return nil
}
