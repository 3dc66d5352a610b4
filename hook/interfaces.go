package hook

import "context"

// Host is the settlement engine that invokes hooks around the lifecycle of a
// pool. Only the parts needed to attach a hook to a pool are modeled.
type Host interface {
	// RegisterHook attaches the hook to the pool identified by the key.
	// From then on the host calls the hook's callbacks for every swap in
	// that pool.
	RegisterHook(ctx context.Context, key PoolKey, hook SwapHook) error
}
