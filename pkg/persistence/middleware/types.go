package middleware

import "github.com/aretw0/sinew/pkg/ports"

// Middleware allows wrapping a CurveStore to add behavior.
type Middleware func(ports.CurveStore) ports.CurveStore

// Chain wraps store with each middleware. The first one sees calls first.
func Chain(store ports.CurveStore, mws ...Middleware) ports.CurveStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
