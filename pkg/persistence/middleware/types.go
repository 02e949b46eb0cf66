package middleware

import "github.com/aretw0/espalier/pkg/ports"

// Middleware allows wrapping a NormalFormStore to add behavior.
type Middleware[O comparable] func(ports.NormalFormStore[O]) ports.NormalFormStore[O]

// Chain wraps store with mws. The first middleware is the outermost.
func Chain[O comparable](store ports.NormalFormStore[O], mws ...Middleware[O]) ports.NormalFormStore[O] {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
