package httpx

import "net/http"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with the given middlewares. The first middleware listed is
// the outermost, i.e. it runs first on the way in:
//
//	Chain(h, a, b) == a(b(h))
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
