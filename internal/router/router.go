package router

import (
	"net/http"
	"slices"
)

// Router registers method-scoped routes on an http.ServeMux. Every route runs
// the router's global chain first, then its own middleware.
type Router struct {
	mux   *http.ServeMux
	chain []Middleware
}

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// New creates a Router whose routes all run middleware, outermost first.
func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.route(http.MethodGet, pattern, h, mw)
}

func (r *Router) Post(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.route(http.MethodPost, pattern, h, mw)
}

func (r *Router) Put(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.route(http.MethodPut, pattern, h, mw)
}

func (r *Router) Delete(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.route(http.MethodDelete, pattern, h, mw)
}

// Mount serves handler for every method under pattern, e.g. /metrics.
func (r *Router) Mount(pattern string, handler http.Handler, mw ...Middleware) {
	r.mux.Handle(pattern, r.wrap(handler, mw))
}

// route uses the Go 1.22 "METHOD /path/{param}" pattern form, so a known path
// hit with the wrong method gets a 405 from the mux.
func (r *Router) route(method, pattern string, h http.Handler, mw []Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(h, mw))
}

// wrap builds global chain + route middleware around h so that the first
// middleware listed is the first to see the request.
func (r *Router) wrap(h http.Handler, mw []Middleware) http.Handler {
	all := append(slices.Clone(r.chain), mw...)
	for _, m := range slices.Backward(all) {
		h = m(h)
	}
	return h
}
