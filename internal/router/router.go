// Package router holds the static route table of the poker desk front end:
// which view serves which URL shape and how path parameters become view props.
package router

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"strings"
)

// Route names.
const (
	RouteHome  = "home"
	RouteTable = "table"
)

// ErrMissingView is returned by New when a route has no view bound to it.
var ErrMissingView = errors.New("route has no view")

// Params holds the raw path segments captured by a route pattern.
type Params map[string]string

// Props are the typed values handed to a view.
type Props struct {
	// ID is the coerced :id segment. NaN when the segment is not numeric.
	ID float64
}

// TableID returns ID as an int. It reports false for NaN, infinities,
// fractions and values outside the int range; views must reject those.
func (p Props) TableID() (int, bool) {
	id := p.ID
	if math.IsNaN(id) || math.IsInf(id, 0) || id != math.Trunc(id) {
		return 0, false
	}
	if id < math.MinInt64 || id >= math.MaxInt64 {
		return 0, false
	}
	return int(id), true
}

// View renders one route.
type View interface {
	Render(w http.ResponseWriter, r *http.Request, props Props)
}

// Route associates a path pattern with a view name and a props builder.
// Pattern segments starting with ':' capture one non-empty path segment.
type Route struct {
	Name  string
	Path  string
	Props func(Params) Props
}

// Resolve builds the props for params.
func (rt Route) Resolve(params Params) Props {
	if rt.Props == nil {
		return Props{}
	}
	return rt.Props(params)
}

var routes = []Route{
	{
		Name: RouteHome,
		Path: "/",
	},
	{
		Name: RouteTable,
		Path: "/:id",
		Props: func(p Params) Props {
			return Props{ID: Number(p["id"])}
		},
	},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	return slices.Clone(routes)
}

// Match finds the route serving path and the parameters it captures.
func Match(path string) (Route, Params, bool) {
	for _, rt := range routes {
		if params, ok := match(rt.Path, path); ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

func match(pattern, path string) (Params, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	want := segments(pattern)
	got := segments(path)
	if len(want) != len(got) {
		return nil, false
	}
	params := Params{}
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

// segments splits "/a/b" into ["a","b"]; "/" yields none.
func segments(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Middleware wraps the handler of a named route.
type Middleware func(next http.HandlerFunc, route string) http.HandlerFunc

// Router binds views to the route table.
type Router struct {
	middleware Middleware
	handlers   map[string]http.HandlerFunc
}

// Option configures a Router.
type Option func(*Router)

// WithMiddleware wraps every route handler with mw.
func WithMiddleware(mw Middleware) Option {
	return func(r *Router) {
		r.middleware = mw
	}
}

// New binds views by route name. Every route in the table needs a view.
func New(views map[string]View, opts ...Option) (*Router, error) {
	rs := Routes()
	for _, rt := range rs {
		if views[rt.Name] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingView, rt.Name)
		}
	}
	r := &Router{handlers: make(map[string]http.HandlerFunc, len(rs))}
	for _, opt := range opts {
		opt(r)
	}
	for _, rt := range rs {
		h := render(views[rt.Name])
		if r.middleware != nil {
			h = r.middleware(h, rt.Name)
		}
		r.handlers[rt.Name] = h
	}
	return r, nil
}

// Register attaches the router to mux as the GET catch-all. More specific
// patterns registered on mux, such as /healthz, still take precedence.
func (r *Router) Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", r)
}

type propsKey struct{}

// ServeHTTP dispatches req through Match. Paths outside the route table get
// a 404.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt, params, ok := Match(req.URL.Path)
	if !ok {
		http.NotFound(w, req)
		return
	}
	ctx := context.WithValue(req.Context(), propsKey{}, rt.Resolve(params))
	r.handlers[rt.Name](w, req.WithContext(ctx))
}

func render(view View) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		props, _ := req.Context().Value(propsKey{}).(Props)
		view.Render(w, req, props)
	}
}
