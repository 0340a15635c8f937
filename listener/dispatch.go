// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package listener

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/z5labs/httpadapter/internal/try"
)

// AnyHost matches requests for every host.
const AnyHost = "_"

// Route binds a net/http ServeMux pattern to a handler.
type Route struct {
	Pattern string
	Handler http.Handler
}

// HostRoutes holds the routes served for a single host.
type HostRoutes struct {
	Host   string
	Routes []Route
}

// Dispatch is an uncompiled routing table. Hosts are matched in order.
type Dispatch []HostRoutes

// RouteError is returned by [Compile] when a route cannot be registered.
type RouteError struct {
	Host    string
	Pattern string
	Cause   error
}

// Error implements the [builtin.error] interface.
func (e RouteError) Error() string {
	return fmt.Sprintf("failed to register route %q for host %q: %s", e.Pattern, e.Host, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RouteError) Unwrap() error {
	return e.Cause
}

// Router is the compiled form of a [Dispatch].
type Router struct {
	hosts []compiledHost
}

type compiledHost struct {
	host string
	mux  *http.ServeMux
}

// Compile turns d into a [Router].
func Compile(d Dispatch) (*Router, error) {
	r := &Router{
		hosts: make([]compiledHost, 0, len(d)),
	}
	for _, hr := range d {
		mux := http.NewServeMux()
		for _, rt := range hr.Routes {
			err := handle(mux, rt)
			if err != nil {
				return nil, RouteError{Host: hr.Host, Pattern: rt.Pattern, Cause: err}
			}
		}
		r.hosts = append(r.hosts, compiledHost{
			host: strings.ToLower(hr.Host),
			mux:  mux,
		})
	}
	return r, nil
}

func handle(mux *http.ServeMux, rt Route) (err error) {
	defer try.Recover(&err)

	mux.Handle(rt.Pattern, rt.Handler)
	return nil
}

// ServeHTTP implements the [http.Handler] interface.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	host := requestHost(req)
	for _, ch := range r.hosts {
		if ch.host != AnyHost && ch.host != host {
			continue
		}
		ch.mux.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func requestHost(req *http.Request) string {
	host := req.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
