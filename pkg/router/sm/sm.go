/*
 * Copyright 2024 The Switchyard Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sm provides a Specificity Match router: static paths resolve
// through an exact-match lookup, parameterized patterns are tried in
// specificity order so literal segments always win over parameters
package sm

import (
	"net/http"
	"slices"
	"strings"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/methods"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/router"
	"github.com/switchyardhttp/switchyard/pkg/router/route"
)

var _ router.Router = &smRouter{}

type patternSet struct {
	signature string
	segments  []route.Segment
	byMethod  route.Lookup
}

type smRouter struct {
	// static patterns, keyed by signature (which is the path itself)
	static map[string]route.Lookup
	// parameterized patterns in specificity order
	sets    []*patternSet
	setsLkp map[string]*patternSet
}

// NewRouter returns a new Specificity Match Router
func NewRouter() router.Router {
	return &smRouter{
		static:  make(map[string]route.Lookup),
		setsLkp: make(map[string]*patternSet),
	}
}

func (rt *smRouter) RegisterRoute(method, pattern string,
	handler handlers.Handler) error {
	if handler == nil {
		return errors.ErrNilHandler
	}
	if !methods.IsValidMethod(method) {
		return errors.ErrInvalidMethod
	}
	method = strings.ToUpper(method)
	segments, err := route.ParsePattern(pattern)
	if err != nil {
		return err
	}
	sig := route.Signature(segments)
	r := &route.Route{
		Method:   method,
		Pattern:  pattern,
		Segments: segments,
		Handler:  handler,
	}
	if route.IsStatic(segments) {
		rl, ok := rt.static[sig]
		if !ok {
			rl = make(route.Lookup)
			rt.static[sig] = rl
		}
		return addRoute(rl, r)
	}
	ps, ok := rt.setsLkp[sig]
	if !ok {
		ps = &patternSet{
			signature: sig,
			segments:  segments,
			byMethod:  make(route.Lookup),
		}
		rt.setsLkp[sig] = ps
		rt.sets = append(rt.sets, ps)
		rt.sort()
	}
	return addRoute(ps.byMethod, r)
}

// addRoute inserts r into the method lookup; GET registrations receive a
// HEAD twin when HEAD is not separately registered. The twin is marked
// implicit so a later explicit HEAD registration replaces it rather than
// conflicting.
func addRoute(rl route.Lookup, r *route.Route) error {
	if existing, ok := rl[r.Method]; ok && !existing.Implicit {
		return errors.ErrRouteConflict
	}
	rl[r.Method] = r
	if r.Method == http.MethodGet {
		if _, ok := rl[http.MethodHead]; !ok {
			rl[http.MethodHead] = &route.Route{
				Method:   http.MethodHead,
				Pattern:  r.Pattern,
				Segments: r.Segments,
				Handler:  r.Handler,
				Implicit: true,
			}
		}
	}
	return nil
}

// this sorts the parameterized pattern sets most-specific first
func (rt *smRouter) sort() {
	slices.SortStableFunc(rt.sets, func(a, b *patternSet) int {
		return route.Compare(a.segments, b.segments)
	})
}

func (rt *smRouter) Lookup(method, path string) (*route.Route, route.Params, error) {
	method = strings.ToUpper(method)
	parts, err := route.SplitPath(path)
	if err != nil {
		return nil, nil, err
	}
	var pathMatched bool
	sig := "/" + strings.Join(parts, "/")
	if len(parts) == 0 {
		sig = "/"
	}
	if rl, ok := rt.static[sig]; ok {
		if r, ok := rl[method]; ok {
			return r, route.Params{}, nil
		}
		pathMatched = true
	}
	for _, ps := range rt.sets {
		p, ok := match(ps.segments, parts)
		if !ok {
			continue
		}
		if r, ok := ps.byMethod[method]; ok {
			return r, p, nil
		}
		pathMatched = true
	}
	if pathMatched {
		return nil, nil, errors.ErrMethodNotAllowed
	}
	return nil, nil, errors.ErrNotFound
}

// match binds the path segments against the compiled pattern
func match(segments []route.Segment, parts []string) (route.Params, bool) {
	if len(segments) == 0 {
		return nil, len(parts) == 0
	}
	last := segments[len(segments)-1]
	if last.Kind == route.CatchAll {
		if len(parts) < len(segments) {
			return nil, false
		}
	} else if len(parts) != len(segments) {
		return nil, false
	}
	p := make(route.Params, len(segments))
	for i, s := range segments {
		switch s.Kind {
		case route.Literal:
			if parts[i] != s.Literal {
				return nil, false
			}
		case route.Param:
			p[s.Name] = parts[i]
		case route.CatchAll:
			p[s.Name] = strings.Join(parts[i:], "/")
		}
	}
	return p, true
}

func (rt *smRouter) AllowedMethods(path string) []string {
	parts, err := route.SplitPath(path)
	if err != nil {
		return nil
	}
	sig := "/" + strings.Join(parts, "/")
	if len(parts) == 0 {
		sig = "/"
	}
	allowed := make(map[string]struct{})
	if rl, ok := rt.static[sig]; ok {
		for m := range rl {
			allowed[m] = struct{}{}
		}
	}
	for _, ps := range rt.sets {
		if _, ok := match(ps.segments, parts); ok {
			for m := range ps.byMethod {
				allowed[m] = struct{}{}
			}
		}
	}
	if len(allowed) == 0 {
		return nil
	}
	out := make([]string, 0, len(allowed))
	for m := range allowed {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func (rt *smRouter) Routes() []*route.Route {
	out := make([]*route.Route, 0, len(rt.static)+len(rt.sets))
	for _, rl := range rt.static {
		for _, r := range rl {
			out = append(out, r)
		}
	}
	for _, ps := range rt.sets {
		for _, r := range ps.byMethod {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b *route.Route) int {
		if d := strings.Compare(a.Pattern, b.Pattern); d != 0 {
			return d
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}
