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

package router

import (
	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/router/route"
)

// Router is the route table the dispatcher resolves requests against.
// Registration happens single-threaded at startup; Lookup is read-only and
// safe for concurrent use once serving begins.
type Router interface {
	// RegisterRoute registers a handler for the provided method and pattern.
	// Registering an identical (method, pattern) pair, or a second pattern of
	// equal specificity for the same method, returns ErrRouteConflict.
	// Registering GET automatically registers HEAD when not already present.
	RegisterRoute(method, pattern string, handler handlers.Handler) error
	// Lookup resolves the method and request path to the most specific
	// matching Route and its bound path parameters. Failures are
	// ErrNotFound, ErrMethodNotAllowed, or ErrMalformedPath.
	Lookup(method, path string) (*route.Route, route.Params, error)
	// AllowedMethods lists the methods registered across all patterns
	// matching path, sorted ascending. Used to populate the Allow header
	// on 405 responses.
	AllowedMethods(path string) []string
	// Routes lists all registered routes
	Routes() []*route.Route
}
