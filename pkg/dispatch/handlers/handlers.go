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

// Package handlers defines the handler contract the dispatcher invokes, and
// provides the application's operational handlers
package handlers

import (
	"context"
	"net/http"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
)

// Handler services one dispatched request. It receives the request metadata
// and the decoded parameter set, and returns a Response or an error. A
// *response.Error return keeps its status code; any other error is mapped to
// a generic 500 by the dispatcher.
type Handler interface {
	ServeDispatch(ctx context.Context, r *http.Request,
		p *params.RequestParams) (*response.Response, error)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(ctx context.Context, r *http.Request,
	p *params.RequestParams) (*response.Response, error)

// ServeDispatch calls f
func (f HandlerFunc) ServeDispatch(ctx context.Context, r *http.Request,
	p *params.RequestParams) (*response.Response, error) {
	return f(ctx, r, p)
}
