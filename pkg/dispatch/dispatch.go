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

// Package dispatch resolves, decodes and invokes requests against the
// route table, and maps dispatch failures to http status codes
package dispatch

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/body"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/observability/metrics"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/span"
	"github.com/switchyardhttp/switchyard/pkg/router"
	"github.com/switchyardhttp/switchyard/pkg/router/route"

	"go.opentelemetry.io/otel/attribute"
)

// phase tracks how far a request progressed through the dispatch lifecycle.
// The phase at the time of failure decides the status code for timeouts.
type phase int

const (
	phaseReceived phase = iota
	phaseMatched
	phaseDecoded
	phaseInvoked
	phaseResponded
)

var phaseNames = map[phase]string{
	phaseReceived:  "received",
	phaseMatched:   "matched",
	phaseDecoded:   "decoded",
	phaseInvoked:   "invoked",
	phaseResponded: "responded",
}

func (p phase) String() string {
	return phaseNames[p]
}

// Options is a collection of Dispatcher options
type Options struct {
	// Body holds the body decoding limits
	Body *body.Options
	// RequestTimeout bounds the decode and handler phases of each request;
	// 0 means no timeout
	RequestTimeout time.Duration
	// ServerName is conveyed in the Server response header
	ServerName string
	// Tracer, when set, produces a span per dispatched request
	Tracer *tracing.Tracer
}

// OptionsFromConfig returns dispatch Options derived from the provided Config
func OptionsFromConfig(cfg *config.Config) *Options {
	o := &Options{
		Body: &body.Options{
			MaxPartBytes: cfg.Dispatch.MaxPartBytes,
			MaxBodyBytes: cfg.Dispatch.MaxBodyBytes,
		},
		RequestTimeout: cfg.Dispatch.RequestTimeout,
		ServerName:     cfg.Main.ServerName,
	}
	return o
}

// Dispatcher serves http requests by resolving them against the route
// table, decoding their parameters and invoking the matched handler. It
// is safe for concurrent use once the underlying router is populated.
type Dispatcher struct {
	router router.Router
	opts   *Options
}

// New returns a new Dispatcher backed by the provided router
func New(rt router.Router, o *Options) (*Dispatcher, error) {
	if rt == nil {
		return nil, errors.ErrNilRouter
	}
	if o == nil {
		return nil, errors.ErrInvalidOptions
	}
	if o.Body == nil {
		o.Body = &body.Options{}
	}
	return &Dispatcher{router: rt, opts: o}, nil
}

type invokeResult struct {
	resp *response.Response
	err  error
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	start := time.Now()
	ph := phaseReceived
	pattern := "none"

	r, sp := span.PrepareRequest(r, d.opts.Tracer)
	if sp != nil {
		defer sp.End()
	}

	ctx := r.Context()
	if d.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.RequestTimeout)
		defer cancel()
	}

	var resp *response.Response
	var p *params.RequestParams

	rt, pathParams, err := d.router.Lookup(r.Method, r.URL.Path)
	if err == nil {
		ph = phaseMatched
		pattern = rt.Pattern
		p, err = d.decode(ctx, r)
		if err == nil {
			for k, v := range pathParams {
				p.Path[k] = v
			}
			ph = phaseDecoded
			resp, err = d.invoke(ctx, rt, r, p)
			if err == nil {
				ph = phaseInvoked
			}
		}
	}
	if p != nil {
		defer p.Release()
	}

	if err != nil {
		resp = d.errorResponse(r, err, ph)
		d.observeFailure(err, ph)
	}
	if resp == nil {
		resp = response.New(http.StatusNoContent)
	}

	if goerrors.Is(err, errors.ErrMethodNotAllowed) {
		if allowed := d.router.AllowedMethods(r.URL.Path); len(allowed) > 0 {
			resp.Header.Set(headers.NameAllow, strings.Join(allowed, ", "))
		}
	}

	written := d.writeResponse(w, r, resp)
	ph = phaseResponded

	elapsed := time.Since(start)
	status := strconv.Itoa(resp.StatusCode)
	metrics.FrontendRequestStatus.WithLabelValues(r.Method, pattern, status).Inc()
	metrics.FrontendRequestDuration.WithLabelValues(r.Method, pattern,
		status).Observe(elapsed.Seconds())
	metrics.FrontendRequestWrittenBytes.WithLabelValues(r.Method, pattern,
		status).Add(float64(written))

	if sp != nil {
		sp.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", pattern),
			attribute.Int("http.status_code", resp.StatusCode),
		)
		sp.SetStatus(tracing.HTTPToCode(resp.StatusCode), "")
	}

	logger.Debug("request dispatched", logging.Pairs{
		"method":     r.Method,
		"path":       r.URL.Path,
		"pattern":    pattern,
		"status":     resp.StatusCode,
		"durationMS": elapsed.Milliseconds(),
	})
}

type decodeResult struct {
	p   *params.RequestParams
	err error
}

// decode runs the body decoder, bounding it with the request context so a
// stalled body read cannot pin the request past its deadline
func (d *Dispatcher) decode(ctx context.Context, r *http.Request) (*params.RequestParams, error) {
	ch := make(chan decodeResult, 1)
	go func() {
		p, err := body.Decode(ctx, r, d.opts.Body)
		ch <- decodeResult{p, err}
	}()
	select {
	case res := <-ch:
		return res.p, res.err
	case <-ctx.Done():
		// release whatever the abandoned decode buffered once it returns
		go func() {
			if res := <-ch; res.p != nil {
				res.p.Release()
			}
		}()
		return nil, ctx.Err()
	}
}

// invoke runs the matched handler, bounding it with the request context and
// recovering any handler panic into an error
func (d *Dispatcher) invoke(ctx context.Context, rt *route.Route,
	r *http.Request, p *params.RequestParams) (*response.Response, error) {

	ctx, hsp := span.NewChildSpan(ctx, d.opts.Tracer, "handler")
	if hsp != nil {
		defer hsp.End()
	}

	ch := make(chan invokeResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panic", logging.Pairs{
					"pattern": rt.Pattern,
					"method":  rt.Method,
					"panic":   fmt.Sprintf("%v", rec),
					"stack":   string(debug.Stack()),
				})
				ch <- invokeResult{nil, fmt.Errorf("handler panic: %v", rec)}
			}
		}()
		resp, err := rt.Handler.ServeDispatch(ctx, r, p)
		ch <- invokeResult{resp, err}
	}()

	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// statusForError maps a dispatch error to an http status code. Timeouts map
// to 408 when the request body was still being decoded, and 504 once the
// handler was invoked.
func statusForError(err error, ph phase) int {
	switch {
	case goerrors.Is(err, errors.ErrMalformedPath):
		return http.StatusBadRequest
	case goerrors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, errors.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	}
	if de, ok := errors.AsDecodeError(err); ok {
		switch de.Reason {
		case errors.PartTooLarge, errors.BodyTooLarge:
			return http.StatusRequestEntityTooLarge
		default:
			return http.StatusBadRequest
		}
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		if ph < phaseDecoded {
			return http.StatusRequestTimeout
		}
		return http.StatusGatewayTimeout
	}
	var re *response.Error
	if goerrors.As(err, &re) {
		return re.Status
	}
	return http.StatusInternalServerError
}

func (d *Dispatcher) errorResponse(r *http.Request, err error, ph phase) *response.Response {
	status := statusForError(err, ph)
	detail := err.Error()
	var re *response.Error
	if goerrors.As(err, &re) {
		detail = re.Message
	}
	if status == http.StatusInternalServerError {
		// internal failure details stay in the logs
		detail = http.StatusText(http.StatusInternalServerError)
		logger.Error("handler failure", logging.Pairs{
			"method": r.Method,
			"path":   r.URL.Path,
			"detail": err.Error(),
		})
	}
	resp, jerr := response.NewJSON(status, map[string]string{"detail": detail})
	if jerr != nil {
		return response.NewText(status, detail)
	}
	return resp
}

func (d *Dispatcher) observeFailure(err error, ph phase) {
	if de, ok := errors.AsDecodeError(err); ok {
		metrics.DispatchDecodeFailures.WithLabelValues(string(de.Reason)).Inc()
		return
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		logger.Warn("request timed out", logging.Pairs{"phase": ph.String()})
	}
}

// writeResponse flushes the response to the client and returns the number
// of body bytes written. HEAD responses carry headers only.
func (d *Dispatcher) writeResponse(w http.ResponseWriter, r *http.Request,
	resp *response.Response) int {
	if d.opts.ServerName != "" {
		w.Header().Set(headers.NameServer, d.opts.ServerName)
	}
	headers.Merge(w.Header(), resp.Header)
	headers.SetContentLength(w.Header(), len(resp.Body))
	w.WriteHeader(resp.StatusCode)
	if r.Method == http.MethodHead {
		return 0
	}
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
	return len(resp.Body)
}
