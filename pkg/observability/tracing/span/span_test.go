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

package span

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/stdout"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/options"
)

func testTracerOptions() *options.Options {
	o := options.New()
	o.Name = "test"
	o.Provider = "stdout"
	o.ServiceName = "test-service"
	return o
}

func TestPrepareRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/test", nil)

	// nil tracer passes the request through without a span
	r2, sp := PrepareRequest(r, nil)
	if sp != nil {
		t.Error("expected nil span for nil tracer")
	}
	if r2 != r {
		t.Error("expected unmodified request for nil tracer")
	}

	tr, err := stdout.New(testTracerOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, sp = PrepareRequest(r, tr)
	if sp == nil {
		t.Fatal("expected a span")
	}
	sp.End()
}

func TestNewChildSpan(t *testing.T) {
	ctx, sp := NewChildSpan(nil, nil, "test-span")
	if ctx == nil {
		t.Error("expected a non-nil context for a nil parent context")
	}
	if sp != nil {
		t.Error("expected nil span for nil tracer")
	}

	tr, err := stdout.New(testTracerOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, sp = NewChildSpan(context.Background(), tr, "test-span")
	if sp == nil {
		t.Fatal("expected a span")
	}
	sp.End()
}
