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

// Package noop provides a No-op Tracer
package noop

import (
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/options"

	"go.opentelemetry.io/otel/trace"
)

// New returns a new No-op Tracer
func New(opts *options.Options) (*tracing.Tracer, error) {
	if opts == nil {
		opts = options.New()
	}
	tp := trace.NewNoopTracerProvider()
	return &tracing.Tracer{
		Name:    opts.Name,
		Tracer:  tp.Tracer(opts.Name),
		Options: opts,
	}, nil
}
