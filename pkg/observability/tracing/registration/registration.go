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

// Package registration registers configured tracers for use with handlers
package registration

import (
	"errors"
	"fmt"

	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/noop"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/stdout"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/zipkin"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/options"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/providers"
)

// RegisterAll registers all Tracers referenced by the provided configuration,
// and returns them keyed by name
func RegisterAll(cfg *config.Config, isDryRun bool) (tracing.Tracers, error) {
	if cfg == nil {
		return nil, errors.New("no config provided")
	}
	if cfg.Frontend == nil {
		return nil, errors.New("no frontend config provided")
	}

	tracers := make(tracing.Tracers)
	name := cfg.Frontend.TracingConfigName
	if name == "" {
		return tracers, nil
	}

	tc, ok := cfg.TracingConfigs[name]
	if !ok {
		return nil, fmt.Errorf("frontend provided invalid tracing config name %s", name)
	}

	tc.Name = name
	if _, ok := providers.Names[tc.Provider]; !ok {
		return nil, fmt.Errorf("invalid tracer type [%s] for tracing config [%s]",
			tc.Provider, name)
	}
	tracer, err := GetTracer(tc, isDryRun)
	if err != nil {
		return nil, err
	}
	tracers[name] = tracer
	return tracers, nil
}

// GetTracer returns a *Tracer based on the provided options
func GetTracer(opts *options.Options, isDryRun bool) (*tracing.Tracer, error) {

	if opts == nil {
		logger.Info("nil tracing config, using noop tracer", nil)
		return noop.New(opts)
	}

	logTracerRegistration := func() {
		if isDryRun {
			return
		}
		logger.Info("tracer registration",
			logging.Pairs{
				"name":        opts.Name,
				"provider":    opts.Provider,
				"serviceName": opts.ServiceName,
				"collector":   opts.CollectorURL,
				"sampleRate":  opts.SampleRate,
			},
		)
	}

	switch opts.Provider {
	case providers.None.String():
		logTracerRegistration()
		return noop.New(opts)
	case providers.Stdout.String():
		logTracerRegistration()
		return stdout.New(opts)
	case providers.Zipkin.String():
		logTracerRegistration()
		return zipkin.New(opts)
	}

	return nil, nil
}
