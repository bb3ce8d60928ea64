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

// Package metrics implements prometheus metrics and exposes the metrics HTTP listener
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
)

const (
	metricNamespace   = "switchyard"
	buildSubsystem    = "build"
	frontendSubsystem = "frontend"
	dispatchSubsystem = "dispatch"
)

// Default histogram buckets used by switchyard
var (
	defaultBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 20}
)

// BuildInfo is a Gauge representing the binary build information of the running server instance
var BuildInfo *prometheus.GaugeVec

// FrontendRequestStatus is a Counter of front end requests that have been processed with their status
var FrontendRequestStatus *prometheus.CounterVec

// FrontendRequestDuration is a histogram that tracks the time it takes to process a request
var FrontendRequestDuration *prometheus.HistogramVec

// FrontendRequestWrittenBytes is a Counter of bytes written for front end requests
var FrontendRequestWrittenBytes *prometheus.CounterVec

// DispatchDecodeFailures is a Counter of request body decode failures by reason
var DispatchDecodeFailures *prometheus.CounterVec

// DispatchDecodedParts is a Counter of decoded multipart parts by kind (field or file)
var DispatchDecodedParts *prometheus.CounterVec

// FrontendMaxConnections is a Gauge for the configured front end connection limit
var FrontendMaxConnections prometheus.Gauge

// FrontendActiveConnections is a Gauge representing the number of active front end connections
var FrontendActiveConnections prometheus.Gauge

// FrontendConnectionRequested is a counter of connections requested by clients
var FrontendConnectionRequested prometheus.Counter

// FrontendConnectionAccepted is a counter of connections accepted by the front end
var FrontendConnectionAccepted prometheus.Counter

// FrontendConnectionClosed is a counter of connections closed by the front end
var FrontendConnectionClosed prometheus.Counter

// FrontendConnectionFailed is a counter of connections that failed to accept
var FrontendConnectionFailed prometheus.Counter

func init() {

	BuildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: buildSubsystem,
			Name:      "info",
			Help: "A metric with a constant '1' value labeled by version, " +
				"revision, and goversion from which the binary was built.",
		},
		[]string{"goversion", "revision", "version"},
	)

	FrontendRequestStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_total",
			Help:      "Count of front end requests handled, by method, pattern and status code.",
		},
		[]string{"method", "pattern", "http_status"},
	)

	FrontendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_duration_seconds",
			Help:      "Histogram of front end request durations, by method, pattern and status code.",
			Buckets:   defaultBuckets,
		},
		[]string{"method", "pattern", "http_status"},
	)

	FrontendRequestWrittenBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "written_bytes_total",
			Help:      "Count of bytes written in front end responses, by method, pattern and status code.",
		},
		[]string{"method", "pattern", "http_status"},
	)

	DispatchDecodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: dispatchSubsystem,
			Name:      "decode_failures_total",
			Help:      "Count of request body decode failures by reason.",
		},
		[]string{"reason"},
	)

	DispatchDecodedParts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: dispatchSubsystem,
			Name:      "decoded_parts_total",
			Help:      "Count of decoded request body parts by kind.",
		},
		[]string{"kind"},
	)

	FrontendMaxConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "max_connections",
			Help:      "The configured front end connection limit.",
		},
	)

	FrontendActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "active_connections",
			Help:      "The current number of active front end connections.",
		},
	)

	FrontendConnectionRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "connections_requested_total",
			Help:      "Count of connections requested by clients.",
		},
	)

	FrontendConnectionAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "connections_accepted_total",
			Help:      "Count of connections accepted by the front end.",
		},
	)

	FrontendConnectionClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "connections_closed_total",
			Help:      "Count of connections closed by the front end.",
		},
	)

	FrontendConnectionFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "connections_failed_total",
			Help:      "Count of connections that failed to accept.",
		},
	)

	prometheus.MustRegister(BuildInfo, FrontendRequestStatus,
		FrontendRequestDuration, FrontendRequestWrittenBytes,
		DispatchDecodeFailures, DispatchDecodedParts,
		FrontendMaxConnections, FrontendActiveConnections,
		FrontendConnectionRequested, FrontendConnectionAccepted,
		FrontendConnectionClosed, FrontendConnectionFailed)
}

// ListenAndServe serves the prometheus metrics endpoint on the provided
// address and port until the server fails
func ListenAndServe(listenAddress string, listenPort int) error {
	addr := fmt.Sprintf("%s:%d", listenAddress, listenPort)
	logger.Info("metrics http endpoint starting",
		logging.Pairs{"address": listenAddress, "port": listenPort})
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.ListenAndServe()
}
