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

// Package defaults provides default configuration values for Switchyard
package defaults

const (
	// DefaultLogFile is the default disk location for log files.
	// we use an empty string to indicate log to Console
	DefaultLogFile = ""
	// DefaultLogLevel is the default level of logging verbosity
	DefaultLogLevel = "info"
)

const (
	// DefaultFrontendListenPort is the default port the frontend listener binds
	DefaultFrontendListenPort = 8480
	// DefaultFrontendListenAddress is the default address the frontend listener binds
	DefaultFrontendListenAddress = ""
	// DefaultMetricsListenPort is the default port the metrics listener binds
	DefaultMetricsListenPort = 8481
	// DefaultMetricsListenAddress is the default address the metrics listener binds
	DefaultMetricsListenAddress = ""
)

const (
	// DefaultMaxPartBytes is the default per-part size limit for multipart uploads
	DefaultMaxPartBytes = 1024 * 1024
	// DefaultMaxBodyBytes is the default whole-body size limit for decoded request bodies
	DefaultMaxBodyBytes = 8 * 1024 * 1024
	// DefaultRequestTimeoutMS is the default per-request handler timeout in milliseconds
	DefaultRequestTimeoutMS = 30000
)

const (
	// DefaultConfigHandlerPath is the default path for the running config handler
	DefaultConfigHandlerPath = "/switchyard/config"
	// DefaultPingHandlerPath is the default path for the ping handler
	DefaultPingHandlerPath = "/switchyard/ping"
	// DefaultHealthHandlerPath is the default path for the health handler
	DefaultHealthHandlerPath = "/switchyard/health"
)

const (
	// DefaultReloadRateLimitMS limits the frequency of config reload attempts
	DefaultReloadRateLimitMS = 3000
	// DefaultDrainTimeoutMS is how long the old server loop may drain during a reload
	DefaultDrainTimeoutMS = 30000
)
