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

// Package providers enumerates the supported tracing exporter providers
package providers

// Provider enumerates the distributed tracing providers
type Provider int

const (
	// None indicates a No-op tracer
	None = Provider(iota)
	// Stdout indicates the stdout tracer
	Stdout
	// Zipkin indicates the zipkin tracer
	Zipkin
)

// Names is a map of tracing providers keyed by name
var Names = map[string]Provider{
	"none":   None,
	"stdout": Stdout,
	"zipkin": Zipkin,
}

var providerNames = map[Provider]string{
	None:   "none",
	Stdout: "stdout",
	Zipkin: "zipkin",
}

func (p Provider) String() string {
	if v, ok := providerNames[p]; ok {
		return v
	}
	return ""
}
