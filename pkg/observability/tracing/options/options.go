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

package options

import (
	"maps"
	"slices"

	stdoutopts "github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/stdout/options"
)

const (
	// DefaultTracerProvider is the default tracing provider name
	DefaultTracerProvider = "none"
	// DefaultTracerServiceName is the default service name under which traces are reported
	DefaultTracerServiceName = "switchyard"
)

// Options is a Tracing Options collection
type Options struct {
	Name         string            `yaml:"-"`
	Provider     string            `yaml:"provider,omitempty"`
	ServiceName  string            `yaml:"service_name,omitempty"`
	CollectorURL string            `yaml:"collector_url,omitempty"`
	SampleRate   float64           `yaml:"sample_rate,omitempty"`
	Tags         map[string]string `yaml:"tags,omitempty"`
	OmitTagsList []string          `yaml:"omit_tags,omitempty"`

	StdOutOptions *stdoutopts.Options `yaml:"stdout,omitempty"`

	OmitTags map[string]any `yaml:"-"`
	// for tracers that don't support process-level tags (e.g., Zipkin)
	attachTagsToSpan bool
}

// New returns a new *Options with the default values
func New() *Options {
	return &Options{
		Provider:      DefaultTracerProvider,
		ServiceName:   DefaultTracerServiceName,
		SampleRate:    1,
		StdOutOptions: &stdoutopts.Options{},
	}
}

// Clone returns an exact copy of a tracing config
func (o *Options) Clone() *Options {
	var so *stdoutopts.Options
	if o.StdOutOptions != nil {
		so = o.StdOutOptions.Clone()
	}
	return &Options{
		Name:             o.Name,
		Provider:         o.Provider,
		ServiceName:      o.ServiceName,
		CollectorURL:     o.CollectorURL,
		SampleRate:       o.SampleRate,
		Tags:             maps.Clone(o.Tags),
		OmitTags:         maps.Clone(o.OmitTags),
		OmitTagsList:     slices.Clone(o.OmitTagsList),
		StdOutOptions:    so,
		attachTagsToSpan: o.attachTagsToSpan,
	}
}

// ProcessTracingOptions enriches the configuration data of the provided Tracing Options collection
func ProcessTracingOptions(mo map[string]*Options) {
	if len(mo) == 0 {
		return
	}
	for k, v := range mo {
		v.Name = k
		if v.Provider == "" {
			v.Provider = DefaultTracerProvider
		}
		if v.ServiceName == "" {
			v.ServiceName = DefaultTracerServiceName
		}
		v.generateOmitTags()
		v.setAttachTags()
	}
}

func (o *Options) generateOmitTags() {
	o.OmitTags = make(map[string]any, len(o.OmitTagsList))
	for _, v := range o.OmitTagsList {
		o.OmitTags[v] = nil
	}
}

// AttachTagsToSpan indicates that Tags should be attached to the span
func (o *Options) AttachTagsToSpan() bool {
	return o.attachTagsToSpan
}

func (o *Options) setAttachTags() {
	if o.Provider == "zipkin" && len(o.Tags) > 0 {
		o.attachTagsToSpan = true
	}
}
