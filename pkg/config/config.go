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

// Package config provides Switchyard configuration abilities, including
// parsing and printing configuration files, command line parameters, and
// environment variables, as well as default values and state.
package config

import (
	"os"
	"sync"
	"time"

	d "github.com/switchyardhttp/switchyard/pkg/config/defaults"
	tracing "github.com/switchyardhttp/switchyard/pkg/observability/tracing/options"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration object
type Config struct {
	// Main is the primary MainConfig section
	Main *MainConfig `yaml:"main,omitempty"`
	// Frontend provides configurations about the http Front End
	Frontend *FrontendConfig `yaml:"frontend,omitempty"`
	// Dispatch provides configurations for request decoding and dispatching
	Dispatch *DispatchConfig `yaml:"dispatch,omitempty"`
	// Logging provides configurations that affect logging behavior
	Logging *LoggingConfig `yaml:"logging,omitempty"`
	// Metrics provides configurations for collecting Metrics about the application
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
	// TracingConfigs provides the distributed tracing configuration
	TracingConfigs map[string]*tracing.Options `yaml:"tracing,omitempty"`
	// ReloadConfig provides configurations for in-process config reloading
	ReloadConfig *ReloadConfig `yaml:"reloading,omitempty"`

	// Resources holds runtime resources used by the Config
	Resources *Resources `yaml:"-"`

	LoaderWarnings []string `yaml:"-"`
}

// MainConfig is a collection of general configuration values
type MainConfig struct {
	// InstanceID represents a unique ID for the current instance,
	// when multiple instances run on the same host
	InstanceID int `yaml:"instance_id,omitempty"`
	// ConfigHandlerPath provides the path to register the Config Handler
	// for outputting the running configuration
	ConfigHandlerPath string `yaml:"config_handler_path,omitempty"`
	// PingHandlerPath provides the path to register the Ping Handler for
	// checking that Switchyard is running
	PingHandlerPath string `yaml:"ping_handler_path,omitempty"`
	// HealthHandlerPath provides the path to register the Health Handler
	HealthHandlerPath string `yaml:"health_handler_path,omitempty"`
	// ServerName represents the server name conveyed in the Server response header,
	// defaults to os.Hostname
	ServerName string `yaml:"server_name,omitempty"`

	// ReloaderLock is used to lock the config for reloading
	ReloaderLock sync.Mutex `yaml:"-"`

	configFilePath      string
	configLastModified  time.Time
	configRateLimitTime time.Time
	stalenessCheckLock  sync.Mutex
}

// FrontendConfig is a collection of configurations for the main
// http frontend for the application
type FrontendConfig struct {
	// ListenAddress is the IP address for the main http listener for the application
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is the TCP Port for the main http listener for the application
	ListenPort int `yaml:"listen_port,omitempty"`
	// ConnectionsLimit indicates how many concurrent front end connections
	// switchyard will handle at any time; 0 means unlimited
	ConnectionsLimit int `yaml:"connections_limit,omitempty"`
	// TracingConfigName provides the name of the tracing config to use for frontend requests
	TracingConfigName string `yaml:"tracing_name,omitempty"`
	// Compression indicates whether responses are compressed when the client accepts it
	Compression bool `yaml:"compression,omitempty"`
}

// DispatchConfig is a collection of configurations for request
// decoding and dispatching
type DispatchConfig struct {
	// MaxPartBytes is the per-part size limit for multipart uploads
	MaxPartBytes int64 `yaml:"max_part_bytes,omitempty"`
	// MaxBodyBytes is the whole-body size limit for decoded request bodies
	MaxBodyBytes int64 `yaml:"max_body_bytes,omitempty"`
	// RequestTimeoutMS is the per-request handler timeout in milliseconds;
	// 0 means no timeout
	RequestTimeoutMS int `yaml:"request_timeout_ms,omitempty"`

	// RequestTimeout is the parsed duration of RequestTimeoutMS
	RequestTimeout time.Duration `yaml:"-"`
}

// LoggingConfig is a collection of Logging configurations
type LoggingConfig struct {
	// LogFile provides the filepath to the instance's logfile.
	// Set as empty string to Log to Console
	LogFile string `yaml:"log_file,omitempty"`
	// LogLevel provides the most granular level (e.g., DEBUG, INFO, ERROR) to log
	LogLevel string `yaml:"log_level,omitempty"`
}

// MetricsConfig is a collection of Metrics Collection configurations
type MetricsConfig struct {
	// ListenAddress is the IP address from which the Application Metrics
	// are available for pulling at /metrics
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is the TCP Port from which the Application Metrics are
	// available for pulling at /metrics
	ListenPort int `yaml:"listen_port,omitempty"`
}

// ReloadConfig is a collection of configurations for in-process config reloading
type ReloadConfig struct {
	// RateLimitMS limits the frequency of config reload attempts
	RateLimitMS int `yaml:"rate_limit_ms,omitempty"`
	// DrainTimeoutMS is how long the old server loop may drain during a reload
	DrainTimeoutMS int `yaml:"drain_timeout_ms,omitempty"`
}

// Resources is a collection of values used by configs at runtime
// that are not part of the config itself
type Resources struct {
	QuitChan chan bool `yaml:"-"`
}

// NewConfig returns a Config initialized with default values
func NewConfig() *Config {
	hn, _ := os.Hostname()
	return &Config{
		Main: &MainConfig{
			ConfigHandlerPath: d.DefaultConfigHandlerPath,
			PingHandlerPath:   d.DefaultPingHandlerPath,
			HealthHandlerPath: d.DefaultHealthHandlerPath,
			ServerName:        hn,
		},
		Frontend: &FrontendConfig{
			ListenAddress: d.DefaultFrontendListenAddress,
			ListenPort:    d.DefaultFrontendListenPort,
		},
		Dispatch: &DispatchConfig{
			MaxPartBytes:     d.DefaultMaxPartBytes,
			MaxBodyBytes:     d.DefaultMaxBodyBytes,
			RequestTimeoutMS: d.DefaultRequestTimeoutMS,
		},
		Logging: &LoggingConfig{
			LogFile:  d.DefaultLogFile,
			LogLevel: d.DefaultLogLevel,
		},
		Metrics: &MetricsConfig{
			ListenAddress: d.DefaultMetricsListenAddress,
			ListenPort:    d.DefaultMetricsListenPort,
		},
		TracingConfigs: map[string]*tracing.Options{
			"default": tracing.New(),
		},
		ReloadConfig: &ReloadConfig{
			RateLimitMS:    d.DefaultReloadRateLimitMS,
			DrainTimeoutMS: d.DefaultDrainTimeoutMS,
		},
		LoaderWarnings: make([]string, 0),
		Resources: &Resources{
			QuitChan: make(chan bool, 1),
		},
	}
}

// loadFile loads application configuration from a YAML-formatted file
func (c *Config) loadFile(flags *Flags) error {
	b, err := os.ReadFile(flags.ConfigPath)
	if err != nil {
		c.setDefaults()
		return err
	}
	return c.loadYAMLConfig(b, flags)
}

// loadYAMLConfig loads application configuration from a YAML-formatted byte slice
func (c *Config) loadYAMLConfig(y []byte, flags *Flags) error {
	err := yaml.Unmarshal(y, c)
	if err != nil {
		c.setDefaults()
		return err
	}
	err = c.setDefaults()
	if err == nil {
		c.Main.configFilePath = flags.ConfigPath
		c.Main.configLastModified = c.CheckFileLastModified()
	}
	return err
}

// CheckFileLastModified returns the last modified date of the running config file, if present
func (c *Config) CheckFileLastModified() time.Time {
	if c.Main == nil || c.Main.configFilePath == "" {
		return time.Time{}
	}
	file, err := os.Stat(c.Main.configFilePath)
	if err != nil {
		return time.Time{}
	}
	return file.ModTime()
}

func (c *Config) setDefaults() error {
	// sections omitted from the file are restored with default values
	if c.Main == nil {
		c.Main = NewConfig().Main
	}
	if c.Frontend == nil {
		c.Frontend = NewConfig().Frontend
	}
	if c.Dispatch == nil {
		c.Dispatch = NewConfig().Dispatch
	}
	if c.Logging == nil {
		c.Logging = NewConfig().Logging
	}
	if c.Metrics == nil {
		c.Metrics = NewConfig().Metrics
	}
	if c.ReloadConfig == nil {
		c.ReloadConfig = NewConfig().ReloadConfig
	}
	if c.Resources == nil {
		c.Resources = &Resources{QuitChan: make(chan bool, 1)}
	}

	if c.Dispatch.MaxPartBytes <= 0 {
		c.Dispatch.MaxPartBytes = d.DefaultMaxPartBytes
	}
	if c.Dispatch.MaxBodyBytes <= 0 {
		c.Dispatch.MaxBodyBytes = d.DefaultMaxBodyBytes
	}
	if c.Dispatch.RequestTimeoutMS < 0 {
		c.Dispatch.RequestTimeoutMS = d.DefaultRequestTimeoutMS
	}
	c.Dispatch.RequestTimeout = time.Duration(c.Dispatch.RequestTimeoutMS) * time.Millisecond

	if c.Main.ServerName == "" {
		c.Main.ServerName, _ = os.Hostname()
	}

	tracing.ProcessTracingOptions(c.TracingConfigs)

	if c.Frontend.TracingConfigName != "" {
		if _, ok := c.TracingConfigs[c.Frontend.TracingConfigName]; !ok {
			return NewErrInvalidTracingName(c.Frontend.TracingConfigName)
		}
	}
	return nil
}

// Clone returns an exact copy of the subject *Config
func (c *Config) Clone() *Config {

	nc := NewConfig()

	nc.Main.InstanceID = c.Main.InstanceID
	nc.Main.ConfigHandlerPath = c.Main.ConfigHandlerPath
	nc.Main.PingHandlerPath = c.Main.PingHandlerPath
	nc.Main.HealthHandlerPath = c.Main.HealthHandlerPath
	nc.Main.ServerName = c.Main.ServerName

	nc.Main.configFilePath = c.Main.configFilePath
	nc.Main.configLastModified = c.Main.configLastModified
	nc.Main.configRateLimitTime = c.Main.configRateLimitTime

	nc.Frontend.ListenAddress = c.Frontend.ListenAddress
	nc.Frontend.ListenPort = c.Frontend.ListenPort
	nc.Frontend.ConnectionsLimit = c.Frontend.ConnectionsLimit
	nc.Frontend.TracingConfigName = c.Frontend.TracingConfigName
	nc.Frontend.Compression = c.Frontend.Compression

	nc.Dispatch.MaxPartBytes = c.Dispatch.MaxPartBytes
	nc.Dispatch.MaxBodyBytes = c.Dispatch.MaxBodyBytes
	nc.Dispatch.RequestTimeoutMS = c.Dispatch.RequestTimeoutMS
	nc.Dispatch.RequestTimeout = c.Dispatch.RequestTimeout

	nc.Logging.LogFile = c.Logging.LogFile
	nc.Logging.LogLevel = c.Logging.LogLevel

	nc.Metrics.ListenAddress = c.Metrics.ListenAddress
	nc.Metrics.ListenPort = c.Metrics.ListenPort

	nc.ReloadConfig.RateLimitMS = c.ReloadConfig.RateLimitMS
	nc.ReloadConfig.DrainTimeoutMS = c.ReloadConfig.DrainTimeoutMS

	nc.Resources = &Resources{
		QuitChan: make(chan bool, 1),
	}

	nc.TracingConfigs = make(map[string]*tracing.Options, len(c.TracingConfigs))
	for k, v := range c.TracingConfigs {
		nc.TracingConfigs[k] = v.Clone()
	}

	return nc
}

// IsStale returns true if the running config is stale versus the config on disk
func (c *Config) IsStale() bool {

	c.Main.stalenessCheckLock.Lock()
	defer c.Main.stalenessCheckLock.Unlock()

	if c.Main == nil || c.Main.configFilePath == "" ||
		time.Now().Before(c.Main.configRateLimitTime) {
		return false
	}

	if c.ReloadConfig == nil {
		c.ReloadConfig = &ReloadConfig{
			RateLimitMS:    d.DefaultReloadRateLimitMS,
			DrainTimeoutMS: d.DefaultDrainTimeoutMS,
		}
	}

	c.Main.configRateLimitTime =
		time.Now().Add(time.Millisecond * time.Duration(c.ReloadConfig.RateLimitMS))
	t := c.CheckFileLastModified()
	if t.IsZero() {
		return false
	}
	return t != c.Main.configLastModified
}

func (c *Config) String() string {
	cp := c.Clone()
	b, _ := yaml.Marshal(cp)
	return string(b)
}

// ConfigFilePath returns the file path from which this configuration is based
func (c *Config) ConfigFilePath() string {
	if c.Main != nil {
		return c.Main.configFilePath
	}
	return ""
}

// Equal returns true if the FrontendConfigs are identical in value
func (fc *FrontendConfig) Equal(fc2 *FrontendConfig) bool {
	return *fc == *fc2
}
