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

// Package httpserver drives the application server lifecycle: it applies the
// configuration, builds the route table and dispatcher, starts the frontend
// and metrics listeners, and rebuilds all of it on config reload
package httpserver

import (
	"net/http"
	"os"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/appinfo"
	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/dispatch"
	enchandler "github.com/switchyardhttp/switchyard/pkg/encoding/handler"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/httpserver/signal"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/level"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	lopts "github.com/switchyardhttp/switchyard/pkg/observability/logging/options"
	"github.com/switchyardhttp/switchyard/pkg/observability/metrics"
	tr "github.com/switchyardhttp/switchyard/pkg/observability/tracing/registration"
	"github.com/switchyardhttp/switchyard/pkg/router/sm"
	"github.com/switchyardhttp/switchyard/pkg/routing"
)

var _ signal.ServeFunc = Serve

var startTime = time.Now()

// Serve applies the provided configuration and runs the server loop until the
// listeners close. On reload it is invoked again with the freshly-loaded
// config and rebuilds the route table and dispatcher in place.
func Serve(conf *config.Config, wg *sync.WaitGroup,
	register routing.RegisterFunc, args []string, errorFunc func()) error {

	metrics.BuildInfo.WithLabelValues(goruntime.Version(),
		appinfo.GitCommitID, appinfo.Version).Set(1)

	if conf == nil {
		return errors.ErrInvalidOptions
	}

	return applyConfig(conf, wg, register, args, errorFunc)
}

var confLock sync.Mutex
var runningConf *config.Config

func applyConfig(conf *config.Config, wg *sync.WaitGroup,
	register routing.RegisterFunc, args []string, errorFunc func()) error {

	confLock.Lock()
	oldConf := runningConf
	confLock.Unlock()

	if conf.Main.ServerName == "" {
		conf.Main.ServerName, _ = os.Hostname()
	}
	appinfo.SetServer(conf.Main.ServerName)

	applyLoggingConfig(conf, oldConf)

	for _, w := range conf.LoaderWarnings {
		logger.Warn(w, nil)
	}

	tracers, err := tr.RegisterAll(conf, false)
	if err != nil {
		handleStartupIssue("tracing registration failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}

	// every config (re)load is a new router
	rt := sm.NewRouter()
	if err = routing.RegisterManagementRoutes(rt, conf, startTime); err != nil {
		handleStartupIssue("management route registration failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}
	if register != nil {
		if err = register(rt); err != nil {
			handleStartupIssue("route registration failed",
				logging.Pairs{"detail": err.Error()}, errorFunc)
			return err
		}
	}

	opts := dispatch.OptionsFromConfig(conf)
	if conf.Frontend.TracingConfigName != "" {
		opts.Tracer = tracers[conf.Frontend.TracingConfigName]
	}
	d, err := dispatch.New(rt, opts)
	if err != nil {
		handleStartupIssue("dispatcher construction failed",
			logging.Pairs{"detail": err.Error()}, errorFunc)
		return err
	}

	var h http.Handler = d
	if conf.Frontend.Compression {
		h = enchandler.HandleCompression(h, nil)
	}

	applyListenerConfigs(conf, oldConf, h, tracers, wg, errorFunc)

	confLock.Lock()
	runningConf = conf
	confLock.Unlock()

	// this signals the old hup monitor goroutine to exit
	if oldConf != nil && oldConf.Resources != nil && oldConf != conf {
		select {
		case oldConf.Resources.QuitChan <- true:
		default:
		}
	}
	signal.StartHupMonitor(conf, wg, register, args, Serve)

	return nil
}

func applyLoggingConfig(c, o *config.Config) {
	if c == nil || c.Logging == nil {
		return
	}
	if o != nil && o.Logging != nil {
		if c.Logging.LogFile == o.Logging.LogFile &&
			c.Logging.LogLevel == o.Logging.LogLevel {
			// no changes in logging config, keep the old logger intact
			return
		}
		if c.Logging.LogFile == o.Logging.LogFile {
			// the only change is the log level, so update it in place
			logger.SetLogLevel(level.Level(c.Logging.LogLevel))
			return
		}
		if o.Logging.LogFile != "" {
			// changing from file1 -> console or file1 -> file2, close file1.
			// the delay allows HTTP listeners to finish their log writes
			go delayedLogCloser(logger.Logger(),
				time.Duration(c.ReloadConfig.DrainTimeoutMS+1000)*time.Millisecond)
		}
	}
	initLogger(c)
}

func initLogger(c *config.Config) {
	lo := lopts.New()
	lo.LogFile = c.Logging.LogFile
	lo.LogLevel = c.Logging.LogLevel
	l := logging.New(lo, c.Main.InstanceID)
	logger.SetLogger(l)
	logger.Info("application loaded from configuration",
		logging.Pairs{
			"name":      appinfo.Name,
			"version":   appinfo.Version,
			"goVersion": goruntime.Version(),
			"goArch":    goruntime.GOARCH,
			"goOS":      goruntime.GOOS,
			"commitID":  appinfo.GitCommitID,
			"buildTime": appinfo.BuildTime,
			"logLevel":  c.Logging.LogLevel,
			"config":    c.ConfigFilePath(),
			"pid":       os.Getpid(),
		},
	)
}

func delayedLogCloser(l logging.Logger, delay time.Duration) {
	// outstanding http requests might still hold the old reference,
	// so allow time for those connections to drain before closing
	if l == nil {
		return
	}
	time.Sleep(delay)
	l.Close()
}

func handleStartupIssue(event string, detail logging.Pairs, errorFunc func()) {
	logger.Error(event, detail)
	if errorFunc != nil {
		errorFunc()
	}
}
