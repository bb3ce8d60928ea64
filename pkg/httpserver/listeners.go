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

package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/config"
	d "github.com/switchyardhttp/switchyard/pkg/config/defaults"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/listener"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/observability/metrics"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"
)

const frontendListenerName = "frontendHTTP"

var lg = listener.NewListenerGroup()

var metricsListenerStarted bool
var metricsListenerLock sync.Mutex

func applyListenerConfigs(conf, oldConf *config.Config, h http.Handler,
	tracers tracing.Tracers, wg *sync.WaitGroup, errorFunc func()) {

	var drainTimeout = time.Duration(d.DefaultDrainTimeoutMS) * time.Millisecond
	if conf != nil && conf.ReloadConfig != nil {
		drainTimeout = time.Duration(conf.ReloadConfig.DrainTimeoutMS) * time.Millisecond
	}

	startMetricsListener(conf, wg)

	if oldConf != nil && oldConf.Frontend.Equal(conf.Frontend) {
		// the frontend listener config is unchanged, so keep the existing
		// listener and swap in the new route table under it
		lg.UpdateRouter(frontendListenerName, h)
		return
	}

	if oldConf != nil {
		if oldConf.Frontend.ConnectionsLimit != conf.Frontend.ConnectionsLimit {
			logger.Warn("connections limit change requires a restart to take effect",
				logging.Pairs{
					"oldLimit": oldConf.Frontend.ConnectionsLimit,
					"newLimit": conf.Frontend.ConnectionsLimit,
				})
		}
		if err := lg.DrainAndClose(frontendListenerName, drainTimeout); err != nil {
			logger.Error("frontend listener close failed",
				logging.Pairs{"detail": err.Error()})
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := lg.StartListener(frontendListenerName,
			conf.Frontend.ListenAddress, conf.Frontend.ListenPort,
			conf.Frontend.ConnectionsLimit, h, tracers, errorFunc)
		if err != nil {
			logger.Error("frontend listener exited",
				logging.Pairs{"detail": err.Error()})
		}
	}()
}

func startMetricsListener(conf *config.Config, wg *sync.WaitGroup) {
	if conf == nil || conf.Metrics == nil || conf.Metrics.ListenPort <= 0 {
		return
	}
	metricsListenerLock.Lock()
	defer metricsListenerLock.Unlock()
	if metricsListenerStarted {
		// the metrics listener survives reloads; port changes require a restart
		return
	}
	metricsListenerStarted = true
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := metrics.ListenAndServe(conf.Metrics.ListenAddress,
			conf.Metrics.ListenPort); err != nil {
			logger.Error("metrics listener exited",
				logging.Pairs{"detail": err.Error()})
		}
	}()
}
