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

// Package routing populates the route table from the application and the
// running configuration
package routing

import (
	"net/http"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/router"
)

// RegisterFunc populates the route table with application routes. It is
// invoked on startup and again on each config reload, since every config
// (re)load builds a new router.
type RegisterFunc func(router.Router) error

// RegisterManagementRoutes registers the ping, health and running-config
// handlers at the paths named in the configuration
func RegisterManagementRoutes(r router.Router, conf *config.Config,
	startTime time.Time) error {

	type mgmtRoute struct {
		path    string
		handler handlers.Handler
	}

	for _, mr := range []mgmtRoute{
		{conf.Main.PingHandlerPath, handlers.Ping()},
		{conf.Main.HealthHandlerPath, handlers.Health(startTime)},
		{conf.Main.ConfigHandlerPath, handlers.Config(conf.String)},
	} {
		if mr.path == "" {
			continue
		}
		if err := r.RegisterRoute(http.MethodGet, mr.path, mr.handler); err != nil {
			return err
		}
		logger.Debug("management route registered",
			logging.Pairs{"path": mr.path})
	}
	return nil
}
