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

// Package signal monitors SIGHUP to trigger in-process config reloads
package signal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/routing"
)

var hups = make(chan os.Signal, 1)

func init() {
	signal.Notify(hups, syscall.SIGHUP)
}

// ServeFunc is the signature of the httpserver's Serve entrypoint, which a
// reload invokes with a freshly-loaded config
type ServeFunc = func(*config.Config, *sync.WaitGroup, routing.RegisterFunc,
	[]string, func()) error

// StartHupMonitor starts a goroutine that reloads the running configuration
// when the process receives a SIGHUP and the config file has changed
func StartHupMonitor(conf *config.Config, wg *sync.WaitGroup,
	register routing.RegisterFunc, args []string, f ServeFunc) {
	if conf == nil || conf.Resources == nil || f == nil {
		return
	}
	go func() {
		for {
			select {
			case <-hups:
				conf.Main.ReloaderLock.Lock()
				if conf.IsStale() {
					logger.Warn("configuration reload starting now",
						logging.Pairs{"source": "sighup"})
					nc, _, err := config.Load(os.Args[0], "", args)
					if err == nil {
						err = f(nc, wg, register, args, nil)
					}
					if err == nil {
						conf.Main.ReloaderLock.Unlock()
						return // Serve starts a new HupMonitor in place of this one
					}
				}
				conf.Main.ReloaderLock.Unlock()
				logger.Warn("configuration NOT reloaded", nil)
			case <-conf.Resources.QuitChan:
				return
			}
		}
	}()
}
