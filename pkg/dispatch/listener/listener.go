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

// Package listener provides the frontend network listeners, with connection
// limiting, connection metrics and graceful drain on reload or shutdown
package listener

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/logger"
	"github.com/switchyardhttp/switchyard/pkg/observability/metrics"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"

	"golang.org/x/net/netutil"
)

// Listener is the Switchyard net.Listener implementation
type Listener struct {
	net.Listener
	routeSwapper *handlers.SwitchHandler
	server       *http.Server
	exitOnError  bool
}

type observedConnection struct {
	*net.TCPConn
}

func (o *observedConnection) Close() error {
	err := o.TCPConn.Close()
	metrics.FrontendActiveConnections.Dec()
	metrics.FrontendConnectionClosed.Inc()
	return err
}

// Accept implements Listener.Accept
func (l *Listener) Accept() (net.Conn, error) {

	metrics.FrontendConnectionRequested.Inc()

	c, err := l.Listener.Accept()
	if err != nil {
		metrics.FrontendConnectionFailed.Inc()
		return c, err
	}

	metrics.FrontendActiveConnections.Inc()
	metrics.FrontendConnectionAccepted.Inc()

	// this is necessary for HTTP/2 to work
	if t, ok := c.(*net.TCPConn); ok {
		return &observedConnection{t}, nil
	}

	return c, nil
}

// RouteSwapper returns the RouteSwapper reference from the Listener
func (l *Listener) RouteSwapper() *handlers.SwitchHandler {
	return l.routeSwapper
}

// ListenerGroup is a collection of listeners
type ListenerGroup struct {
	members       map[string]*Listener
	listenersLock sync.Mutex
}

// NewListenerGroup returns a new ListenerGroup
func NewListenerGroup() *ListenerGroup {
	return &ListenerGroup{
		members: make(map[string]*Listener),
	}
}

// NewListener creates a new network listener which obeys the configured max
// connection limit and monitors connections with prometheus metrics.
//
// The limiter blocks waiting for resources to become available whenever
// clients go above the limit.
func NewListener(listenAddress string, listenPort,
	connectionsLimit int) (net.Listener, error) {

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", listenAddress, listenPort))
	if err != nil {
		// so we can exit one level above, this usually means that the port is in use
		return nil, err
	}

	if connectionsLimit > 0 {
		listener = netutil.LimitListener(listener, connectionsLimit)
		metrics.FrontendMaxConnections.Set(float64(connectionsLimit))
	}

	logger.Debug("starting frontend listener", logging.Pairs{
		"connectionsLimit": connectionsLimit,
		"address":          listenAddress,
		"port":             listenPort,
	})

	return listener, nil
}

// Get returns the listener if it exists
func (lg *ListenerGroup) Get(name string) *Listener {
	lg.listenersLock.Lock()
	l, ok := lg.members[name]
	lg.listenersLock.Unlock()
	if ok {
		return l
	}
	return nil
}

// StartListener starts a new HTTP listener and adds it to the listener group.
// It blocks until the listener closes. When f is non-nil it is invoked on
// listener startup failure, and serve errors exit the process.
func (lg *ListenerGroup) StartListener(listenerName, address string, port,
	connectionsLimit int, h http.Handler, tracers tracing.Tracers,
	f func()) error {

	l := &Listener{routeSwapper: handlers.NewSwitchHandler(h), exitOnError: f != nil}

	var err error
	l.Listener, err = NewListener(address, port, connectionsLimit)
	if err != nil {
		logger.Error("http listener startup failed",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if f != nil {
			f()
		}
		return err
	}
	logger.Info("http listener starting",
		logging.Pairs{"listenerName": listenerName, "port": port, "address": address})

	lg.listenersLock.Lock()
	lg.members[listenerName] = l
	lg.listenersLock.Unlock()

	// defer the tracer flush here where the listener connection ends
	defer handleTracerShutdowns(tracers)

	svr := &http.Server{
		Handler: l.routeSwapper,
	}
	l.server = svr
	err = svr.Serve(l)
	if err != nil {
		logger.Error("http listener stopping",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if l.exitOnError {
			defer func() {
				os.Exit(1) // exit via defer to allow prior defers to run
			}()
		}
	}
	return err
}

func handleTracerShutdowns(tracers tracing.Tracers) {
	for _, v := range tracers {
		if v == nil || v.ShutdownFunc == nil {
			continue
		}
		err := v.ShutdownFunc(context.Background())
		if err != nil {
			logger.Error("tracer shutdown failed",
				logging.Pairs{"detail": err.Error()})
		}
	}
}

// DrainAndClose drains and closes the named listener
func (lg *ListenerGroup) DrainAndClose(listenerName string, drainWait time.Duration) error {
	lg.listenersLock.Lock()
	if l, ok := lg.members[listenerName]; ok && l != nil {
		l.exitOnError = false
		delete(lg.members, listenerName)
		lg.listenersLock.Unlock()
		if l.Listener == nil {
			return errors.ErrNilListener
		}
		if l.server != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), drainWait)
				defer cancel()
				l.server.Shutdown(ctx)
			}()
		}
		return nil
	}
	lg.listenersLock.Unlock()
	return errors.ErrNoSuchListener
}

// UpdateRouter swaps out the handler of the named Listener with the provided one
func (lg *ListenerGroup) UpdateRouter(listenerName string, h http.Handler) {
	lg.listenersLock.Lock()
	defer lg.listenersLock.Unlock()
	if l, ok := lg.members[listenerName]; ok {
		l.routeSwapper.Update(h)
	}
}
