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

package listener

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing"
	"github.com/switchyardhttp/switchyard/pkg/observability/tracing/exporters/stdout"
)

func TestListeners(t *testing.T) {
	tr, _ := stdout.New(nil)
	tr.ShutdownFunc = func(_ context.Context) error { return nil }
	trs := map[string]*tracing.Tracer{"default": tr}
	testLG := NewListenerGroup()

	var err error
	go func() {
		err = testLG.StartListener("httpListener",
			"", 0, 20, http.NewServeMux(), trs, nil)
	}()

	time.Sleep(time.Millisecond * 300)
	l := testLG.Get("httpListener")
	if l == nil {
		t.Fatal("expected registered listener")
	}
	l.Close()
	time.Sleep(time.Millisecond * 100)
	if err == nil {
		t.Error("expected non-nil err")
	}

	if err = testLG.StartListener("testBadPort",
		"", -31, 20, http.NewServeMux(), trs, nil); err == nil {
		t.Error("expected invalid port error")
	}
}

func TestNewListenerLimited(t *testing.T) {
	l, err := NewListener("", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	// a limited listener is wrapped, so the concrete type changes
	if _, ok := l.(*Listener); ok {
		t.Error("expected limit-wrapped listener")
	}
}

func TestUpdateRouter(t *testing.T) {
	testLG := NewListenerGroup()
	testLG.members["test"] = &Listener{routeSwapper: handlers.NewSwitchHandler(nil)}
	r := http.NewServeMux()
	testLG.UpdateRouter("test", r)
	if testLG.members["test"].routeSwapper.Handler() != r {
		t.Error("router mismatch")
	}
}

func TestDrainAndClose(t *testing.T) {
	testLG := NewListenerGroup()
	if err := testLG.DrainAndClose("nope", 0); err != errors.ErrNoSuchListener {
		t.Errorf("expected %v got %v", errors.ErrNoSuchListener, err)
	}
	testLG.members["beta"] = &Listener{}
	if err := testLG.DrainAndClose("beta", 0); err != errors.ErrNilListener {
		t.Errorf("expected %v got %v", errors.ErrNilListener, err)
	}
}
