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

package dispatch

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/body"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
	"github.com/switchyardhttp/switchyard/pkg/errors"
	"github.com/switchyardhttp/switchyard/pkg/router"
	"github.com/switchyardhttp/switchyard/pkg/router/sm"
)

func echoHandler(name string) handlers.Handler {
	return handlers.HandlerFunc(func(_ context.Context, _ *http.Request,
		p *params.RequestParams) (*response.Response, error) {
		v, _ := p.Get(name)
		return response.NewText(http.StatusOK, v), nil
	})
}

func newTestDispatcher(t *testing.T, timeout time.Duration) (*Dispatcher, router.Router) {
	t.Helper()
	rt := sm.NewRouter()
	register := func(method, pattern string, h handlers.Handler) {
		if err := rt.RegisterRoute(method, pattern, h); err != nil {
			t.Fatal(err)
		}
	}
	register(http.MethodGet, "/users/{id}", echoHandler("id"))
	register(http.MethodPost, "/users", echoHandler("name"))
	register(http.MethodGet, "/files/{name:path}", echoHandler("name"))
	register(http.MethodPost, "/upload",
		handlers.HandlerFunc(func(_ context.Context, _ *http.Request,
			p *params.RequestParams) (*response.Response, error) {
			fp := p.File("avatar")
			if fp == nil {
				return nil, response.NewError(http.StatusBadRequest, "missing file part")
			}
			return response.NewText(http.StatusOK, fp.Filename), nil
		}))
	register(http.MethodGet, "/slow",
		handlers.HandlerFunc(func(ctx context.Context, _ *http.Request,
			_ *params.RequestParams) (*response.Response, error) {
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return response.NewText(http.StatusOK, "done"), nil
		}))
	register(http.MethodGet, "/panic",
		handlers.HandlerFunc(func(_ context.Context, _ *http.Request,
			_ *params.RequestParams) (*response.Response, error) {
			panic("boom")
		}))
	d, err := New(rt, &Options{
		Body:           &body.Options{MaxPartBytes: 1024, MaxBodyBytes: 8192},
		RequestTimeout: timeout,
		ServerName:     "switchyard-test",
	})
	if err != nil {
		t.Fatal(err)
	}
	return d, rt
}

func TestDispatchPathParam(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "42" {
		t.Errorf("expected %s got %s", "42", w.Body.String())
	}
	if sv := w.Header().Get(headers.NameServer); sv != "switchyard-test" {
		t.Errorf("expected %s got %s", "switchyard-test", sv)
	}
}

func TestDispatchCatchAllParam(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/docs/a/b.txt", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "docs/a/b.txt" {
		t.Errorf("expected %s got %s", "docs/a/b.txt", w.Body.String())
	}
}

func TestDispatchNotFound(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected %d got %d", http.StatusNotFound, w.Code)
	}
	if ct := w.Header().Get(headers.NameContentType); ct != headers.ValueApplicationJSON+"; charset=UTF-8" {
		t.Errorf("unexpected content type %s", ct)
	}
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/42", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected %d got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if allow := w.Header().Get(headers.NameAllow); allow != "GET, HEAD" {
		t.Errorf("expected %s got %s", "GET, HEAD", allow)
	}
}

func TestDispatchMalformedPath(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users//42", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected %d got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDispatchBodyParam(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader("name=ann"))
	r.Header.Set(headers.NameContentType, headers.ValueXFormURLEncoded)
	d.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "ann" {
		t.Errorf("expected %s got %s", "ann", w.Body.String())
	}
}

func TestDispatchQueryOverridesBody(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/users?name=bea",
		strings.NewReader("name=ann"))
	r.Header.Set(headers.NameContentType, headers.ValueXFormURLEncoded)
	d.ServeHTTP(w, r)
	if w.Body.String() != "bea" {
		t.Errorf("expected %s got %s", "bea", w.Body.String())
	}
}

func TestDispatchInvalidJSON(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader("{not json"))
	r.Header.Set(headers.NameContentType, headers.ValueApplicationJSON)
	d.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected %d got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDispatchPartTooLarge(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(bytes.Repeat([]byte("x"), 2048))
	mw.Close()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/upload", buf)
	r.Header.Set(headers.NameContentType, mw.FormDataContentType())
	d.ServeHTTP(w, r)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected %d got %d", http.StatusRequestEntityTooLarge, w.Code)
	}
}

func TestDispatchFileUpload(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(bytes.Repeat([]byte("x"), 512))
	mw.Close()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/upload", buf)
	r.Header.Set(headers.NameContentType, mw.FormDataContentType())
	d.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "avatar.png" {
		t.Errorf("expected %s got %s", "avatar.png", w.Body.String())
	}
}

func TestDispatchHandlerTimeout(t *testing.T) {
	d, _ := newTestDispatcher(t, 50*time.Millisecond)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected %d got %d", http.StatusGatewayTimeout, w.Code)
	}
}

// stalledReader blocks on Read until unblocked, like a client that opens a
// request and then stops sending body bytes
type stalledReader struct {
	unblock chan struct{}
}

func (s *stalledReader) Read([]byte) (int, error) {
	<-s.unblock
	return 0, io.EOF
}

func TestDispatchDecodeTimeout(t *testing.T) {
	d, _ := newTestDispatcher(t, 50*time.Millisecond)
	sr := &stalledReader{unblock: make(chan struct{})}
	defer close(sr.unblock)
	r := httptest.NewRequest(http.MethodPost, "/users", sr)
	r.Header.Set(headers.NameContentType, headers.ValueApplicationJSON)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		d.ServeHTTP(w, r)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch still blocked after the request timeout expired")
	}
	if w.Code != http.StatusRequestTimeout {
		t.Errorf("expected %d got %d", http.StatusRequestTimeout, w.Code)
	}
}

func TestDispatchHandlerPanic(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected %d got %d", http.StatusInternalServerError, w.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("expected panic detail to be withheld from the response")
	}
}

func TestDispatchHeadTwin(t *testing.T) {
	d, _ := newTestDispatcher(t, 0)
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/users/42", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body got %d bytes", w.Body.Len())
	}
	if cl := w.Header().Get(headers.NameContentLength); cl != "2" {
		t.Errorf("expected %s got %s", "2", cl)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	rt := sm.NewRouter()
	rt.RegisterRoute(http.MethodGet, "/teapot",
		handlers.HandlerFunc(func(_ context.Context, _ *http.Request,
			_ *params.RequestParams) (*response.Response, error) {
			return nil, response.NewError(http.StatusTeapot, "short and stout")
		}))
	d, err := New(rt, &Options{ServerName: "switchyard-test"})
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	d.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("expected %d got %d", http.StatusTeapot, w.Code)
	}
	if !strings.Contains(w.Body.String(), "short and stout") {
		t.Errorf("expected error detail in body, got %s", w.Body.String())
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err      error
		ph       phase
		expected int
	}{
		{errors.ErrNotFound, phaseReceived, http.StatusNotFound},
		{errors.ErrMethodNotAllowed, phaseReceived, http.StatusMethodNotAllowed},
		{errors.ErrMalformedPath, phaseReceived, http.StatusBadRequest},
		{errors.NewDecodeError(errors.InvalidJSON, "x"), phaseMatched, http.StatusBadRequest},
		{errors.NewDecodeError(errors.PartTooLarge, "x"), phaseMatched,
			http.StatusRequestEntityTooLarge},
		{errors.NewDecodeError(errors.BodyTooLarge, "x"), phaseMatched,
			http.StatusRequestEntityTooLarge},
		{context.DeadlineExceeded, phaseMatched, http.StatusRequestTimeout},
		{context.DeadlineExceeded, phaseDecoded, http.StatusGatewayTimeout},
		{response.NewError(http.StatusConflict, "x"), phaseDecoded, http.StatusConflict},
		{context.Canceled, phaseDecoded, http.StatusInternalServerError},
	}
	for i, test := range tests {
		if got := statusForError(test.err, test.ph); got != test.expected {
			t.Errorf("test %d expected %d got %d", i, test.expected, got)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, &Options{}); err != errors.ErrNilRouter {
		t.Errorf("expected %v got %v", errors.ErrNilRouter, err)
	}
	if _, err := New(sm.NewRouter(), nil); err != errors.ErrInvalidOptions {
		t.Errorf("expected %v got %v", errors.ErrInvalidOptions, err)
	}
}
