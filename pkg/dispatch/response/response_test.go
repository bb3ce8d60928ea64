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

package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
)

func TestNewText(t *testing.T) {
	r := NewText(http.StatusTeapot, "short and stout")
	w := httptest.NewRecorder()
	r.Write(w)
	if w.Code != http.StatusTeapot {
		t.Errorf("expected %d got %d", http.StatusTeapot, w.Code)
	}
	if w.Body.String() != "short and stout" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if ct := w.Header().Get(headers.NameContentType); ct != headers.ValueTextPlain {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestNewJSON(t *testing.T) {
	r, err := NewJSON(0, map[string]string{"message": "Hello World"})
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	r.Write(w)
	if w.Code != http.StatusOK {
		t.Errorf("expected %d got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"Hello World"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if _, err = NewJSON(http.StatusOK, func() {}); err == nil {
		t.Error("expected marshal error")
	}
}

func TestNewError(t *testing.T) {
	e := NewError(http.StatusBadRequest, "bad input")
	if e.Status != http.StatusBadRequest {
		t.Errorf("expected %d got %d", http.StatusBadRequest, e.Status)
	}
	if !strings.Contains(e.Error(), "bad input") {
		t.Errorf("unexpected error string: %s", e.Error())
	}
	// out-of-range statuses collapse to 500
	if e = NewError(200, "nope"); e.Status != http.StatusInternalServerError {
		t.Errorf("expected %d got %d", http.StatusInternalServerError, e.Status)
	}
}
