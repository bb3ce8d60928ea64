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

// Package response provides the Response produced by handlers and the
// dispatcher, and its serialization onto an http.ResponseWriter
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
)

// Response is the result of one dispatched request: a status code, headers,
// and body bytes. A Response is produced once per request and is not
// modified after construction.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New returns a Response with the provided status code and an empty header map
func New(statusCode int) *Response {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &Response{StatusCode: statusCode, Header: make(http.Header)}
}

// NewText returns a text/plain Response with the provided status and body
func NewText(statusCode int, body string) *Response {
	r := New(statusCode)
	r.Header.Set(headers.NameContentType, headers.ValueTextPlain)
	r.Body = []byte(body)
	return r
}

// NewJSON returns an application/json Response wrapping the marshaled value
func NewJSON(statusCode int, v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r := New(statusCode)
	r.Header.Set(headers.NameContentType,
		fmt.Sprintf("%s; charset=UTF-8", headers.ValueApplicationJSON))
	r.Body = b
	return r, nil
}

// Write serializes the Response onto the provided http.ResponseWriter. The
// status line and headers are written exactly once.
func (r *Response) Write(w http.ResponseWriter) {
	h := w.Header()
	for k, v := range r.Header {
		if len(v) == 0 {
			continue
		}
		h[k] = v
	}
	sc := r.StatusCode
	if sc == 0 {
		sc = http.StatusOK
	}
	w.WriteHeader(sc)
	if len(r.Body) > 0 {
		w.Write(r.Body)
	}
}

// Error is a structured handler failure. Handlers return it (or wrap it) to
// control the status code of the failure response; any other handler error
// is treated as an internal fault and mapped to a generic 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// NewError returns a structured handler Error
func NewError(status int, message string) *Error {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	return &Error{Status: status, Message: message}
}
