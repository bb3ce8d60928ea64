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

// Package errors provides the common error taxonomy for request matching,
// decoding and dispatch
package errors

import "errors"

// ErrNotFound indicates no registered pattern matches the request path
var ErrNotFound = errors.New("no route matches the request path")

// ErrMethodNotAllowed indicates a pattern matches the request path, but not
// for the request method
var ErrMethodNotAllowed = errors.New("method not allowed for the matched pattern")

// ErrMalformedPath indicates the request path contains an empty segment
var ErrMalformedPath = errors.New("malformed request path")

// ErrRouteConflict indicates a route registration collides with an
// already-registered (method, pattern) pair of equal specificity
var ErrRouteConflict = errors.New("conflicting route registration")

// ErrInvalidMethod indicates the provided method is not a known HTTP method
var ErrInvalidMethod = errors.New("invalid method value")

// ErrInvalidPattern indicates the provided route pattern could not be parsed
var ErrInvalidPattern = errors.New("invalid route pattern")

// ErrNilRouter indicates a nil Router was provided when one was expected
var ErrNilRouter = errors.New("nil router")

// ErrNilHandler indicates a nil Handler was provided when one was expected
var ErrNilHandler = errors.New("nil handler")

// ErrNilWriter is an error for a nil writer when a non-nil writer was expected
var ErrNilWriter = errors.New("nil writer")

// ErrInvalidOptions is an error for when a configuration is invalid
var ErrInvalidOptions = errors.New("invalid options")

// ErrNilListener is an error for a nil net.Listener when one was expected
var ErrNilListener = errors.New("nil listener")

// ErrNoSuchListener is an error for an unknown listener name
var ErrNoSuchListener = errors.New("no such listener")

// DecodeReason identifies why a request body failed to decode
type DecodeReason string

const (
	// InvalidJSON indicates a JSON body that did not parse
	InvalidJSON DecodeReason = "invalid-json"
	// InvalidForm indicates a urlencoded form body that did not parse
	InvalidForm DecodeReason = "invalid-form"
	// MalformedMultipart indicates a multipart body with corrupt framing or
	// a missing terminal boundary
	MalformedMultipart DecodeReason = "malformed-multipart"
	// PartTooLarge indicates a multipart part exceeded the configured
	// maximum part size
	PartTooLarge DecodeReason = "part-too-large"
	// BodyTooLarge indicates a non-multipart body exceeded the configured
	// maximum body size
	BodyTooLarge DecodeReason = "body-too-large"
)

// DecodeError is returned when a request body cannot be decoded. Reason
// carries the classification used for status code mapping, Detail the
// underlying cause.
type DecodeError struct {
	Reason DecodeReason
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return "decode error: " + string(e.Reason)
	}
	return "decode error: " + string(e.Reason) + ": " + e.Detail
}

// NewDecodeError returns a DecodeError for the provided reason and detail
func NewDecodeError(reason DecodeReason, detail string) *DecodeError {
	return &DecodeError{Reason: reason, Detail: detail}
}

// AsDecodeError unwraps err into a *DecodeError when it is one
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	ok := errors.As(err, &de)
	return de, ok
}
