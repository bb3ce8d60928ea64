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

// Package headers provides functionality for HTTP Headers not provided by
// the builtin net/http package
package headers

import (
	"net/http"
	"strconv"
)

const (
	// Common HTTP Header Values

	// ValueApplicationJSON represents the HTTP Header Value of "application/json"
	ValueApplicationJSON = "application/json"
	// ValueTextPlain represents the HTTP Header Value of "text/plain"
	ValueTextPlain = "text/plain"
	// ValueMultipartFormData represents the HTTP Header Value of "multipart/form-data"
	ValueMultipartFormData = "multipart/form-data"
	// ValueXFormURLEncoded represents the HTTP Header Value of "application/x-www-form-urlencoded"
	ValueXFormURLEncoded = "application/x-www-form-urlencoded"
	// ValueNoCache represents the HTTP Header Value of "no-cache"
	ValueNoCache = "no-cache"
	// ValueNoTransform represents the HTTP Header Value of "no-transform"
	ValueNoTransform = "no-transform"

	// Common HTTP Header Names

	// NameAcceptEncoding represents the HTTP Header Name of "Accept-Encoding"
	NameAcceptEncoding = "Accept-Encoding"
	// NameAllow represents the HTTP Header Name of "Allow"
	NameAllow = "Allow"
	// NameCacheControl represents the HTTP Header Name of "Cache-Control"
	NameCacheControl = "Cache-Control"
	// NameContentEncoding represents the HTTP Header Name of "Content-Encoding"
	NameContentEncoding = "Content-Encoding"
	// NameContentLength represents the HTTP Header Name of "Content-Length"
	NameContentLength = "Content-Length"
	// NameContentType represents the HTTP Header Name of "Content-Type"
	NameContentType = "Content-Type"
	// NameServer represents the HTTP Header Name of "Server"
	NameServer = "Server"
	// NameVary represents the HTTP Header Name of "Vary"
	NameVary = "Vary"
)

// Merge merges the source http.Header map into destination map d recursively
func Merge(d http.Header, s http.Header) {
	if len(s) == 0 {
		return
	}
	for k, sv := range s {
		if len(sv) == 0 {
			continue
		}
		d[k] = sv
	}
}

// SetContentLength sets the Content-Length header on the provided header map
func SetContentLength(h http.Header, l int) {
	h.Set(NameContentLength, strconv.Itoa(l))
}
