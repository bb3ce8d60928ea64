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

// Package handler provides response compression as an http.Handler wrapper
package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/encoding/brotli"
	"github.com/switchyardhttp/switchyard/pkg/encoding/deflate"
	"github.com/switchyardhttp/switchyard/pkg/encoding/gzip"
	"github.com/switchyardhttp/switchyard/pkg/encoding/providers"
	"github.com/switchyardhttp/switchyard/pkg/encoding/zstd"
	strutil "github.com/switchyardhttp/switchyard/pkg/util/strings"
)

// DefaultCompressTypes lists the content types the compression handler
// will encode when no custom list is provided
var DefaultCompressTypes = strutil.NewLookup([]string{
	headers.ValueApplicationJSON,
	headers.ValueTextPlain,
	"text/html",
	"text/css",
	"application/javascript",
	"application/xml",
	"image/svg+xml",
})

// HandleCompression wraps next in a compression writer. Responses whose
// Content-Type appears in compressTypes are encoded with the best encoding
// the client accepts; all others pass through untouched.
func HandleCompression(next http.Handler, compressTypes strutil.Lookup) http.Handler {
	if compressTypes == nil {
		compressTypes = DefaultCompressTypes
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// a client's no-transform is honored by serving as-is
		if strings.Contains(r.Header.Get(headers.NameCacheControl),
			headers.ValueNoTransform) {
			next.ServeHTTP(w, r)
			return
		}

		p := providers.Negotiate(r.Header.Get(headers.NameAcceptEncoding))
		if p == providers.Identity {
			next.ServeHTTP(w, r)
			return
		}

		ew := &encodingWriter{
			ResponseWriter: w,
			provider:       p,
			compressTypes:  compressTypes,
		}
		next.ServeHTTP(ew, r)
		ew.Close()
	})
}

type encodingWriter struct {
	http.ResponseWriter
	provider      providers.Provider
	compressTypes strutil.Lookup
	prepared      bool
	encoder       io.WriteCloser
}

func (ew *encodingWriter) WriteHeader(c int) {
	if !ew.prepared {
		ew.prepare()
	}
	ew.ResponseWriter.WriteHeader(c)
}

func (ew *encodingWriter) Write(b []byte) (int, error) {
	if !ew.prepared {
		ew.prepare()
	}
	if ew.encoder != nil {
		return ew.encoder.Write(b)
	}
	return ew.ResponseWriter.Write(b)
}

// Close flushes and closes the underlying encoder, if one was wired
func (ew *encodingWriter) Close() error {
	if ew.encoder != nil {
		return ew.encoder.Close()
	}
	return nil
}

// prepare inspects the response headers on first write and wires up the
// encoder when the content type is in the compressible list
func (ew *encodingWriter) prepare() {
	ew.prepared = true
	h := ew.Header()
	if h.Get(headers.NameContentEncoding) != "" {
		return
	}
	ct := h.Get(headers.NameContentType)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := ew.compressTypes[ct]; !ok {
		return
	}
	ew.encoder = newEncoder(ew.provider, ew.ResponseWriter)
	if ew.encoder == nil {
		return
	}
	h.Del(headers.NameContentLength)
	h.Set(headers.NameContentEncoding, ew.provider.String())
	h.Add(headers.NameVary, headers.NameAcceptEncoding)
}

func newEncoder(p providers.Provider, w io.Writer) io.WriteCloser {
	switch p {
	case providers.Zstandard:
		return zstd.NewEncoder(w, -1)
	case providers.Brotli:
		return brotli.NewEncoder(w, -1)
	case providers.GZip:
		return gzip.NewEncoder(w, -1)
	case providers.Deflate:
		return deflate.NewEncoder(w, -1)
	}
	return nil
}
