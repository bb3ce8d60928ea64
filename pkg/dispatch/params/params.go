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

// Package params provides the merged parameter set delivered to handlers:
// path parameters bound by the router, query parameters, and decoded body
// parameters including multipart file uploads
package params

import (
	"net/url"
	"strconv"

	tstr "github.com/switchyardhttp/switchyard/pkg/util/strings"
)

// FilePart is a decoded file upload carried in a multipart form body. The
// buffer is request-scoped: it is owned by the RequestParams that decoded it
// and released when the request completes.
type FilePart struct {
	// Field is the form field name the part was submitted under
	Field string
	// Filename is the original filename conveyed in Content-Disposition
	Filename string
	// ContentType is the part's own Content-Type, when provided
	ContentType string
	// Content holds the part's bytes, bounded by the configured max part size
	Content []byte
}

// Size returns the byte length of the part content
func (fp *FilePart) Size() int {
	return len(fp.Content)
}

// Release frees the part's buffer. The part must not be read after Release.
func (fp *FilePart) Release() {
	fp.Content = nil
}

// RequestParams is the parameter set produced for one request. Path, Query
// and Body are held separately so the merge precedence stays inspectable.
type RequestParams struct {
	// Path holds parameters bound from the route pattern
	Path tstr.Map
	// Query holds the parsed query string; values are multi-valued
	Query url.Values
	// Body holds decoded body parameters (form fields, non-file multipart
	// parts, or scalar members of a JSON object body)
	Body url.Values
	// Files holds decoded multipart file parts in submission order
	Files []*FilePart
	// Document holds the fully-decoded JSON body, when the request carried one
	Document any
}

// New returns an empty RequestParams
func New() *RequestParams {
	return &RequestParams{
		Path:  make(tstr.Map),
		Query: make(url.Values),
		Body:  make(url.Values),
	}
}

// Get returns the named parameter and whether it was present. When the same
// name appears in multiple sources, precedence is: path over query, query
// over body. This ordering is part of the handler contract.
func (p *RequestParams) Get(name string) (string, bool) {
	if v, ok := p.Path[name]; ok {
		return v, true
	}
	if v, ok := p.Query[name]; ok && len(v) > 0 {
		return v[0], true
	}
	if v, ok := p.Body[name]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

// Values returns all values for the named parameter from the highest-
// precedence source that provides it (path > query > body)
func (p *RequestParams) Values(name string) []string {
	if v, ok := p.Path[name]; ok {
		return []string{v}
	}
	if v, ok := p.Query[name]; ok && len(v) > 0 {
		return v
	}
	if v, ok := p.Body[name]; ok && len(v) > 0 {
		return v
	}
	return nil
}

// GetInt returns the named parameter as an int
func (p *RequestParams) GetInt(name string) (int, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, tstr.ErrKeyNotInMap
	}
	return strconv.Atoi(v)
}

// GetFloat returns the named parameter as a float64
func (p *RequestParams) GetFloat(name string) (float64, error) {
	v, ok := p.Get(name)
	if !ok {
		return 0, tstr.ErrKeyNotInMap
	}
	return strconv.ParseFloat(v, 64)
}

// GetBool returns the named parameter as a bool
func (p *RequestParams) GetBool(name string) (bool, error) {
	v, ok := p.Get(name)
	if !ok {
		return false, tstr.ErrKeyNotInMap
	}
	return strconv.ParseBool(v)
}

// File returns the first file part submitted under the provided field name
func (p *RequestParams) File(field string) *FilePart {
	for _, fp := range p.Files {
		if fp.Field == field {
			return fp
		}
	}
	return nil
}

// Release frees all file part buffers. The dispatcher calls this once the
// response has been flushed; buffers are never retained across requests.
func (p *RequestParams) Release() {
	if p == nil {
		return
	}
	for _, fp := range p.Files {
		fp.Release()
	}
	p.Files = nil
}
