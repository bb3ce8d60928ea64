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

// Package route provides the Route type and route pattern compilation
package route

import (
	"strings"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/handlers"
	"github.com/switchyardhttp/switchyard/pkg/errors"
)

// SegmentKind classifies one segment of a compiled route pattern
type SegmentKind int

const (
	// Literal segments must match a path segment exactly
	Literal SegmentKind = iota
	// Param segments match any single non-empty path segment and bind it
	Param
	// CatchAll segments match the non-empty remainder of the path; only
	// valid as the final segment of a pattern
	CatchAll
)

// Segment is one compiled segment of a route pattern
type Segment struct {
	Kind    SegmentKind
	Literal string
	Name    string
}

// Route maps one (method, pattern) pair to a handler
type Route struct {
	Method   string
	Pattern  string
	Segments []Segment
	Handler  handlers.Handler
	// Implicit marks a HEAD route the router derived from a GET
	// registration. An explicit HEAD registration replaces it.
	Implicit bool
}

// Params holds path parameters bound during a lookup
type Params map[string]string

// Lookup is a map of Routes keyed by method
type Lookup map[string]*Route

// ParsePattern compiles a pattern string into its segment sequence. Patterns
// begin with a slash and contain literal segments, {name} parameter segments,
// and an optional trailing {name:path} catch-all. A single trailing slash is
// ignored; empty inner segments are invalid.
func ParsePattern(pattern string) ([]Segment, error) {
	if len(pattern) == 0 || pattern[0] != '/' {
		return nil, errors.ErrInvalidPattern
	}
	if pattern == "/" {
		return []Segment{}, nil
	}
	p := strings.TrimSuffix(pattern[1:], "/")
	parts := strings.Split(p, "/")
	segments := make([]Segment, len(parts))
	names := make(map[string]bool, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, errors.ErrInvalidPattern
		}
		if part[0] == '{' {
			if part[len(part)-1] != '}' {
				return nil, errors.ErrInvalidPattern
			}
			name := part[1 : len(part)-1]
			kind := Param
			if n, ok := strings.CutSuffix(name, ":path"); ok {
				name = n
				kind = CatchAll
			}
			if name == "" || strings.ContainsAny(name, "{}:/") {
				return nil, errors.ErrInvalidPattern
			}
			if kind == CatchAll && i != len(parts)-1 {
				return nil, errors.ErrInvalidPattern
			}
			if names[name] {
				return nil, errors.ErrInvalidPattern
			}
			names[name] = true
			segments[i] = Segment{Kind: kind, Name: name}
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, errors.ErrInvalidPattern
		}
		segments[i] = Segment{Kind: Literal, Literal: part}
	}
	return segments, nil
}

// Signature returns the shape of a segment sequence: literal text for
// literal segments, placeholders for parameters. Two patterns with the same
// signature match exactly the same set of paths with equal specificity, so
// registering both for one method is a conflict.
func Signature(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		switch s.Kind {
		case Literal:
			sb.WriteString(s.Literal)
		case Param:
			sb.WriteString("{}")
		case CatchAll:
			sb.WriteString("{...}")
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// IsStatic returns true when the segment sequence contains no parameters
func IsStatic(segments []Segment) bool {
	for _, s := range segments {
		if s.Kind != Literal {
			return false
		}
	}
	return true
}

// Compare orders two segment sequences by specificity: negative when a is
// more specific than b. Segments are compared left to right; a literal
// outranks a parameter, a parameter outranks a catch-all. With the shapes
// equal through the shorter pattern, the longer pattern wins.
func Compare(a, b []Segment) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if d := int(a[i].Kind) - int(b[i].Kind); d != 0 {
			return d
		}
	}
	return len(b) - len(a)
}

// SplitPath splits a request path into its segments, applying the single
// documented normalization: one trailing slash is stripped, so a path with a
// trailing slash matches a pattern without one and vice versa. An empty
// inner segment (double slash) returns ErrMalformedPath.
func SplitPath(path string) ([]string, error) {
	if len(path) == 0 || path[0] != '/' {
		return nil, errors.ErrMalformedPath
	}
	if path == "/" {
		return []string{}, nil
	}
	p := strings.TrimSuffix(path[1:], "/")
	if p == "" {
		// "//" normalizes to an empty segment, not to the root
		return nil, errors.ErrMalformedPath
	}
	parts := strings.Split(p, "/")
	for _, part := range parts {
		if part == "" {
			return nil, errors.ErrMalformedPath
		}
	}
	return parts, nil
}
