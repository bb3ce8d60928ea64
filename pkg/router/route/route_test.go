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

package route

import (
	"testing"

	"github.com/switchyardhttp/switchyard/pkg/errors"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		pattern string
		sig     string
		err     error
	}{
		{"/", "/", nil},
		{"/users", "/users", nil},
		{"/users/", "/users", nil},
		{"/users/{id}", "/users/{}", nil},
		{"/users/{id}/posts/{post}", "/users/{}/posts/{}", nil},
		{"/files/{file_path:path}", "/files/{...}", nil},
		{"", "", errors.ErrInvalidPattern},
		{"users", "", errors.ErrInvalidPattern},
		{"/users//posts", "", errors.ErrInvalidPattern},
		{"/users/{id", "", errors.ErrInvalidPattern},
		{"/users/{}", "", errors.ErrInvalidPattern},
		{"/users/{id}x", "", errors.ErrInvalidPattern},
		{"/users/{a}/{a}", "", errors.ErrInvalidPattern},
		{"/files/{p:path}/x", "", errors.ErrInvalidPattern},
		{"/files/{:path}", "", errors.ErrInvalidPattern},
	}
	for _, test := range tests {
		segments, err := ParsePattern(test.pattern)
		if err != test.err {
			t.Errorf("pattern %q: expected error %v got %v", test.pattern, test.err, err)
			continue
		}
		if err != nil {
			continue
		}
		if sig := Signature(segments); sig != test.sig {
			t.Errorf("pattern %q: expected signature %s got %s", test.pattern, test.sig, sig)
		}
	}
}

func TestCompare(t *testing.T) {
	seg := func(pattern string) []Segment {
		s, err := ParsePattern(pattern)
		if err != nil {
			t.Fatalf("pattern %q: %v", pattern, err)
		}
		return s
	}
	// literal beats param at the first differing position
	if Compare(seg("/users/me"), seg("/users/{id}")) >= 0 {
		t.Error("expected /users/me to be more specific than /users/{id}")
	}
	// param beats catch-all
	if Compare(seg("/files/{name}"), seg("/files/{p:path}")) >= 0 {
		t.Error("expected /files/{name} to be more specific than /files/{p:path}")
	}
	// longer wins when shapes are equal through the shorter
	if Compare(seg("/a/{x}/c"), seg("/a/{x}")) >= 0 {
		t.Error("expected the longer pattern to be more specific")
	}
	// full tie
	if Compare(seg("/users/{id}"), seg("/users/{name}")) != 0 {
		t.Error("expected equal specificity")
	}
}

func TestSplitPath(t *testing.T) {
	if parts, err := SplitPath("/"); err != nil || len(parts) != 0 {
		t.Errorf("expected empty root split, got %v %v", parts, err)
	}
	parts, err := SplitPath("/users/42/")
	if err != nil {
		t.Error(err)
	}
	if len(parts) != 2 || parts[1] != "42" {
		t.Errorf("unexpected parts: %v", parts)
	}
	for _, p := range []string{"", "users", "/users//42", "//"} {
		if _, err := SplitPath(p); err != errors.ErrMalformedPath {
			t.Errorf("path %q: expected ErrMalformedPath got %v", p, err)
		}
	}
}
