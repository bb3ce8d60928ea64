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

package params

import (
	"testing"
)

func TestGetPrecedence(t *testing.T) {
	p := New()
	p.Path["id"] = "path"
	p.Query.Set("id", "query")
	p.Body.Set("id", "body")
	p.Query.Set("q", "query-only")
	p.Body.Set("b", "body-only")

	v, ok := p.Get("id")
	if !ok || v != "path" {
		t.Errorf("expected path got %s", v)
	}
	delete(p.Path, "id")
	v, _ = p.Get("id")
	if v != "query" {
		t.Errorf("expected query got %s", v)
	}
	p.Query.Del("id")
	v, _ = p.Get("id")
	if v != "body" {
		t.Errorf("expected body got %s", v)
	}
	if _, ok = p.Get("missing"); ok {
		t.Error("expected missing param to be absent")
	}
	if v, _ = p.Get("q"); v != "query-only" {
		t.Errorf("expected query-only got %s", v)
	}
	if v, _ = p.Get("b"); v != "body-only" {
		t.Errorf("expected body-only got %s", v)
	}
}

func TestValues(t *testing.T) {
	p := New()
	p.Query.Add("tag", "a")
	p.Query.Add("tag", "b")
	p.Body.Add("tag", "c")
	v := p.Values("tag")
	if len(v) != 2 || v[0] != "a" || v[1] != "b" {
		t.Errorf("unexpected values: %v", v)
	}
	if v = p.Values("missing"); v != nil {
		t.Errorf("expected nil got %v", v)
	}
}

func TestTypedGetters(t *testing.T) {
	p := New()
	p.Path["skip"] = "3"
	p.Query.Set("size", "2.5")
	p.Body.Set("deep", "true")

	i, err := p.GetInt("skip")
	if err != nil {
		t.Error(err)
	}
	if i != 3 {
		t.Errorf("expected %d got %d", 3, i)
	}
	f, err := p.GetFloat("size")
	if err != nil {
		t.Error(err)
	}
	if f != 2.5 {
		t.Errorf("expected %f got %f", 2.5, f)
	}
	b, err := p.GetBool("deep")
	if err != nil {
		t.Error(err)
	}
	if !b {
		t.Error("expected true")
	}
	if _, err = p.GetInt("missing"); err == nil {
		t.Error("expected error for missing param")
	}
}

func TestFileAndRelease(t *testing.T) {
	p := New()
	p.Files = append(p.Files,
		&FilePart{Field: "avatar", Filename: "avatar.png", Content: make([]byte, 500)},
		&FilePart{Field: "doc", Filename: "doc.txt", Content: []byte("hi")},
	)
	fp := p.File("avatar")
	if fp == nil || fp.Filename != "avatar.png" {
		t.Fatalf("unexpected file part: %v", fp)
	}
	if fp.Size() != 500 {
		t.Errorf("expected %d got %d", 500, fp.Size())
	}
	if p.File("missing") != nil {
		t.Error("expected nil for missing field")
	}
	p.Release()
	if fp.Content != nil {
		t.Error("expected content released")
	}
	if p.Files != nil {
		t.Error("expected files list cleared")
	}
}
