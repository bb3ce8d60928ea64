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

package body

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/errors"
)

var testOptions = &Options{MaxPartBytes: 1024, MaxBodyBytes: 4096}

func newBodyRequest(t *testing.T, method, contentType string, body string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(method, "http://example.com/upload?src=query",
		strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		r.Header.Set(headers.NameContentType, contentType)
	}
	return r
}

func TestDecodeQueryOnly(t *testing.T) {
	r := newBodyRequest(t, http.MethodGet, "", "ignored")
	p, err := Decode(context.Background(), r, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Query.Get("src"); v != "query" {
		t.Errorf("expected query got %s", v)
	}
	if len(p.Body) != 0 {
		t.Errorf("expected no body params got %v", p.Body)
	}
}

func TestDecodeJSON(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueApplicationJSON,
		`{"name":"Foo","price":42.5,"tax":null,"deep":true,"tags":["a","b"]}`)
	p, err := Decode(context.Background(), r, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Body.Get("name"); v != "Foo" {
		t.Errorf("expected Foo got %s", v)
	}
	if v := p.Body.Get("price"); v != "42.5" {
		t.Errorf("expected 42.5 got %s", v)
	}
	if v := p.Body.Get("deep"); v != "true" {
		t.Errorf("expected true got %s", v)
	}
	// arrays stay in the document only
	if p.Body.Has("tags") {
		t.Error("expected tags to be document-only")
	}
	doc, ok := p.Document.(map[string]any)
	if !ok {
		t.Fatalf("unexpected document type %T", p.Document)
	}
	if len(doc["tags"].([]any)) != 2 {
		t.Errorf("unexpected tags: %v", doc["tags"])
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueApplicationJSON, `{"name":`)
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.InvalidJSON {
		t.Errorf("expected InvalidJSON got %v", err)
	}
}

func TestDecodeForm(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueXFormURLEncoded,
		"a=1&a=2&name=ann%20b")
	p, err := Decode(context.Background(), r, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Body["a"]; len(v) != 2 || v[1] != "2" {
		t.Errorf("expected duplicate keys to accumulate, got %v", v)
	}
	if v := p.Body.Get("name"); v != "ann b" {
		t.Errorf("expected percent-decoded value got %s", v)
	}
}

func TestDecodeFormInvalid(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueXFormURLEncoded, "a=%zz")
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.InvalidForm {
		t.Errorf("expected InvalidForm got %v", err)
	}
}

func TestDecodeBodyTooLarge(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueApplicationJSON,
		`{"pad":"`+strings.Repeat("x", 5000)+`"}`)
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.BodyTooLarge {
		t.Errorf("expected BodyTooLarge got %v", err)
	}
}

func multipartBody(t *testing.T, fileBytes int) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("name", "ann"); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(bytes.Repeat([]byte{0x7f}, fileBytes))
	mw.Close()
	return buf.String(), mw.FormDataContentType()
}

func TestDecodeMultipartRoundTrip(t *testing.T) {
	body, ct := multipartBody(t, 500)
	r := newBodyRequest(t, http.MethodPost, ct, body)
	p, err := Decode(context.Background(), r, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Body.Get("name"); v != "ann" {
		t.Errorf("expected ann got %s", v)
	}
	fp := p.File("avatar")
	if fp == nil {
		t.Fatal("expected a file part")
	}
	if fp.Filename != "avatar.png" {
		t.Errorf("expected avatar.png got %s", fp.Filename)
	}
	if fp.Size() != 500 {
		t.Errorf("expected %d bytes got %d", 500, fp.Size())
	}
	for i, b := range fp.Content {
		if b != 0x7f {
			t.Fatalf("content mismatch at offset %d", i)
		}
	}
}

func TestDecodeMultipartPartTooLarge(t *testing.T) {
	body, ct := multipartBody(t, 2048)
	r := newBodyRequest(t, http.MethodPost, ct, body)
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.PartTooLarge {
		t.Errorf("expected PartTooLarge got %v", err)
	}
}

func TestDecodeMultipartMissingBoundary(t *testing.T) {
	r := newBodyRequest(t, http.MethodPost, headers.ValueMultipartFormData, "x")
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.MalformedMultipart {
		t.Errorf("expected MalformedMultipart got %v", err)
	}
}

func TestDecodeMultipartMissingTerminalBoundary(t *testing.T) {
	body, ct := multipartBody(t, 16)
	// chop the terminal boundary off
	truncated := body[:len(body)-10]
	r := newBodyRequest(t, http.MethodPost, ct, truncated)
	_, err := Decode(context.Background(), r, testOptions)
	de, ok := errors.AsDecodeError(err)
	if !ok || de.Reason != errors.MalformedMultipart {
		t.Errorf("expected MalformedMultipart got %v", err)
	}
}

func TestDecodeMultipartCanceled(t *testing.T) {
	body, ct := multipartBody(t, 16)
	r := newBodyRequest(t, http.MethodPost, ct, body)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Decode(ctx, r, testOptions); err != context.Canceled {
		t.Errorf("expected context.Canceled got %v", err)
	}
}
