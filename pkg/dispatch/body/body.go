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

// Package body decodes request bodies into the request's parameter set.
// JSON, urlencoded form, and multipart form bodies are recognized; multipart
// parts are consumed as a stream and buffered per-part against a configured
// maximum, so one oversized upload cannot exhaust memory.
package body

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/methods"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/errors"
)

// Options configures body decoding limits
type Options struct {
	// MaxPartBytes bounds the size of a single multipart part
	MaxPartBytes int64
	// MaxBodyBytes bounds the size of a JSON or urlencoded body
	MaxBodyBytes int64
}

// Decode inspects the request's content type and produces the request's
// parameter set. Query parameters are always populated; body parameters are
// populated for body-conveying methods with a recognized content type. The
// raw request is never mutated. Decode observes ctx between multipart parts
// so a cancellation releases any partially-buffered file parts.
func Decode(ctx context.Context, r *http.Request, o *Options) (*params.RequestParams, error) {
	p := params.New()
	p.Query = r.URL.Query()
	if r.Body == nil || !methods.HasBody(r.Method) {
		return p, nil
	}
	mediaType, mparams, _ := mime.ParseMediaType(r.Header.Get(headers.NameContentType))
	switch mediaType {
	case headers.ValueApplicationJSON:
		if err := decodeJSON(r.Body, o.MaxBodyBytes, p); err != nil {
			return nil, err
		}
	case headers.ValueXFormURLEncoded:
		if err := decodeForm(r.Body, o.MaxBodyBytes, p); err != nil {
			return nil, err
		}
	case headers.ValueMultipartFormData:
		boundary, ok := mparams["boundary"]
		if !ok || boundary == "" {
			return nil, errors.NewDecodeError(errors.MalformedMultipart,
				"missing boundary parameter")
		}
		if err := decodeMultipart(ctx, r.Body, boundary, o.MaxPartBytes, p); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}

// readAll drains rc up to limit bytes, classifying overage as reason
func readAll(rc io.Reader, limit int64, reason errors.DecodeReason) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, errors.NewDecodeError(reason, err.Error())
	}
	if int64(len(b)) > limit {
		return nil, errors.NewDecodeError(errors.BodyTooLarge,
			"body exceeds "+strconv.FormatInt(limit, 10)+" bytes")
	}
	return b, nil
}

func decodeJSON(rc io.Reader, limit int64, p *params.RequestParams) error {
	b, err := readAll(rc, limit, errors.InvalidJSON)
	if err != nil {
		return err
	}
	var doc any
	if err = json.Unmarshal(b, &doc); err != nil {
		return errors.NewDecodeError(errors.InvalidJSON, err.Error())
	}
	p.Document = doc
	// scalar members of a top-level object become body parameters so they
	// participate in the merged parameter set
	if obj, ok := doc.(map[string]any); ok {
		for k, v := range obj {
			switch t := v.(type) {
			case string:
				p.Body.Add(k, t)
			case float64:
				p.Body.Add(k, strconv.FormatFloat(t, 'f', -1, 64))
			case bool:
				p.Body.Add(k, strconv.FormatBool(t))
			}
		}
	}
	return nil
}

func decodeForm(rc io.Reader, limit int64, p *params.RequestParams) error {
	b, err := readAll(rc, limit, errors.InvalidForm)
	if err != nil {
		return err
	}
	v, err := url.ParseQuery(string(b))
	if err != nil {
		return errors.NewDecodeError(errors.InvalidForm, err.Error())
	}
	p.Body = v
	return nil
}

func decodeMultipart(ctx context.Context, rc io.Reader, boundary string,
	maxPartBytes int64, p *params.RequestParams) error {
	mr := multipart.NewReader(rc, boundary)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// a missing terminal boundary surfaces here as an unexpected EOF
			return errors.NewDecodeError(errors.MalformedMultipart, err.Error())
		}
		name := part.FormName()
		if name == "" {
			part.Close()
			return errors.NewDecodeError(errors.MalformedMultipart,
				"part missing content-disposition field name")
		}
		var buf bytes.Buffer
		n, err := io.Copy(&buf, io.LimitReader(part, maxPartBytes+1))
		part.Close()
		if err != nil {
			return errors.NewDecodeError(errors.MalformedMultipart, err.Error())
		}
		if n > maxPartBytes {
			// abort the remaining body; no partial success
			return errors.NewDecodeError(errors.PartTooLarge,
				"part "+name+" exceeds "+strconv.FormatInt(maxPartBytes, 10)+" bytes")
		}
		if fn := part.FileName(); fn != "" {
			p.Files = append(p.Files, &params.FilePart{
				Field:       name,
				Filename:    fn,
				ContentType: strings.TrimSpace(part.Header.Get(headers.NameContentType)),
				Content:     buf.Bytes(),
			})
			continue
		}
		p.Body.Add(name, buf.String())
	}
}
