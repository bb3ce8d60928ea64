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

package handlers

import (
	"context"
	"net/http"

	"github.com/switchyardhttp/switchyard/pkg/dispatch/headers"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
)

// Ping returns a Handler that responds 200 OK and "pong" while the server
// is accepting requests
func Ping() Handler {
	return HandlerFunc(func(_ context.Context, _ *http.Request,
		_ *params.RequestParams) (*response.Response, error) {
		r := response.NewText(http.StatusOK, "pong")
		r.Header.Set(headers.NameCacheControl, headers.ValueNoCache)
		return r, nil
	})
}
