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
	"time"

	"github.com/switchyardhttp/switchyard/pkg/appinfo"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/params"
	"github.com/switchyardhttp/switchyard/pkg/dispatch/response"
)

// Health returns a Handler reporting process identity and uptime
func Health(startTime time.Time) Handler {
	return HandlerFunc(func(_ context.Context, _ *http.Request,
		_ *params.RequestParams) (*response.Response, error) {
		return response.NewJSON(http.StatusOK, map[string]any{
			"name":           appinfo.Name,
			"version":        appinfo.Version,
			"server":         appinfo.Server,
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
		})
	})
}
