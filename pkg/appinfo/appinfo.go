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

// Package appinfo carries the identity of the running application: the
// build identity stamped at startup and the server name advertised in
// response headers
package appinfo

import (
	"fmt"
	"os"
)

// Name, Version, BuildTime and GitCommitID identify the running build.
// They are zero until main calls Set.
var (
	Name        string
	Version     string
	BuildTime   string
	GitCommitID string
)

// Server is the name advertised in HTTP response headers. It defaults to
// the kernel-reported hostname until the configuration overrides it.
var Server, _ = os.Hostname()

// Set records the build identity
func Set(name, version, buildTime, gitCommitID string) {
	Name = name
	Version = version
	BuildTime = buildTime
	GitCommitID = gitCommitID
}

// SetServer overrides the advertised server name
func SetServer(server string) {
	Server = server
}

// String renders the build identity as a single version line
func String() string {
	return fmt.Sprintf("%s version: %s, buildInfo: %s %s",
		Name, Version, BuildTime, GitCommitID)
}
