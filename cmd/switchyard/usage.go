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

package main

import (
	"fmt"

	"github.com/switchyardhttp/switchyard/pkg/appinfo"
)

const usageText = `
Switchyard Usage:

 Print Version Info:
 switchyard -version

 Using a configuration file:
  switchyard -config /path/to/file.yaml [-log-level debug|info|warn|error] [-listen-port 8480] [-metrics-port 8481]

------

Switchyard listens on port 8480 by default. Set in a config file, or override using -listen-port.

Default log level is info. Set in a config file, or override with -log-level.

Reload a running instance's configuration by sending it a SIGHUP.
`

// PrintUsage prints the application usage to the console
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints the application version info to the console
func PrintVersion() {
	fmt.Println(appinfo.String())
}
