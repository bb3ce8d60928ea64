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

// Package main is the main package for the Switchyard application
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/switchyardhttp/switchyard/pkg/appinfo"
	"github.com/switchyardhttp/switchyard/pkg/config"
	"github.com/switchyardhttp/switchyard/pkg/httpserver"
)

var (
	applicationGitCommitID string
	applicationBuildTime   string
)

const (
	applicationName    = "switchyard"
	applicationVersion = "1.0.0"
)

var wg = &sync.WaitGroup{}

var exitFunc func() = exitFatal

func main() {
	appinfo.Set(applicationName, applicationVersion,
		applicationBuildTime, applicationGitCommitID)

	conf, flags, err := config.Load(applicationName, applicationVersion,
		os.Args[1:])
	if err != nil {
		fmt.Println("\nERROR: Could not load configuration:", err.Error())
		PrintUsage()
		exitFunc()
		return
	}

	if flags.PrintVersion {
		PrintVersion()
		return
	}

	err = httpserver.Serve(conf, wg, registerRoutes, os.Args[1:], exitFunc)
	if err != nil {
		fmt.Println("\nERROR: Could not start the server:", err.Error())
		exitFunc()
		return
	}

	wg.Wait()
}

func exitFatal() {
	os.Exit(1)
}
