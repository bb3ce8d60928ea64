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

// package logger provides a package-level logger for application-wide use,
// and provides the same functions as logging.Logger at the package level -
// except for Close() (because this logger should always be open). By
// default, the logger is a Console Logger @ INFO. Use SetLogger() to set
// the Logger object to any logging.Logger.
package logger

import (
	"github.com/switchyardhttp/switchyard/pkg/observability/logging"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/level"
)

var logger logging.Logger = logging.ConsoleLogger(level.Info)

func Logger() logging.Logger {
	return logger
}

// SetLogger sets the package-level logger object
func SetLogger(l logging.Logger) {
	if l == nil {
		return
	}
	logger = l
}

func SetLogLevel(logLevel level.Level) {
	logger.SetLogLevel(logLevel)
}

func SetLogAsynchronous(asyncEnabled bool) {
	logger.SetLogAsynchronous(asyncEnabled)
}

func Level() level.Level {
	return logger.Level()
}

func Log(logLevel level.Level, event string, detail logging.Pairs) {
	logger.Log(logLevel, event, detail)
}

func Debug(event string, detail logging.Pairs) {
	logger.Debug(event, detail)
}

func Info(event string, detail logging.Pairs) {
	logger.Info(event, detail)
}

func Warn(event string, detail logging.Pairs) {
	logger.Warn(event, detail)
}

func Error(event string, detail logging.Pairs) {
	logger.Error(event, detail)
}

func Fatal(code int, event string, detail logging.Pairs) {
	logger.Fatal(code, event, detail)
}

func DebugOnce(key, event string, detail logging.Pairs) bool {
	return logger.DebugOnce(key, event, detail)
}

func InfoOnce(key, event string, detail logging.Pairs) bool {
	return logger.InfoOnce(key, event, detail)
}

func WarnOnce(key, event string, detail logging.Pairs) bool {
	return logger.WarnOnce(key, event, detail)
}

func ErrorOnce(key, event string, detail logging.Pairs) bool {
	return logger.ErrorOnce(key, event, detail)
}

func HasLoggedOnce(logLevel level.Level, key string) bool {
	return logger.HasLoggedOnce(logLevel, key)
}
