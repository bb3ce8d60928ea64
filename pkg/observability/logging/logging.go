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

// Package logging provides the structured event logger. Events are written
// as sorted k=v pairs; file-backed loggers rotate via lumberjack.
package logging

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/switchyardhttp/switchyard/pkg/observability/logging/level"
	"github.com/switchyardhttp/switchyard/pkg/observability/logging/options"
	tstr "github.com/switchyardhttp/switchyard/pkg/util/strings"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	_ Logger    = &logger{}
	_ io.Writer = &logger{}
)

type Logger interface {
	SetLogLevel(level.Level)
	SetLogAsynchronous(bool)
	Level() level.Level
	Close()
	//
	Log(logLevel level.Level, event string, detail Pairs)
	Debug(event string, detail Pairs)
	Info(event string, detail Pairs)
	Warn(event string, detail Pairs)
	Error(event string, detail Pairs)
	Fatal(code int, event string, detail Pairs)
	//
	DebugOnce(key, event string, detail Pairs) bool
	InfoOnce(key, event string, detail Pairs) bool
	WarnOnce(key, event string, detail Pairs) bool
	ErrorOnce(key, event string, detail Pairs) bool
	HasLoggedOnce(logLevel level.Level, key string) bool
}

type logFunc func(level.Level, string, Pairs)

// Pairs represents a key=value pair that helps to describe a log event
type Pairs map[string]any

const appLabel = "switchyard"

// New returns a Logger for the provided logging options. The returned Logger
// will write to files distinguished from other instances by the instanceID.
func New(o *options.Options, instanceID int) Logger {
	l := &logger{
		now: time.Now,
	}
	l.logFunc = l.logAsynchronous
	if o == nil || o.LogFile == "" {
		l.writer = os.Stdout
	} else {
		logFile := o.LogFile
		if instanceID > 0 {
			logFile = strings.Replace(logFile, ".log",
				"."+strconv.Itoa(instanceID)+".log", 1)
		}
		l.writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    256, // megabytes
			MaxBackups: 80,
			MaxAge:     7,    // days
			Compress:   true, // Compress Rolled Backups
		}
	}
	if c, ok := l.writer.(io.Closer); ok && c != nil {
		l.closer = c
	}
	if o != nil {
		l.SetLogLevel(level.Level(strings.ToLower(o.LogLevel)))
	} else {
		l.SetLogLevel(level.Info)
	}
	return l
}

func NoopLogger() Logger {
	return &logger{
		logFunc: func(level.Level, string, Pairs) {},
		levelID: level.InfoID,
		level:   level.Info,
		now:     time.Now,
	}
}

func StreamLogger(w io.Writer, logLevel level.Level) Logger {
	l := &logger{
		writer: w,
		now:    time.Now,
	}
	l.logFunc = l.log
	if c, ok := l.writer.(io.Closer); ok && c != nil {
		l.closer = c
	}
	l.SetLogLevel(logLevel)
	return l
}

func ConsoleLogger(logLevel level.Level) Logger {
	l := &logger{
		writer: os.Stdout,
		now:    time.Now,
	}
	l.logFunc = l.log
	l.SetLogLevel(logLevel)
	return l
}

type logger struct {
	level          level.Level
	levelID        level.ID
	writer         io.Writer
	closer         io.Closer
	mtx            sync.Mutex
	onceRanEntries sync.Map
	logFunc        logFunc
	now            func() time.Time
}

func (l *logger) Write(b []byte) (int, error) {
	if l.writer == nil {
		return 0, nil
	}
	return l.writer.Write(b)
}

func (l *logger) SetLogLevel(logLevel level.Level) {
	id := level.GetID(logLevel)
	if id == 0 {
		l.WarnOnce("loglevel."+string(logLevel),
			"unknown log level; using INFO",
			Pairs{"providedLevel": logLevel})
		logLevel = level.Info
		id = level.InfoID
	}
	l.level = logLevel
	l.levelID = id
}

func (l *logger) SetLogAsynchronous(asyncEnabled bool) {
	if asyncEnabled {
		l.logFunc = l.logAsynchronous
	} else {
		l.logFunc = l.log
	}
}

func (l *logger) Log(logLevel level.Level, event string, detail Pairs) {
	lid := level.GetID(logLevel)
	if lid == 0 || lid < l.levelID {
		return
	}
	l.logFunc(logLevel, event, detail)
}

func (l *logger) logConditionally(logLevel level.Level, levelID level.ID,
	event string, detail Pairs) {
	if l.levelID > levelID {
		return
	}
	l.logFunc(logLevel, event, detail)
}

func (l *logger) Debug(event string, detail Pairs) {
	l.logConditionally(level.Debug, level.DebugID, event, detail)
}

func (l *logger) Info(event string, detail Pairs) {
	l.logConditionally(level.Info, level.InfoID, event, detail)
}

func (l *logger) Warn(event string, detail Pairs) {
	l.logConditionally(level.Warn, level.WarnID, event, detail)
}

func (l *logger) Error(event string, detail Pairs) {
	l.logConditionally(level.Error, level.ErrorID, event, detail)
}

func (l *logger) Fatal(code int, event string, detail Pairs) {
	l.log(level.Fatal, event, detail)
	if code < 0 {
		// tests send a negative code to avoid exiting mid-test
		return
	}
	if code == 0 {
		code = 1
	}
	os.Exit(code)
}

func (l *logger) logOnce(logLevel level.Level, lid level.ID,
	key, event string, detail Pairs) bool {
	if lid == 0 || lid < l.levelID || l.HasLoggedOnce(logLevel, key) {
		return false
	}
	key = string(logLevel) + "." + key
	_, ok := l.onceRanEntries.Load(key)
	if !ok {
		// load or store is more expensive than load, so check via load first
		// and use LoadOrStore to ensure that log is only called once
		_, ok = l.onceRanEntries.LoadOrStore(key, true)
		if !ok {
			l.log(logLevel, event, detail)
		}
	}
	return !ok
}

func (l *logger) DebugOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Debug, level.DebugID, key, event, detail)
}

func (l *logger) InfoOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Info, level.InfoID, key, event, detail)
}

func (l *logger) WarnOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Warn, level.WarnID, key, event, detail)
}

func (l *logger) ErrorOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Error, level.ErrorID, key, event, detail)
}

func (l *logger) HasLoggedOnce(logLevel level.Level, key string) bool {
	key = string(logLevel) + "." + key
	_, ok := l.onceRanEntries.Load(key)
	return ok
}

func (l *logger) logAsynchronous(logLevel level.Level, event string, detail Pairs) {
	go l.log(logLevel, event, detail)
}

const (
	space   = " "
	equal   = "="
	newline = "\n"
)

func (l *logger) log(logLevel level.Level, event string, detail Pairs) {
	if l.writer == nil {
		return
	}
	ts := l.now()
	event = strings.TrimSpace(event)

	logLine := []byte(
		"time=" + ts.UTC().Format(time.RFC3339Nano) + space +
			"app=" + appLabel + space +
			"level=" + string(logLevel) + space +
			"event=" + quoteAsNeeded(event),
	)

	if ld := len(detail); ld > 0 {
		keys := make([]string, 0, ld)
		for k := range detail {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, cmp.Compare)
		for _, k := range keys {
			var s string
			switch t := detail[k].(type) {
			case string:
				s = quoteAsNeeded(t)
			case fmt.Stringer:
				s = quoteAsNeeded(t.String())
			case error:
				s = quoteAsNeeded(t.Error())
			default:
				s = fmt.Sprintf("%v", t)
			}
			logLine = append(logLine, []byte(space+k+equal+s)...)
		}
	}
	l.mtx.Lock()
	l.writer.Write(append(logLine, []byte(newline)...))
	l.mtx.Unlock()
}

func quoteAsNeeded(input string) string {
	if !strings.Contains(input, " ") {
		return input
	}
	return `"` + tstr.EscapeQuotes(input) + `"`
}

func (l *logger) Level() level.Level {
	return l.level
}

func (l *logger) Close() {
	if l.closer != nil {
		l.closer.Close()
	}
}
