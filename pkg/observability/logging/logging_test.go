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

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/switchyardhttp/switchyard/pkg/observability/logging/level"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := StreamLogger(&buf, level.Warn)
	l.Debug("quiet", nil)
	l.Info("quiet", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output got %s", buf.String())
	}
	l.Warn("loud", Pairs{"k": "v"})
	out := buf.String()
	if !strings.Contains(out, "level=warn") || !strings.Contains(out, "event=loud") {
		t.Errorf("unexpected line: %s", out)
	}
	if !strings.Contains(out, "k=v") {
		t.Errorf("expected detail pair in line: %s", out)
	}
}

func TestPairOrderingAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	l := StreamLogger(&buf, level.Info)
	l.Info("an event with spaces", Pairs{"zeta": "z", "alpha": "has a space"})
	out := buf.String()
	if !strings.Contains(out, `event="an event with spaces"`) {
		t.Errorf("expected quoted event, got %s", out)
	}
	if strings.Index(out, "alpha=") > strings.Index(out, "zeta=") {
		t.Errorf("expected sorted detail keys, got %s", out)
	}
	if !strings.Contains(out, `alpha="has a space"`) {
		t.Errorf("expected quoted detail value, got %s", out)
	}
}

func TestLogOnce(t *testing.T) {
	var buf bytes.Buffer
	l := StreamLogger(&buf, level.Info)
	if !l.WarnOnce("key1", "first", nil) {
		t.Error("expected first WarnOnce to log")
	}
	if l.WarnOnce("key1", "second", nil) {
		t.Error("expected second WarnOnce to be suppressed")
	}
	if !l.HasLoggedOnce(level.Warn, "key1") {
		t.Error("expected key1 to be recorded")
	}
	if c := strings.Count(buf.String(), "\n"); c != 1 {
		t.Errorf("expected %d line got %d", 1, c)
	}
}

func TestUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := StreamLogger(&buf, level.Level("whisper"))
	if l.Level() != level.Info {
		t.Errorf("expected fallback to info got %s", l.Level())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("expected warning about unknown level, got %s", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	l.Info("nothing", nil)
	l.Fatal(-1, "also nothing", nil)
}
