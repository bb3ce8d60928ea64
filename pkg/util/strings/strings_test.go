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

package strings

import (
	"errors"
	"testing"
)

func TestEscapeQuotes(t *testing.T) {
	const expected = `say \"hello\"`
	if s := EscapeQuotes(`say "hello"`); s != expected {
		t.Errorf("expected %s got %s", expected, s)
	}
}

func TestUnique(t *testing.T) {
	out := Unique([]string{"b", "a", "b", "c", "a"})
	if len(out) != 3 {
		t.Errorf("expected %d got %d", 3, len(out))
	}
	if out[0] != "a" || out[2] != "c" {
		t.Errorf("unexpected order: %v", out)
	}
}

func TestMapGetInt(t *testing.T) {
	m := Map{"a": "42", "b": "x"}
	i, err := m.GetInt("a")
	if err != nil {
		t.Error(err)
	}
	if i != 42 {
		t.Errorf("expected %d got %d", 42, i)
	}
	if _, err = m.GetInt("b"); err == nil {
		t.Error("expected conversion error")
	}
	if _, err = m.GetInt("c"); !errors.Is(err, ErrKeyNotInMap) {
		t.Errorf("expected ErrKeyNotInMap got %v", err)
	}
}

func TestLookupKeys(t *testing.T) {
	l := NewLookup([]string{"z", "a"})
	keys := l.Keys()
	if len(keys) != 2 || keys[0] != "a" {
		t.Errorf("unexpected keys: %v", keys)
	}
}
