/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithFields(ctx, map[string]any{"code": "NOT_FOUND"})
	log.Error(ctx, "write failure", errors.New("boom"))

	entry := decodeLine(t, buf)
	want := map[string]any{
		"service":    "test",
		"request_id": "req-123",
		"code":       "NOT_FOUND",
		"error":      "boom",
		"level":      "error",
		"message":    "write failure",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Fatalf("%s = %v, want %v (entry=%s)", k, entry[k], v, buf.String())
		}
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack on error; entry=%s", buf.String())
	}
}

func TestWarnStackToggle(t *testing.T) {
	for _, withStack := range []bool{false, true} {
		buf := &bytes.Buffer{}
		log := New(Options{Output: buf, WarnStack: withStack})
		log.Warn(context.Background(), "warny")
		if got := strings.Contains(buf.String(), `"stack"`); got != withStack {
			t.Fatalf("WarnStack=%v: stack present=%v", withStack, got)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf, Level: zerolog.WarnLevel})
	log.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level: %s", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Output: buf, Format: FormatConsole})
	log.Info(context.Background(), "hello")
	if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.NoLevel {
		t.Fatalf("empty level = %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.NoLevel {
		t.Fatalf("invalid level = %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("warn level = %v", lvl)
	}
}

func TestNilLogger(t *testing.T) {
	var log *Logger
	ctx := log.WithRequestID(context.Background(), "x")
	log.Info(ctx, "ignored")
	log.Warn(ctx, "ignored")
	log.Error(ctx, "ignored", errors.New("x"))
}
