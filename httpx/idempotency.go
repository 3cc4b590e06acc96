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

package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/replay"
)

const (
	// IdempotencyKeyHeader names the client-chosen key of an unsafe request.
	IdempotencyKeyHeader = "Idempotency-Key"

	// ReplayedHeader is set to "true" on responses served from the store.
	ReplayedHeader = "Idempotent-Replayed"

	// DefaultReplayTTL applies when Idempotency is given ttl <= 0.
	DefaultReplayTTL = 24 * time.Hour

	// DefaultInFlightTTL caps the lifetime of the marker that holds a key
	// while its first request runs.
	DefaultInFlightTTL = time.Minute
)

var codeInProgress = code.Conflict.Child("in_progress")

// Idempotency makes unsafe requests repeatable. The first response to a
// (method, route, Idempotency-Key) triple is stored; later requests with the
// same key and body get the stored response back without reaching next.
//
// Before running next, the request claims its key with an in-flight marker,
// so a concurrent request with the same key never reaches next as well.
//
// Failures it produces itself:
//
//   - MISSING.IDEMPOTENCY_KEY when the header is absent;
//   - IDEMPOTENCY_KEY_REUSED when the key was used with another body;
//   - CONFLICT.IN_PROGRESS while the first request is still running;
//   - DEPENDENCY_FAILED when the store cannot be read.
//
// 5xx responses are not stored, and neither is a panic: the key is released
// so a retry runs the handler again. Safe methods and a nil store pass
// through.
func Idempotency(store replay.Store, w Writer, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = DefaultReplayTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if store == nil || isSafeMethod(r.Method) {
				next.ServeHTTP(rw, r)
				return
			}
			ctx := r.Context()

			id := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if id == "" {
				w.WriteProblem(ctx, rw, denvelope.NewProblem(code.Missing.Child("idempotency_key"),
					IdempotencyKeyHeader+" header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteProblem(ctx, rw, denvelope.NewProblem(code.Invalid, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := replay.HashBody(body)
			key := store.Key(r.Method+"|"+routePattern(r), id)

			stored, err := store.Get(ctx, key)
			if err == nil {
				answerStored(ctx, w, rw, stored, hash)
				return
			}
			if !errors.Is(err, replay.ErrNotFound) {
				lookupFailed(ctx, w, rw, "idempotency.lookup", err)
				return
			}

			claimed, err := store.Save(ctx, key, replay.Record{RequestHash: hash}, inFlightTTL(ttl))
			if err != nil {
				lookupFailed(ctx, w, rw, "idempotency.claim", err)
				return
			}
			if !claimed {
				stored, err := store.Get(ctx, key)
				if err != nil {
					lookupFailed(ctx, w, rw, "idempotency.lookup", err)
					return
				}
				answerStored(ctx, w, rw, stored, hash)
				return
			}

			// Store calls below outlive a client that hung up mid-request.
			sctx := context.WithoutCancel(ctx)
			done := false
			defer func() {
				if done {
					return
				}
				if err := store.Delete(sctx, key); err != nil {
					w.Logger.Error(ctx, "idempotency.release", err)
				}
			}()

			capture := &responseCapture{ResponseWriter: rw}
			next.ServeHTTP(capture, r)

			status := capture.statusOrOK()
			if status >= http.StatusInternalServerError {
				return
			}
			rec := replay.Record{
				Status:      status,
				Body:        capture.body.Bytes(),
				ContentType: capture.Header().Get("Content-Type"),
				RequestHash: hash,
			}
			if err := store.Put(sctx, key, rec, ttl); err != nil {
				w.Logger.Error(ctx, "idempotency.save", err)
				return
			}
			done = true
		})
	}
}

// inFlightTTL bounds how long a crashed instance can hold a key.
func inFlightTTL(ttl time.Duration) time.Duration {
	return min(ttl, DefaultInFlightTTL)
}

func answerStored(ctx context.Context, w Writer, rw http.ResponseWriter, stored replay.Record, hash string) {
	switch {
	case stored.RequestHash != hash:
		w.WriteProblem(ctx, rw, denvelope.NewProblem(code.IdempotencyKeyReused,
			"idempotency key reused with different request body"))
	case stored.Pending():
		w.WriteProblem(ctx, rw, denvelope.NewProblem(codeInProgress,
			"a request with this idempotency key is still in progress"))
	default:
		writeRecord(rw, stored)
	}
}

func lookupFailed(ctx context.Context, w Writer, rw http.ResponseWriter, msg string, err error) {
	w.Logger.Error(ctx, msg, err)
	w.WriteProblem(ctx, rw, denvelope.NewProblem(code.DependencyFailed, "idempotency check failed"))
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// routePattern prefers the chi pattern ("/v1/items/{id}") so that the key
// scope does not depend on how the path was spelled.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func writeRecord(rw http.ResponseWriter, rec replay.Record) {
	if rec.ContentType != "" {
		rw.Header().Set("Content-Type", rec.ContentType)
	}
	rw.Header().Set(ReplayedHeader, "true")
	rw.WriteHeader(rec.Status)
	_, _ = rw.Write(rec.Body)
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(status int) {
	if c.status == 0 {
		c.status = status
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
