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
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/code"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID propagates the caller's X-Request-Id or generates one, echoes
// it on the response and stores it in the request context (and in the
// log fields, when w has a Logger).
func RequestID(w Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			rw.Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			if w.Logger != nil {
				ctx = w.Logger.WithRequestID(ctx, id)
			}
			next.ServeHTTP(rw, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the id stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Recoverer turns a panic into an INTERNAL failure envelope. The panic
// value goes into the details, which w strips unless ExposeInternal is set.
// When the handler had already started its response, the panic is only
// logged. http.ErrAbortHandler is re-panicked.
func Recoverer(w Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctx := r.Context()
				if w.Logger != nil {
					ctx = w.Logger.WithField(ctx, "panic", fmt.Sprint(rec))
				}
				if ww.Status() != 0 {
					w.Logger.Error(ctx, "panic.after_write", fmt.Errorf("panic: %v", rec))
					return
				}
				w.WriteProblem(ctx, ww, denvelope.NewProblem(code.Internal, "internal server error",
					denvelope.WithDetail("panic", fmt.Sprint(rec))))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
