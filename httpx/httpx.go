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

// Package httpx writes envelopes as HTTP responses and reads them back.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/adapter"
	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/logger"
	"dirpx.dev/denvelope/mapper"
	"dirpx.dev/denvelope/metrics"
)

const contentTypeJSON = "application/json"

// Outcome is any envelope, whatever its payload type.
type Outcome interface {
	Any() denvelope.Envelope[any]
}

// Writer turns envelopes into HTTP responses.
//
// Successes are written with 200 (or the status given to WriteStatus).
// Failures get the status the Mapper resolves for their code. All fields
// are optional: a zero Writer uses the default mapping and neither logs
// nor counts.
type Writer struct {
	Mapper  apis.Mapper
	Logger  *logger.Logger
	Metrics *metrics.Envelopes

	// ExposeInternal keeps the details of INTERNAL failures in responses.
	// They are stripped otherwise.
	ExposeInternal bool
}

var defaultMapper = mustDefaultMapper()

func mustDefaultMapper() apis.Mapper {
	m, err := mapper.New()
	if err != nil {
		panic(err)
	}
	return m
}

// Write writes o with status 200 for successes.
func (w Writer) Write(ctx context.Context, rw http.ResponseWriter, o Outcome) {
	w.WriteStatus(ctx, rw, http.StatusOK, o)
}

// WriteStatus writes o using status for successes. Failures ignore status.
func (w Writer) WriteStatus(ctx context.Context, rw http.ResponseWriter, status int, o Outcome) {
	w.write(ctx, rw, status, o.Any(), nil)
}

// WriteProblem writes a failure envelope around p.
func (w Writer) WriteProblem(ctx context.Context, rw http.ResponseWriter, p denvelope.Problem) {
	w.write(ctx, rw, 0, denvelope.FromProblem[any](p), nil)
}

// WriteError classifies err with adapter.ProblemOf and writes the failure.
// err itself is logged, so causes hidden from the client stay visible in
// the logs.
func (w Writer) WriteError(ctx context.Context, rw http.ResponseWriter, err error) {
	w.write(ctx, rw, 0, adapter.FromError[any](err), err)
}

func (w Writer) statusMapper() apis.Mapper {
	if w.Mapper == nil {
		return defaultMapper
	}
	return w.Mapper
}

func (w Writer) write(ctx context.Context, rw http.ResponseWriter, status int, env denvelope.Envelope[any], cause error) {
	if status == 0 {
		status = http.StatusOK
	}
	if p, failed := env.Problem(); failed {
		st := w.statusMapper().Status(p.Code)
		status = st.HTTP
		if cause == nil {
			cause = p
		}
		if w.Logger != nil {
			lctx := w.Logger.WithFields(ctx, adapter.Fields(adapter.ToDescriptor(p, st)))
			w.Logger.Error(lctx, "envelope.failure", cause)
		}
		w.Metrics.Observe(metrics.TransportHTTP, metrics.OutcomeFailure, string(p.Code))
		if code.IsInternal(p.Code) && !w.ExposeInternal {
			env = env.MapProblem(func(p denvelope.Problem) denvelope.Problem { return p.WithDetails(nil) })
		}
	} else {
		w.Metrics.Observe(metrics.TransportHTTP, metrics.OutcomeSuccess, "")
	}

	body, err := json.Marshal(env)
	if err != nil {
		w.Logger.Error(ctx, "envelope.encode", err)
		body, _ = json.Marshal(denvelope.Failure[any](code.Internal, "response encoding failed"))
		status = w.statusMapper().HTTPStatus(code.Internal)
	}
	rw.Header().Set("Content-Type", contentTypeJSON)
	rw.WriteHeader(status)
	_, _ = rw.Write(body)
}
