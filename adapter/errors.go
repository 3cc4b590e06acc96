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

// Package adapter turns Go errors into envelopes.
//
// Handlers keep returning (value, error); the edge calls Result and gets an
// envelope whose failure code reflects what the error knows about itself.
package adapter

import (
	"context"
	"errors"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/code"
	"google.golang.org/grpc/status"
)

// Messages used when an error carries no client-facing text.
const (
	msgUnknown    = "unknown error"
	msgUnexpected = "unexpected error"
	msgCanceled   = "request canceled"
	msgTimeout    = "request timed out"
)

// ProblemOf classifies err:
//
//   - nil: INTERNAL "unknown error" (a failure needs a cause);
//   - a Problem or apis.CodedError anywhere in the chain: that record;
//   - a gRPC status error: code from code.FromGRPC and the status message,
//     except for statuses that map to INTERNAL, which get "unexpected error";
//   - context.Canceled: CANCELED;
//   - context.DeadlineExceeded: TIMEOUT;
//   - anything else: INTERNAL "unexpected error".
//
// The raw error text of unclassified errors never reaches the Problem.
func ProblemOf(err error) denvelope.Problem {
	if err == nil {
		return denvelope.NewProblem(code.Internal, msgUnknown)
	}
	if p, ok := denvelope.ProblemFrom(err); ok {
		return p
	}
	if st, ok := StatusOf(err); ok {
		if c := code.FromGRPC(st.Code()); c != code.Empty {
			msg := st.Message()
			if msg == "" || code.IsInternal(c) {
				msg = msgUnexpected
			}
			return denvelope.NewProblem(c, msg)
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return denvelope.NewProblem(code.Canceled, msgCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return denvelope.NewProblem(code.Timeout, msgTimeout)
	}
	return denvelope.NewProblem(code.Internal, msgUnexpected)
}

// StatusOf returns the gRPC status found in err's chain. Unlike
// status.FromError, a wrapped status keeps its own message rather than the
// text of the whole chain.
func StatusOf(err error) (*status.Status, bool) {
	var se interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &se) {
		return nil, false
	}
	st := se.GRPCStatus()
	return st, st != nil
}

// FromError builds a failure envelope for err. See ProblemOf.
func FromError[T any](err error) denvelope.Envelope[T] {
	return denvelope.FromProblem[T](ProblemOf(err))
}

// Result builds a success envelope for v when err is nil and a failure
// envelope for err otherwise; v is then dropped.
func Result[T any](v T, err error) denvelope.Envelope[T] {
	if err != nil {
		return FromError[T](err)
	}
	return denvelope.Success(v)
}
