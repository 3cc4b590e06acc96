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

package denvelope

import (
	"time"

	"dirpx.dev/denvelope/code"
)

// Envelope is the outcome of an operation: a success carrying a T, or a
// failure carrying a Problem.
//
// Envelope is an immutable value. Copying it is cheap and safe; nothing in
// this package mutates an envelope after construction.
type Envelope[T any] struct {
	success bool
	// data is set only when success is true.
	data T
	// problem is set only when success is false.
	problem Problem
	// timestamp is Unix milliseconds, taken at construction time.
	timestamp int64
}

// Success builds a success envelope around data.
//
// Any value of T is accepted, including nil pointers and empty slices; the
// envelope does not judge payloads.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{
		success:   true,
		data:      data,
		timestamp: now(),
	}
}

// Failure builds a failure envelope with the given code and message.
// Details and other refinements are passed as options:
//
//	denvelope.Failure[Order](code.Conflict, "order already paid",
//	    denvelope.WithDetails(map[string]any{"order_id": id}),
//	)
//
// Empty codes and messages are not rejected here.
func Failure[T any](c code.Code, message string, opts ...Option) Envelope[T] {
	return Envelope[T]{
		problem:   NewProblem(c, message, opts...),
		timestamp: now(),
	}
}

// FromProblem builds a failure envelope around an existing Problem, with a
// fresh timestamp.
func FromProblem[T any](p Problem) Envelope[T] {
	return Envelope[T]{
		problem:   p,
		timestamp: now(),
	}
}

// IsSuccess reports whether e is a success envelope.
func IsSuccess[T any](e Envelope[T]) bool { return e.success }

// IsFailure reports whether e is a failure envelope.
// For any envelope exactly one of IsSuccess and IsFailure is true.
func IsFailure[T any](e Envelope[T]) bool { return !e.success }

// IsSuccess reports whether e is a success envelope.
func (e Envelope[T]) IsSuccess() bool { return e.success }

// IsFailure reports whether e is a failure envelope.
func (e Envelope[T]) IsFailure() bool { return !e.success }

// Data returns the payload and true for a success envelope, and the zero T
// and false for a failure.
func (e Envelope[T]) Data() (T, bool) {
	if !e.success {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Problem returns the failure record and true for a failure envelope, and
// the zero Problem and false for a success.
func (e Envelope[T]) Problem() (Problem, bool) {
	if e.success {
		return Problem{}, false
	}
	return e.problem, true
}

// Must returns the payload of a success envelope and panics with the
// Problem otherwise. Meant for tests and program setup.
func (e Envelope[T]) Must() T {
	if !e.success {
		panic(e.problem)
	}
	return e.data
}

// Timestamp returns the construction time in Unix milliseconds.
func (e Envelope[T]) Timestamp() int64 { return e.timestamp }

// Time returns the construction time.
func (e Envelope[T]) Time() time.Time { return time.UnixMilli(e.timestamp) }

// Match calls exactly one of the callbacks, depending on the variant.
// Nil callbacks are skipped.
func (e Envelope[T]) Match(onSuccess func(T), onFailure func(Problem)) {
	if e.success {
		if onSuccess != nil {
			onSuccess(e.data)
		}
		return
	}
	if onFailure != nil {
		onFailure(e.problem)
	}
}

// Fold reduces e to a single value by calling the callback for its variant.
func Fold[T, R any](e Envelope[T], onSuccess func(T) R, onFailure func(Problem) R) R {
	if e.success {
		return onSuccess(e.data)
	}
	return onFailure(e.problem)
}

// Map applies f to the payload of a success envelope. Failures are carried
// over to the new payload type unchanged. The timestamp is preserved in
// both cases: Map does not construct a new outcome, it re-types one.
func Map[T, U any](e Envelope[T], f func(T) U) Envelope[U] {
	if !e.success {
		return Envelope[U]{problem: e.problem, timestamp: e.timestamp}
	}
	return Envelope[U]{success: true, data: f(e.data), timestamp: e.timestamp}
}

// Forward re-types a failure envelope under another payload type, so that a
// failure from a lower layer can be returned as-is from a handler with a
// different result type. It returns false when e is a success. The
// envelope returned with false is the zero envelope, which reads as a
// failure with an empty code and no timestamp (Validate rejects it), so it
// must not be used unless ok is true.
func Forward[U, T any](e Envelope[T]) (Envelope[U], bool) {
	if e.success {
		return Envelope[U]{}, false
	}
	return Envelope[U]{problem: e.problem, timestamp: e.timestamp}, true
}

// MapProblem applies f to the failure record of e. Successes are returned
// unchanged. The timestamp is preserved.
func (e Envelope[T]) MapProblem(f func(Problem) Problem) Envelope[T] {
	if e.success {
		return e
	}
	e.problem = f(e.problem)
	return e
}

// Any erases the payload type. The result marshals to the same JSON as e.
func (e Envelope[T]) Any() Envelope[any] {
	if !e.success {
		return Envelope[any]{problem: e.problem, timestamp: e.timestamp}
	}
	return Envelope[any]{success: true, data: e.data, timestamp: e.timestamp}
}
