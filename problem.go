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
	"errors"
	"fmt"

	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
)

// Problem is the error record of a failure envelope.
//
// It carries:
//   - Code: opaque failure identifier (expected non-empty);
//   - Message: human-readable description (expected non-empty);
//   - Details: optional auxiliary data of any JSON-encodable shape.
//
// Problem is also a Go error, so a handler can return it directly and a
// boundary adapter can turn it back into an envelope without losing the
// code. All WithX helpers return a copy.
type Problem struct {
	Code    code.Code `json:"code" validate:"required"`
	Message string    `json:"message" validate:"required"`
	Details any       `json:"details,omitempty"`
}

var (
	_ apis.CodedError    = Problem{}
	_ apis.MessagedError = Problem{}
	_ apis.DetailedError = Problem{}
)

// NewProblem builds a Problem and applies opts in order.
func NewProblem(c code.Code, message string, opts ...Option) Problem {
	p := Problem{Code: c, Message: message}
	for _, opt := range opts {
		if opt != nil {
			p = opt(p)
		}
	}
	return p
}

// Error implements the built-in error interface as "<code>: <message>".
func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Code, p.Message)
}

// ErrorCode implements apis.CodedError.
func (p Problem) ErrorCode() string { return string(p.Code) }

// ErrorMessage implements apis.MessagedError.
func (p Problem) ErrorMessage() string { return p.Message }

// ErrorDetails implements apis.DetailedError.
func (p Problem) ErrorDetails() any { return p.Details }

// WithMessage returns a copy of p with a replaced message.
func (p Problem) WithMessage(msg string) Problem {
	p.Message = msg
	return p
}

// WithDetails returns a copy of p whose details are replaced by d.
func (p Problem) WithDetails(d any) Problem {
	p.Details = d
	return p
}

// WithDetail returns a copy of p with one extra key in a map-shaped
// details payload.
//
// The map is always copied, so Problems sharing a details map never see
// each other's additions. Non-map details are replaced by a fresh map.
func (p Problem) WithDetail(k string, v any) Problem {
	cur, _ := p.Details.(map[string]any)
	m := make(map[string]any, len(cur)+1)
	for k0, v0 := range cur {
		m[k0] = v0
	}
	m[k] = v
	p.Details = m
	return p
}

// ProblemFrom extracts a Problem from err when err is, or wraps, a Problem
// or an apis.CodedError with a non-empty code. It reports false otherwise,
// including for nil.
//
// Foreign errors contribute their ErrorMessage when they implement
// apis.MessagedError (else their Error text) and their ErrorDetails when
// they implement apis.DetailedError.
func ProblemFrom(err error) (Problem, bool) {
	if err == nil {
		return Problem{}, false
	}
	var p Problem
	if errors.As(err, &p) {
		return p, true
	}
	var pp *Problem
	if errors.As(err, &pp) && pp != nil {
		return *pp, true
	}
	var ce apis.CodedError
	if !errors.As(err, &ce) || ce.ErrorCode() == "" {
		return Problem{}, false
	}
	p = Problem{Code: code.Code(ce.ErrorCode()), Message: ce.Error()}
	if me, ok := ce.(apis.MessagedError); ok {
		p.Message = me.ErrorMessage()
	}
	if de, ok := ce.(apis.DetailedError); ok {
		p.Details = de.ErrorDetails()
	}
	return p, true
}
