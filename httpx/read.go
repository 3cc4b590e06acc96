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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/adapter"
	"dirpx.dev/denvelope/code"
)

// Read decodes the envelope carried by resp and validates it. The body is
// consumed and closed.
//
// Error responses that do not carry an envelope (a proxy's HTML page, an
// empty 502) are folded into a failure with denvelope.Normalize instead of
// being reported as errors.
func Read[T any](resp *http.Response) (denvelope.Envelope[T], error) {
	if resp == nil || resp.Body == nil {
		return denvelope.Envelope[T]{}, errors.New("httpx: nil response")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return denvelope.Envelope[T]{}, fmt.Errorf("httpx: read body: %w", err)
	}

	env, err := denvelope.Decode[T](body)
	if err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			var zero T
			return denvelope.Normalize(zero, resp.StatusCode, nil), nil
		}
		return denvelope.Envelope[T]{}, fmt.Errorf("httpx: decode envelope: %w", err)
	}
	if err := denvelope.Validate(env); err != nil {
		return denvelope.Envelope[T]{}, fmt.Errorf("httpx: %w", err)
	}
	return env, nil
}

// DecodeJSON decodes the request body into dest, rejecting unknown fields,
// then validates dest. Errors are denvelope.Problem values: MISSING for an
// empty body, INVALID for a body that does not decode and VALIDATION_ERROR
// for failed rules.
func DecodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return denvelope.NewProblem(code.Missing, "request body is required")
		}
		return denvelope.NewProblem(code.Invalid, "invalid request body",
			denvelope.WithDetail("error", err.Error()))
	}
	if dec.More() {
		return denvelope.NewProblem(code.Invalid, "request body must hold a single JSON value")
	}
	return adapter.Validate(dest)
}
