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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a JSON document is not a well-shaped
// envelope: missing flag or timestamp, or data/error not matching the flag.
var ErrMalformed = errors.New("denvelope: malformed envelope")

// successWire and failureWire fix the field order on the wire.
type successWire[T any] struct {
	Success   bool  `json:"success"`
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

type failureWire struct {
	Success   bool    `json:"success"`
	Error     Problem `json:"error"`
	Timestamp int64   `json:"timestamp"`
}

// decodeWire keeps enough of the raw document to tell "absent" from "null".
type decodeWire struct {
	Success   *bool           `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	Timestamp *int64          `json:"timestamp"`
}

// MarshalJSON encodes the envelope in its wire form. A success always has a
// "data" member (possibly null) and never an "error"; a failure always has
// an "error" member and never "data". "details" is omitted when nil.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	if e.success {
		return json.Marshal(successWire[T]{Success: true, Data: e.data, Timestamp: e.timestamp})
	}
	return json.Marshal(failureWire{Success: false, Error: e.problem, Timestamp: e.timestamp})
}

// UnmarshalJSON decodes an envelope from its wire form, keeping the wire
// timestamp. Documents whose members disagree with the success flag are
// rejected with ErrMalformed. Code and message contents are not checked;
// use Validate for that.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var w decodeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Success == nil {
		return fmt.Errorf("%w: missing \"success\"", ErrMalformed)
	}
	if w.Timestamp == nil {
		return fmt.Errorf("%w: missing \"timestamp\"", ErrMalformed)
	}

	hasData := len(w.Data) > 0
	hasError := len(w.Error) > 0 && !isNull(w.Error)

	if *w.Success {
		if !hasData {
			return fmt.Errorf("%w: success without \"data\"", ErrMalformed)
		}
		if hasError {
			return fmt.Errorf("%w: success with \"error\"", ErrMalformed)
		}
		var data T
		if err := json.Unmarshal(w.Data, &data); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
		*e = Envelope[T]{success: true, data: data, timestamp: *w.Timestamp}
		return nil
	}

	if !hasError {
		return fmt.Errorf("%w: failure without \"error\"", ErrMalformed)
	}
	if hasData && !isNull(w.Data) {
		return fmt.Errorf("%w: failure with \"data\"", ErrMalformed)
	}
	var p Problem
	if err := json.Unmarshal(w.Error, &p); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	*e = Envelope[T]{problem: p, timestamp: *w.Timestamp}
	return nil
}

// Decode reads one envelope from JSON. It is a convenience over
// json.Unmarshal for call sites that prefer a return value.
func Decode[T any](b []byte) (Envelope[T], error) {
	var e Envelope[T]
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope[T]{}, err
	}
	return e, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
