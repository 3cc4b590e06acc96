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
	"net/http"

	"dirpx.dev/denvelope/code"
)

// Normalize folds a raw (payload, status, error) triple, as returned by an
// upstream HTTP API, into an envelope.
//
// The outcome is a success when status < 400 and err is nil; status 0 is
// read as 200. Otherwise it is a failure:
//
//   - if err carries a Problem or an apis.CodedError, that record is used;
//   - else the code comes from code.FromHTTPStatus (INTERNAL when the
//     status itself looks successful) and the message is err's text, or the
//     status text when err is nil.
//
// data is dropped on failure.
func Normalize[T any](data T, status int, err error) Envelope[T] {
	if status == 0 {
		status = http.StatusOK
	}
	if status < http.StatusBadRequest && err == nil {
		return Success(data)
	}
	if p, ok := ProblemFrom(err); ok {
		return FromProblem[T](p)
	}

	c := code.FromHTTPStatus(status)
	if c == code.Empty {
		c = code.Internal
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "request failed"
	}
	return Failure[T](c, msg)
}
