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

package apis

// CodedError is an error that knows which envelope code describes it.
//
// The returned code is copied into the "code" field of the failure
// envelope verbatim. Returning an empty string means "no opinion"; the
// adapter then falls back to INTERNAL.
type CodedError interface {
	error

	// ErrorCode returns the machine-readable failure code.
	ErrorCode() string
}

// MessagedError is an error that exposes a client-facing message distinct
// from its Error() text (which may include the code, a cause chain, or
// internal identifiers).
type MessagedError interface {
	error

	// ErrorMessage returns the human-readable message for the envelope.
	ErrorMessage() string
}

// DetailedError is an error that carries auxiliary diagnostic data for the
// "details" field of a failure envelope. The shape is up to the
// implementation; it must survive JSON encoding. Returning nil means
// "no details".
type DetailedError interface {
	error

	// ErrorDetails returns the details payload. May return nil.
	ErrorDetails() any
}
