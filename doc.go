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

// Package denvelope is a uniform envelope for the outcome of an operation
// at a service boundary: either a payload, or a structured failure.
//
// # Shape
//
// An Envelope[T] is exactly one of:
//
//	{"success": true,  "data": <T>,                                 "timestamp": <ms>}
//	{"success": false, "error": {"code", "message", "details"?},    "timestamp": <ms>}
//
// The field names are the wire contract; see MarshalJSON.
//
// # Constructing
//
//	ok := denvelope.Success(user)
//	ko := denvelope.Failure[User](code.NotFound, "user not found",
//	    denvelope.WithDetail("id", id),
//	)
//
// Constructors never fail and never validate: a failure with an empty code
// is representable. Call sites that want strictness use code.Parse before
// building, or Validate after.
//
// # Narrowing
//
// Fields are unexported. The payload is reachable only through accessors
// that report which variant they found:
//
//	if u, ok := env.Data(); ok { ... }
//	if p, ok := env.Problem(); ok { ... }
//
//	env.Match(
//	    func(u User) { ... },
//	    func(p denvelope.Problem) { ... },
//	)
//
// IsSuccess and IsFailure are mutually exclusive and exhaustive for every
// envelope, including the zero value (which reads as a malformed failure).
//
// # Time
//
// Every envelope is stamped with Unix milliseconds from a process-wide
// clock that never goes backwards, so envelopes built later never carry an
// earlier timestamp.
//
// The package does no I/O. Transport lives in the httpx and grpcx
// subpackages.
package denvelope
