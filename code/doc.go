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

// Package code defines the identifier carried in the "code" field of a
// failure envelope.
//
// To the envelope itself a code is opaque: any string is accepted and
// transported verbatim, including values this package would consider
// non-canonical. The helpers here exist for the two places that do care
// about shape:
//
//   - call sites that want to reject garbage before building a failure
//     (Parse / Validate);
//   - transport mappers that need a stable lookup key (Normalize).
//
// The canonical form is UPPER_SNAKE, optionally split into dot-separated
// segments that refine the leading one:
//
//	NOT_FOUND
//	NOT_FOUND.USER
//	UNAVAILABLE.STORAGE.PG
package code
