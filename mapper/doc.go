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

// Package mapper turns failure codes into transport statuses for HTTP and
// gRPC.
//
// The envelope itself never carries a status: a failure is a code, a
// message and optional details. The HTTP or gRPC status is decided at the
// edge, by a Mapper built once and shared.
//
// # Resolution model
//
// Codes are looked up after normalization (upper case, '-' to '_'), then
// resolved in order:
//
//  1. exact override for the code;
//  2. longest matching dotted prefix rule;
//  3. exact default for the code;
//  4. default of the leading segment ("NOT_FOUND" for "NOT_FOUND.USER");
//  5. fallback (500 / codes.Internal).
//
// Prefix rules are segment-aware and "*" matches exactly one segment:
//
//	WithHTTPPrefix("NOT_FOUND.USER", http.StatusGone)
//	WithHTTPPrefix("*.TIMEOUT", http.StatusGatewayTimeout)
//
// # Building a mapper
//
//	m, err := mapper.New(
//	    mapper.WithHTTPOverride(code.Canceled, 499),
//	    mapper.WithHTTPPrefix("UNAVAILABLE.DB", 503),
//	)
//	if err != nil {
//	    // invalid code, prefix or status
//	}
//	st := m.Status("UNAVAILABLE.DB.PRIMARY") // 503 / codes.Unavailable
//
// Mapper.Explain returns a human-readable trace of the tier that matched.
package mapper
