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

package mapper

import (
	"dirpx.dev/denvelope/code"
	"google.golang.org/grpc/codes"
)

// Option configures the Mapper at build time.
type Option func(*builder)

// WithHTTPDefault sets or replaces the default HTTP status for c.
// Defaults of a leading segment also apply to its refinements.
func WithHTTPDefault(c code.Code, status int) Option {
	return func(b *builder) { b.httpDefaults[c] = status }
}

// WithGRPCDefault sets or replaces the default gRPC code for c.
func WithGRPCDefault(c code.Code, grpc codes.Code) Option {
	return func(b *builder) { b.grpcDefaults[c] = grpc }
}

// WithHTTPOverride pins the HTTP status for exactly c. Overrides beat every
// other rule.
func WithHTTPOverride(c code.Code, status int) Option {
	return func(b *builder) { b.httpOverride[c] = status }
}

// WithGRPCOverride pins the gRPC code for exactly c.
func WithGRPCOverride(c code.Code, grpc codes.Code) Option {
	return func(b *builder) { b.grpcOverride[c] = grpc }
}

// WithHTTPPrefix adds a prefix rule over dotted codes. The most specific
// matching prefix wins; "*" matches one segment:
//
//	WithHTTPPrefix("NOT_FOUND.USER", 410)
//	WithHTTPPrefix("*.TIMEOUT", 504)
func WithHTTPPrefix(prefix string, status int) Option {
	return func(b *builder) {
		b.httpPrefixes = append(b.httpPrefixes, prefixRule[int]{prefix, status})
	}
}

// WithGRPCPrefix adds a gRPC prefix rule over dotted codes.
func WithGRPCPrefix(prefix string, grpc codes.Code) Option {
	return func(b *builder) {
		b.grpcPrefixes = append(b.grpcPrefixes, prefixRule[codes.Code]{prefix, grpc})
	}
}

// WithHTTPOverrides applies a batch of exact HTTP overrides, as loaded from
// configuration.
func WithHTTPOverrides(m map[code.Code]int) Option {
	return func(b *builder) {
		for c, s := range m {
			b.httpOverride[c] = s
		}
	}
}
