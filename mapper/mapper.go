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
	"errors"
	"fmt"
	"strings"

	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/mapper/internal/segmenttrie"
	"google.golang.org/grpc/codes"
)

// New constructs an immutable apis.Mapper snapshot.
//
// Build process:
//
//  1. Seed the builder with library defaults (HTTP & gRPC).
//  2. Apply options.
//  3. Normalize and validate every code, prefix and status.
//  4. Compile prefix rules into segment tries.
//
// The result shares nothing with the options' inputs and is safe for
// concurrent use. All configuration problems are reported together.
func New(opts ...Option) (apis.Mapper, error) {
	b := newBuilder()
	for k, v := range defaultHTTP {
		b.httpDefaults[k] = v
	}
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, v := range b.httpDefaults {
		collect(checkHTTP("default", v))
	}
	for _, v := range b.httpOverride {
		collect(checkHTTP("override", v))
	}
	for _, r := range b.httpPrefixes {
		collect(checkHTTP("prefix", r.val))
	}
	for _, v := range b.grpcDefaults {
		collect(checkGRPC("default", v))
	}
	for _, v := range b.grpcOverride {
		collect(checkGRPC("override", v))
	}
	for _, r := range b.grpcPrefixes {
		collect(checkGRPC("prefix", r.val))
	}

	m := &mapper{fallbackHTTP: b.fallbackHTTP, fallbackGRPC: b.fallbackGRPC}
	var err error
	m.http.defaults, err = freeze("HTTP default", b.httpDefaults)
	collect(err)
	m.http.overrides, err = freeze("HTTP override", b.httpOverride)
	collect(err)
	m.http.prefixes, err = buildTrie("HTTP", b.httpPrefixes)
	collect(err)
	m.grpc.defaults, err = freeze("gRPC default", b.grpcDefaults)
	collect(err)
	m.grpc.overrides, err = freeze("gRPC override", b.grpcOverride)
	collect(err)
	m.grpc.prefixes, err = buildTrie("gRPC", b.grpcPrefixes)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

// table holds the frozen rules for one transport.
type table[V any] struct {
	overrides map[code.Code]V
	prefixes  *segmenttrie.Trie[V]
	defaults  map[code.Code]V
}

// Rule tiers, as reported by Explain.
const (
	sourceOverride = "override"
	sourcePrefix   = "prefix"
	sourceDefault  = "default"
	sourceRoot     = "root-default"
	sourceFallback = "fallback"
)

type resolution[V any] struct {
	val    V
	source string
	// pattern is the matched prefix, or the leading segment for sourceRoot.
	pattern string
}

// resolve applies, in order: exact override, longest matching prefix,
// exact default, default of the leading segment, fallback.
func (t *table[V]) resolve(c code.Code, fallback V) resolution[V] {
	if v, ok := t.overrides[c]; ok {
		return resolution[V]{val: v, source: sourceOverride}
	}
	if v, ok, pat := t.prefixes.MatchWithPattern(string(c)); ok {
		return resolution[V]{val: v, source: sourcePrefix, pattern: pat}
	}
	if v, ok := t.defaults[c]; ok {
		return resolution[V]{val: v, source: sourceDefault}
	}
	if root := c.Root(); root != c {
		if v, ok := t.defaults[root]; ok {
			return resolution[V]{val: v, source: sourceRoot, pattern: string(root)}
		}
	}
	return resolution[V]{val: fallback, source: sourceFallback}
}

// mapper is the immutable apis.Mapper built by New.
type mapper struct {
	http table[int]
	grpc table[codes.Code]

	fallbackHTTP int
	fallbackGRPC codes.Code
}

// key brings a code into the form rules are stored under. Envelope codes
// are opaque, so "not_found" and "NOT_FOUND" resolve alike.
func key(c code.Code) code.Code {
	return code.Code(code.Normalize(string(c)))
}

// HTTPStatus resolves the HTTP status for c. It never returns 0.
func (m *mapper) HTTPStatus(c code.Code) int {
	return m.http.resolve(key(c), m.fallbackHTTP).val
}

// GRPCStatus resolves the gRPC code for c. It never returns codes.OK.
func (m *mapper) GRPCStatus(c code.Code) codes.Code {
	return m.grpc.resolve(key(c), m.fallbackGRPC).val
}

// Status resolves both transports for the same code.
func (m *mapper) Status(c code.Code) apis.Status {
	k := key(c)
	return apis.Status{
		HTTP: m.http.resolve(k, m.fallbackHTTP).val,
		GRPC: m.grpc.resolve(k, m.fallbackGRPC).val,
	}
}

// Explain produces a textual trace of how c was resolved on each
// transport. Example:
//
//	code="UNAVAILABLE.DB.PRIMARY"
//	http: source=prefix pattern="UNAVAILABLE.DB" -> 503
//	grpc: source=root-default root="UNAVAILABLE" -> UNAVAILABLE(14)
//
// The format is meant for people, not for parsing.
func (m *mapper) Explain(c code.Code) string {
	k := key(c)
	h := m.http.resolve(k, m.fallbackHTTP)
	g := m.grpc.resolve(k, m.fallbackGRPC)

	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "code=%q\n", c)
	_, _ = fmt.Fprintf(&b, "http: %s -> %d\n", describe(h.source, h.pattern), h.val)
	_, _ = fmt.Fprintf(&b, "grpc: %s -> %s", describe(g.source, g.pattern), grpcName(g.val))
	return b.String()
}

func describe(source, pattern string) string {
	switch source {
	case sourcePrefix:
		return fmt.Sprintf("source=%s pattern=%q", source, pattern)
	case sourceRoot:
		return fmt.Sprintf("source=%s root=%q", source, pattern)
	}
	return "source=" + source
}
