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

package code

import (
	"errors"
	"regexp"
	"strings"
)

// Code is the identifier of a failure, e.g. "NOT_FOUND" or "E1".
//
// It is a separate type (not just string) so that signatures say which
// values they expect. Conversion from string is free and unchecked: the
// envelope treats codes as opaque and never rejects one.
type Code string

const (
	// MaxLength bounds a canonical code, segments and dots included.
	MaxLength = 64

	// MaxSegments bounds the number of dot-separated segments.
	MaxSegments = 4
)

const (
	// codeFmt is the canonical pattern for a code.
	//
	//	^[A-Z][A-Z0-9_]*           leading segment, upper-case letter first;
	//	(\.[A-Z][A-Z0-9_]*){0,3}   up to three refining segments;
	//	$
	//
	// IMPORTANT: the {0,3} quantifier is tied to MaxSegments.
	codeFmt = `^[A-Z][A-Z0-9_]*(\.[A-Z][A-Z0-9_]*){0,3}$`
)

var codeRe = regexp.MustCompile(codeFmt)

var (
	// ErrCodeInvalid is returned when a value is not a canonical code.
	ErrCodeInvalid = errors.New("denvelope: invalid code")
)

// Empty is the zero-value code. Envelopes may carry it, but Validate and
// Parse reject it.
var Empty Code = ""

// Parse normalizes s and validates the result.
// On success it returns a canonical Code value.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Code(s), nil
}

// MustParse is the panic-on-error variant of Parse, for package-level vars.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize brings s closer to the canonical form without guessing:
//
//   - trims surrounding spaces;
//   - upper-cases the value;
//   - replaces '-' and ' ' with '_';
//   - replaces '/' with '.'.
//
// The result is not guaranteed to be valid.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	s = strings.NewReplacer("-", "_", " ", "_", "/", ".").Replace(s)
	return s
}

// Validate reports whether c is already canonical. The empty code is invalid.
func Validate(c Code) error {
	return validate(string(c))
}

// String returns the code as-is.
func (c Code) String() string {
	return string(c)
}

// Root returns the leading segment of c ("NOT_FOUND" for "NOT_FOUND.USER").
// Codes without dots are returned unchanged.
func (c Code) Root() Code {
	if i := strings.IndexByte(string(c), '.'); i >= 0 {
		return c[:i]
	}
	return c
}

// IsInternal reports whether c, once normalized, falls under INTERNAL
// ("internal/db" does, "INTERNAL_ERROR" does not).
func IsInternal(c Code) bool {
	return Code(Normalize(string(c))).Root() == Internal
}

// Child appends a refining segment: NotFound.Child("user") == "NOT_FOUND.USER".
// The segment is normalized; the result is not validated.
func (c Code) Child(segment string) Code {
	segment = Normalize(segment)
	if segment == "" {
		return c
	}
	if c == Empty {
		return Code(segment)
	}
	return Code(string(c) + "." + segment)
}

func validate(s string) error {
	if len(s) == 0 || len(s) > MaxLength {
		return ErrCodeInvalid
	}
	if !codeRe.MatchString(s) {
		return ErrCodeInvalid
	}
	return nil
}
