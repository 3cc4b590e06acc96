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

package segmenttrie

import (
	"errors"
	"strings"
)

// Wildcard matches exactly one segment.
const Wildcard = "*"

// ErrInvalidPrefix is returned when inserting a prefix that is empty, has
// empty segments, contains characters outside [A-Z0-9_], or consists only
// of wildcards.
var ErrInvalidPrefix = errors.New("segmenttrie: invalid prefix")

// Trie indexes dot-separated code prefixes ("NOT_FOUND.USER", "*.TIMEOUT")
// for longest-prefix-match on segment boundaries.
//
// A Trie is built once and then only read; lookups are safe for
// concurrent use after the last Insert.
type Trie[T any] struct {
	children map[string]*Trie[T]
	hasVal   bool
	val      T
	// pattern is the prefix as inserted, kept for diagnostics.
	pattern string
}

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{children: make(map[string]*Trie[T])}
}

// Insert associates val with prefix. Inserting the same prefix twice keeps
// the last value.
func (t *Trie[T]) Insert(prefix string, val T) error {
	if t == nil {
		return ErrInvalidPrefix
	}
	segs := strings.Split(prefix, ".")
	onlyWild := true
	for _, s := range segs {
		if s == Wildcard {
			continue
		}
		if !ValidSegment(s) {
			return ErrInvalidPrefix
		}
		onlyWild = false
	}
	if onlyWild {
		return ErrInvalidPrefix
	}

	cur := t
	for _, s := range segs {
		next, ok := cur.children[s]
		if !ok {
			next = New[T]()
			cur.children[s] = next
		}
		cur = next
	}
	cur.hasVal = true
	cur.val = val
	cur.pattern = prefix
	return nil
}

// Match returns the value of the deepest prefix matching key.
func (t *Trie[T]) Match(key string) (T, bool) {
	v, ok, _ := t.MatchWithPattern(key)
	return v, ok
}

// MatchWithPattern is Match that also returns the matched prefix as it was
// inserted. At equal depth an exact segment beats a wildcard.
func (t *Trie[T]) MatchWithPattern(key string) (T, bool, string) {
	var zero T
	if t == nil || key == "" {
		return zero, false, ""
	}
	n, _ := t.walk(key, 0, 0)
	if n == nil {
		return zero, false, ""
	}
	return n.val, true, n.pattern
}

// walk consumes key from off and returns the deepest valued node reachable
// from t, with its depth. Exact branches are tried first, so a wildcard only
// wins when it reaches strictly deeper.
func (t *Trie[T]) walk(key string, off, depth int) (*Trie[T], int) {
	var best *Trie[T]
	bestDepth := -1
	if t.hasVal {
		best, bestDepth = t, depth
	}
	if off >= len(key) {
		return best, bestDepth
	}

	end := strings.IndexByte(key[off:], '.')
	if end < 0 {
		end = len(key)
	} else {
		end += off
	}
	seg := key[off:end]
	if !ValidSegment(seg) {
		return best, bestDepth
	}

	for _, name := range [2]string{seg, Wildcard} {
		child, ok := t.children[name]
		if !ok {
			continue
		}
		if n, d := child.walk(key, end+1, depth+1); n != nil && d > bestDepth {
			best, bestDepth = n, d
		}
	}
	return best, bestDepth
}

// ValidSegment reports whether s matches [A-Z][A-Z0-9_]*.
func ValidSegment(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}
