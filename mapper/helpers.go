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
	"fmt"
	"strings"

	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/mapper/internal/segmenttrie"
	"google.golang.org/grpc/codes"
)

// freeze copies src into a map keyed by normalized codes. Entries whose
// key does not normalize to a valid code are reported.
func freeze[V any](kind string, src map[code.Code]V) (map[code.Code]V, error) {
	if len(src) == 0 {
		return nil, nil
	}
	dst := make(map[code.Code]V, len(src))
	for k, v := range src {
		c, err := code.Parse(string(k))
		if err != nil {
			return nil, fmt.Errorf("mapper: invalid %s code %q: %w", kind, k, err)
		}
		dst[c] = v
	}
	return dst, nil
}

// buildTrie compiles prefix rules into a segment trie. Prefixes are
// normalized like codes; "*" segments are kept.
func buildTrie[V any](kind string, rules []prefixRule[V]) (*segmenttrie.Trie[V], error) {
	if len(rules) == 0 {
		return nil, nil
	}
	t := segmenttrie.New[V]()
	for _, r := range rules {
		p := code.Normalize(r.prefix)
		if p == "" {
			return nil, fmt.Errorf("mapper: empty %s prefix", kind)
		}
		if strings.Count(p, ".")+1 > code.MaxSegments {
			return nil, fmt.Errorf("mapper: %s prefix %q has more than %d segments", kind, r.prefix, code.MaxSegments)
		}
		if err := t.Insert(p, r.val); err != nil {
			return nil, fmt.Errorf("mapper: invalid %s prefix %q: %w", kind, r.prefix, err)
		}
	}
	return t, nil
}

func checkHTTP(kind string, status int) error {
	if status < 100 || status > 599 {
		return fmt.Errorf("mapper: %s HTTP status %d out of range", kind, status)
	}
	return nil
}

func checkGRPC(kind string, c codes.Code) error {
	if c == codes.OK || c > codes.Unauthenticated {
		return fmt.Errorf("mapper: %s gRPC code %d is not a failure code", kind, uint32(c))
	}
	return nil
}

func grpcName(c codes.Code) string {
	return fmt.Sprintf("%s(%d)", strings.ToUpper(c.String()), uint32(c))
}
