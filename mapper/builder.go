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
	"net/http"

	"dirpx.dev/denvelope/code"
	"google.golang.org/grpc/codes"
)

// prefixRule is a raw, not yet validated prefix rule.
type prefixRule[T any] struct {
	prefix string
	val    T
}

// builder collects options before New validates and freezes them.
// Codes are stored as given; New normalizes them.
type builder struct {
	httpDefaults map[code.Code]int
	grpcDefaults map[code.Code]codes.Code

	httpOverride map[code.Code]int
	grpcOverride map[code.Code]codes.Code

	httpPrefixes []prefixRule[int]
	grpcPrefixes []prefixRule[codes.Code]

	fallbackHTTP int
	fallbackGRPC codes.Code
}

func newBuilder() *builder {
	return &builder{
		httpDefaults: make(map[code.Code]int, len(defaultHTTP)),
		grpcDefaults: make(map[code.Code]codes.Code, len(defaultGRPC)),
		httpOverride: make(map[code.Code]int),
		grpcOverride: make(map[code.Code]codes.Code),

		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: codes.Internal,
	}
}
