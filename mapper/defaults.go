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

// defaultHTTP holds the built-in HTTP statuses for the well-known codes.
// Refined codes ("NOT_FOUND.USER") inherit from their leading segment.
var defaultHTTP = map[code.Code]int{
	// 5xx: server and dependency failures.
	code.Internal:         http.StatusInternalServerError,
	code.Unavailable:      http.StatusServiceUnavailable,
	code.DependencyFailed: http.StatusBadGateway,
	code.Timeout:          http.StatusGatewayTimeout,
	code.NotImplemented:   http.StatusNotImplemented,
	// 499 (nginx "client closed request") is common too; override if wanted.
	code.Canceled: http.StatusRequestTimeout,

	// 4xx: input.
	code.Invalid:     http.StatusBadRequest,
	code.Validation:  http.StatusUnprocessableEntity,
	code.Missing:     http.StatusBadRequest,
	code.Unsupported: http.StatusUnsupportedMediaType,

	// 4xx: resource state.
	code.NotFound:             http.StatusNotFound,
	code.Gone:                 http.StatusGone,
	code.AlreadyExists:        http.StatusConflict,
	code.Conflict:             http.StatusConflict,
	code.PreconditionFailed:   http.StatusPreconditionFailed,
	code.IdempotencyKeyReused: http.StatusConflict,

	// 4xx: authn/authz.
	code.Unauthenticated:  http.StatusUnauthorized,
	code.PermissionDenied: http.StatusForbidden,

	// 4xx: rate and quota.
	code.RateLimited:   http.StatusTooManyRequests,
	code.QuotaExceeded: http.StatusTooManyRequests,
}

// defaultGRPC holds the built-in gRPC codes for the well-known codes.
var defaultGRPC = map[code.Code]codes.Code{
	code.Internal:         codes.Internal,
	code.Unavailable:      codes.Unavailable,
	code.DependencyFailed: codes.Unavailable,
	code.Timeout:          codes.DeadlineExceeded,
	code.NotImplemented:   codes.Unimplemented,
	code.Canceled:         codes.Canceled,

	code.Invalid:     codes.InvalidArgument,
	code.Validation:  codes.InvalidArgument,
	code.Missing:     codes.InvalidArgument,
	code.Unsupported: codes.InvalidArgument,

	code.NotFound:             codes.NotFound,
	code.Gone:                 codes.NotFound, // gRPC has no 410
	code.AlreadyExists:        codes.AlreadyExists,
	code.Conflict:             codes.Aborted,
	code.PreconditionFailed:   codes.FailedPrecondition,
	code.IdempotencyKeyReused: codes.FailedPrecondition,

	code.Unauthenticated:  codes.Unauthenticated,
	code.PermissionDenied: codes.PermissionDenied,

	code.RateLimited:   codes.ResourceExhausted,
	code.QuotaExceeded: codes.ResourceExhausted,
}
