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
	"net/http"

	"google.golang.org/grpc/codes"
)

// FromHTTPStatus picks the well-known code closest to an HTTP status.
// Statuses below 400 have no failure code and yield Empty; unknown 4xx map
// to Invalid and unknown 5xx to Internal.
func FromHTTPStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return Invalid
	case http.StatusUnauthorized:
		return Unauthenticated
	case http.StatusForbidden:
		return PermissionDenied
	case http.StatusNotFound:
		return NotFound
	case http.StatusRequestTimeout:
		return Timeout
	case http.StatusConflict:
		return Conflict
	case http.StatusGone:
		return Gone
	case http.StatusPreconditionFailed:
		return PreconditionFailed
	case http.StatusUnsupportedMediaType:
		return Unsupported
	case http.StatusUnprocessableEntity:
		return Validation
	case http.StatusTooManyRequests:
		return RateLimited
	case 499: // nginx: client closed request
		return Canceled
	case http.StatusNotImplemented:
		return NotImplemented
	case http.StatusBadGateway:
		return DependencyFailed
	case http.StatusServiceUnavailable:
		return Unavailable
	case http.StatusGatewayTimeout:
		return Timeout
	}
	switch {
	case status >= 500:
		return Internal
	case status >= 400:
		return Invalid
	}
	return Empty
}

// FromGRPC picks the well-known code closest to a gRPC status code.
// codes.OK yields Empty.
func FromGRPC(c codes.Code) Code {
	switch c {
	case codes.OK:
		return Empty
	case codes.Canceled:
		return Canceled
	case codes.InvalidArgument, codes.OutOfRange:
		return Invalid
	case codes.DeadlineExceeded:
		return Timeout
	case codes.NotFound:
		return NotFound
	case codes.AlreadyExists:
		return AlreadyExists
	case codes.PermissionDenied:
		return PermissionDenied
	case codes.ResourceExhausted:
		return RateLimited
	case codes.FailedPrecondition:
		return PreconditionFailed
	case codes.Aborted:
		return Conflict
	case codes.Unimplemented:
		return NotImplemented
	case codes.Unavailable:
		return Unavailable
	case codes.Unauthenticated:
		return Unauthenticated
	}
	return Internal
}
