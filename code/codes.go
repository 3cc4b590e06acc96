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

// Well-known codes. Nothing forces callers to use them; they are what the
// default mapper knows how to project onto HTTP and gRPC statuses.

// Server / dependency failures.
const (
	// Internal is the fallback for unclassified failures. Public messages
	// for it should stay generic.
	Internal Code = "INTERNAL"

	// Unavailable means a required dependency is temporarily unreachable.
	Unavailable Code = "UNAVAILABLE"

	// DependencyFailed means a reachable dependency answered with a failure
	// that makes continuing impossible.
	DependencyFailed Code = "DEPENDENCY_FAILED"

	// Timeout means the operation ran out of its time budget.
	Timeout Code = "TIMEOUT"

	// Canceled means the caller went away or canceled the operation.
	Canceled Code = "CANCELED"

	// NotImplemented means the operation exists in the contract but not here.
	NotImplemented Code = "NOT_IMPLEMENTED"
)

// Input failures.
const (
	// Invalid means the input violates a structural or semantic rule.
	Invalid Code = "INVALID"

	// Validation means one or more fields failed validation. Details
	// usually carry the per-field reasons.
	Validation Code = "VALIDATION_ERROR"

	// Missing means a required value was absent.
	Missing Code = "MISSING"

	// Unsupported means the option, media type or feature is not supported.
	Unsupported Code = "UNSUPPORTED"
)

// Resource state.
const (
	NotFound           Code = "NOT_FOUND"
	AlreadyExists      Code = "ALREADY_EXISTS"
	Conflict           Code = "CONFLICT"
	PreconditionFailed Code = "PRECONDITION_FAILED"
	Gone               Code = "GONE"

	// IdempotencyKeyReused means an idempotency key was replayed with a
	// different request body.
	IdempotencyKeyReused Code = "IDEMPOTENCY_KEY_REUSED"
)

// Authentication / authorization.
const (
	Unauthenticated  Code = "UNAUTHENTICATED"
	PermissionDenied Code = "PERMISSION_DENIED"
)

// Rate and quota.
const (
	RateLimited   Code = "RATE_LIMITED"
	QuotaExceeded Code = "QUOTA_EXCEEDED"
)
