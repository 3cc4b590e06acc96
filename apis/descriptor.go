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

package apis

// ErrorDescriptor is a flat description of a failure together with the
// transport statuses it resolved to.
//
// It is meant for structured logs and traces, not for clients: clients get
// the envelope. Strings are used instead of code.Code so that log sinks
// need nothing from this module to decode it.
type ErrorDescriptor struct {
	// Code is the failure code as carried by the envelope.
	Code string `json:"code"`

	// Root is the leading segment of Code ("NOT_FOUND" for "NOT_FOUND.USER").
	Root string `json:"root,omitempty"`

	// HTTPStatus is the resolved HTTP status. 0 means "not resolved".
	HTTPStatus int `json:"http_status,omitempty"`

	// GRPCCode is the resolved gRPC status code as an integer.
	GRPCCode int `json:"grpc_code,omitempty"`

	// Message is the failure message.
	Message string `json:"message,omitempty"`

	// HasDetails reports whether the failure carried details. The details
	// themselves are left out of logs.
	HasDetails bool `json:"has_details,omitempty"`
}
