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

package adapter

import (
	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/apis"
)

// ToDescriptor flattens a failure record together with its resolved
// transport statuses into an ErrorDescriptor.
//
// The descriptor is intended for structured logging and tracing. Details
// are not copied, only their presence is recorded.
func ToDescriptor(p denvelope.Problem, st apis.Status) apis.ErrorDescriptor {
	d := apis.ErrorDescriptor{
		Code:       string(p.Code),
		HTTPStatus: st.HTTP,
		GRPCCode:   int(st.GRPC),
		Message:    p.Message,
		HasDetails: p.Details != nil,
	}
	if root := p.Code.Root(); root != p.Code {
		d.Root = string(root)
	}
	return d
}

// Fields returns the descriptor as log fields, prefixed the way request
// logs expect them.
func Fields(d apis.ErrorDescriptor) map[string]any {
	f := map[string]any{
		"error_code":  d.Code,
		"http_status": d.HTTPStatus,
		"grpc_code":   d.GRPCCode,
	}
	if d.Root != "" {
		f["error_root"] = d.Root
	}
	if d.HasDetails {
		f["error_has_details"] = true
	}
	return f
}
