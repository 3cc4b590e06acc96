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

// Violation is one field-level problem. A slice of them is the usual
// "details" payload of a VALIDATION_ERROR failure.
//
// Details stay unconstrained in the envelope; this type only gives
// validators and clients a shared vocabulary for the common case.
type Violation struct {
	// Field is the logical path to the failing field, e.g. "name" or
	// "items[0].sku", using the JSON names seen by the client.
	Field string `json:"field"`

	// Rule is the short name of the failed rule, e.g. "required", "max".
	Rule string `json:"rule,omitempty"`

	// Param is the rule parameter, e.g. "64" for max=64.
	Param string `json:"param,omitempty"`

	// Message is a human-friendly explanation.
	Message string `json:"message,omitempty"`
}
