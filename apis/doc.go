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

// Package apis defines the small contracts shared between the envelope core
// and the packages that consume it.
//
// Foreign error types can implement CodedError / MessagedError /
// DetailedError to control how they are turned into failure envelopes,
// without importing the envelope package. Transport adapters depend on the
// Mapper interface rather than on a concrete mapper.
//
// This package must stay lightweight: interfaces and a few view types only.
package apis
