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

package denvelope

// Option is a functional option for building a Problem.
// It takes a Problem and returns a (possibly modified) copy.
type Option func(Problem) Problem

// WithDetails sets the details payload. Intended to be used with Failure.
func WithDetails(d any) Option {
	return func(p Problem) Problem {
		return p.WithDetails(d)
	}
}

// WithDetail adds a single key to a map-shaped details payload.
// Intended to be used with Failure.
func WithDetail(k string, v any) Option {
	return func(p Problem) Problem {
		return p.WithDetail(k, v)
	}
}
