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

import "testing"

// useWallClock swaps the process clock for one driven by wall for the
// duration of the test. Tests using it must not run in parallel.
func useWallClock(t *testing.T, wall func() int64) {
	t.Helper()
	prev := processClock
	processClock = newClock(wall)
	t.Cleanup(func() { processClock = prev })
}
