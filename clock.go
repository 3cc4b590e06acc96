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

import (
	"sync/atomic"
	"time"
)

// clock hands out Unix-millisecond timestamps that never decrease, even if
// the wall clock is stepped backwards. Equal values are allowed.
type clock struct {
	last atomic.Int64
	wall func() int64
}

func newClock(wall func() int64) *clock {
	return &clock{wall: wall}
}

// Now returns max(wall clock, highest value handed out so far).
func (c *clock) Now() int64 {
	t := c.wall()
	for {
		last := c.last.Load()
		if t <= last {
			return last
		}
		if c.last.CompareAndSwap(last, t) {
			return t
		}
	}
}

var processClock = newClock(func() int64 { return time.Now().UnixMilli() })

func now() int64 { return processClock.Now() }
