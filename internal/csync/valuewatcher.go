// Copyright © 2023 Meroxa, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package csync

import (
	"context"
	"slices"
	"sync"
)

// ValueWatcher holds a value that multiple goroutines can read and replace,
// while others wait for the value to match a condition. The zero value is
// ready to use and holds the zero value of T.
type ValueWatcher[T any] struct {
	m   sync.Mutex
	val T
	// changed is closed and reset every time the value is replaced, it's only
	// created once somebody waits.
	changed chan struct{}
}

// WatchValues returns a matcher for Watch that accepts any of the supplied
// values.
func WatchValues[T comparable](want ...T) func(T) bool {
	if len(want) == 0 {
		// this would block forever, prevent misuse
		panic("invalid use of WatchValues, need to supply at least one value")
	}
	return func(val T) bool {
		return slices.Contains(want, val)
	}
}

// Get returns the current value.
func (vw *ValueWatcher[T]) Get() T {
	vw.m.Lock()
	defer vw.m.Unlock()
	return vw.val
}

// Set replaces the value and wakes up all waiting goroutines.
func (vw *ValueWatcher[T]) Set(val T) {
	vw.Update(func(T) (T, bool) { return val, true })
}

// Update calls fn with the current value while holding the lock. If fn
// returns true the value is replaced with the value returned by fn and all
// waiting goroutines are woken up. Update returns the value passed to fn and
// whether it was replaced.
func (vw *ValueWatcher[T]) Update(fn func(T) (T, bool)) (T, bool) {
	vw.m.Lock()
	defer vw.m.Unlock()

	prev := vw.val
	next, ok := fn(prev)
	if !ok {
		return prev, false
	}
	vw.val = next
	if vw.changed != nil {
		close(vw.changed)
		vw.changed = nil
	}
	return prev, true
}

// Watch blocks until match returns true for the current value and returns
// that value. Values replaced faster than the watcher wakes up may be skipped,
// match only sees the latest one. If the context is done first, Watch returns
// the last seen value and the context error.
func (vw *ValueWatcher[T]) Watch(ctx context.Context, match func(T) bool, opts ...Option) (T, error) {
	ctx, cancel := withOptions(ctx, opts)
	defer cancel()

	for {
		val, changed := vw.check(match)
		if changed == nil {
			return val, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return val, ctx.Err()
		}
	}
}

// check returns the current value and a nil channel if the value matches,
// otherwise a channel that is closed on the next change.
func (vw *ValueWatcher[T]) check(match func(T) bool) (T, <-chan struct{}) {
	vw.m.Lock()
	defer vw.m.Unlock()

	if match(vw.val) {
		return vw.val, nil
	}
	if vw.changed == nil {
		vw.changed = make(chan struct{})
	}
	return vw.val, vw.changed
}
