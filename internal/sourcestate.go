// Copyright © 2022 Meroxa, Inc.
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

package internal

import (
	"context"
	"fmt"
	"slices"

	"github.com/wpparse/wp-connector-sdk/internal/csync"
)

// SourceState is a step in the lifecycle of a source instance.
type SourceState int

const (
	StateCreated SourceState = iota
	StateStarted
	StateReceiving
	StateIsolated
	StateClosed
)

func (s SourceState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateStarted:
		return "Started"
	case StateReceiving:
		return "Receiving"
	case StateIsolated:
		return "Isolated"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("SourceState(%d)", int(s))
	}
}

// sourceTransitions lists the states each state may move to. Closed is
// terminal.
var sourceTransitions = map[SourceState][]SourceState{
	StateCreated:   {StateStarted, StateReceiving, StateClosed},
	StateStarted:   {StateReceiving, StateIsolated, StateClosed},
	StateReceiving: {StateIsolated, StateClosed},
	StateIsolated:  {StateReceiving, StateClosed},
}

// CanTransition reports if the lifecycle allows moving from one state to
// another.
func CanTransition(from, to SourceState) bool {
	return slices.Contains(sourceTransitions[from], to)
}

// SourceStateWatcher holds the current lifecycle state of a source and lets
// goroutines wait for specific states.
type SourceStateWatcher csync.ValueWatcher[SourceState]

// Get returns the current state.
func (w *SourceStateWatcher) Get() SourceState {
	return (*csync.ValueWatcher[SourceState])(w).Get()
}

// Transition moves the watcher into state to if the current state is one of
// from and the lifecycle allows the move. It returns the state observed
// before the call and whether the state was changed.
func (w *SourceStateWatcher) Transition(to SourceState, from ...SourceState) (SourceState, bool) {
	return (*csync.ValueWatcher[SourceState])(w).Update(func(current SourceState) (SourceState, bool) {
		if len(from) > 0 && !slices.Contains(from, current) {
			return current, false
		}
		return to, CanTransition(current, to)
	})
}

// Watch blocks until the watcher holds one of the supplied states or the
// context is done.
func (w *SourceStateWatcher) Watch(ctx context.Context, states ...SourceState) (SourceState, error) {
	return (*csync.ValueWatcher[SourceState])(w).Watch(ctx, csync.WatchValues(states...))
}
