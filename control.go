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

package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/wpparse/wp-connector-sdk/internal/csync"
)

// DefaultControlBusCapacity is the number of control events buffered per
// receiver when NewControlBus is called with a capacity below 1.
const DefaultControlBusCapacity = 16

// ControlEvent is an out-of-band lifecycle signal broadcast by the runtime to
// all sources of a group. The set of events is closed: ControlStop,
// ControlIsolate and ControlSeek.
type ControlEvent interface {
	fmt.Stringer
	isControlEvent()
}

// ControlStop asks the source to leave its receive loop promptly.
type ControlStop struct{}

// ControlIsolate pauses (Isolated is true) or resumes the output of a
// source.
type ControlIsolate struct {
	Isolated bool
}

// ControlSeek asks the source to continue reading from Position.
type ControlSeek struct {
	Position SeekPosition
}

func (ControlStop) isControlEvent()    {}
func (ControlIsolate) isControlEvent() {}
func (ControlSeek) isControlEvent()    {}

func (ControlStop) String() string { return "Stop" }
func (e ControlIsolate) String() string {
	return fmt.Sprintf("Isolate(%t)", e.Isolated)
}
func (e ControlSeek) String() string {
	if e.Position == nil {
		return "Seek(<nil>)"
	}
	return fmt.Sprintf("Seek(%s)", e.Position)
}

// ControlBus is the single producer, multi consumer channel the runtime uses
// to broadcast control events. Every receiver gets its own buffer, a
// receiver only observes events broadcast after it subscribed.
type ControlBus struct {
	b *csync.Broadcaster[ControlEvent]
}

// NewControlBus creates a bus buffering up to capacity events per receiver.
func NewControlBus(capacity int) *ControlBus {
	if capacity < 1 {
		capacity = DefaultControlBusCapacity
	}
	return &ControlBus{b: csync.NewBroadcaster[ControlEvent](capacity)}
}

// Subscribe creates a new receiver. Receivers of a closed bus are closed.
func (b *ControlBus) Subscribe() *ControlReceiver {
	return &ControlReceiver{sub: b.b.Subscribe()}
}

// Broadcast delivers ev to every current receiver and returns the number of
// receivers it reached. It blocks while a receiver's buffer is full until
// the context is done.
func (b *ControlBus) Broadcast(ctx context.Context, ev ControlEvent) (int, error) {
	n, err := b.b.Send(ctx, ev)
	if errors.Is(err, csync.ErrBroadcasterClosed) {
		return n, fmt.Errorf("failed to broadcast %v: %w", ev, ErrControlClosed)
	}
	if err != nil {
		return n, fmt.Errorf("failed to broadcast %v: %w", ev, err)
	}
	return n, nil
}

// Receivers returns the number of subscribed receivers.
func (b *ControlBus) Receivers() int {
	return b.b.Len()
}

// Close closes all receivers, further broadcasts fail with ErrControlClosed.
func (b *ControlBus) Close() {
	b.b.Close()
}

// ControlReceiver is the receiving end of a ControlBus owned by one source.
type ControlReceiver struct {
	sub *csync.Subscription[ControlEvent]
}

// CtrlRx is the receiver handed to DataSource.Start.
type CtrlRx = *ControlReceiver

// C returns the channel control events are delivered on, it is closed when
// the receiver or the bus is closed.
func (r *ControlReceiver) C() <-chan ControlEvent {
	return r.sub.C()
}

// Recv blocks until the next control event arrives. It returns
// ErrControlClosed once the receiver or bus is closed.
func (r *ControlReceiver) Recv(ctx context.Context) (ControlEvent, error) {
	ev, ok, err := r.sub.Recv(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrControlClosed
	}
	return ev, nil
}

// TryRecv returns a pending control event without blocking.
func (r *ControlReceiver) TryRecv() (ControlEvent, bool) {
	ev, got, _ := r.sub.TryRecv()
	return ev, got
}

// Close unsubscribes the receiver from the bus. Close is idempotent.
func (r *ControlReceiver) Close() {
	r.sub.Close()
}
