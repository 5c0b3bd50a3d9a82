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

package csync

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wpparse/wp-connector-sdk/internal/cchan"
)

// ErrBroadcasterClosed is returned when sending to a closed Broadcaster.
var ErrBroadcasterClosed = errors.New("broadcaster closed")

// Broadcaster fans out every sent value to all subscriptions that exist at
// the time of sending. Each subscription owns a buffered channel, a value is
// delivered to every subscriber exactly once. Subscriptions created after a
// value was sent never observe it.
type Broadcaster[T any] struct {
	capacity int

	m           sync.Mutex
	subscribers map[string]*Subscription[T]
	closed      bool
}

// NewBroadcaster creates a Broadcaster whose subscriptions buffer up to
// capacity values. A capacity below 1 is treated as 1.
func NewBroadcaster[T any](capacity int) *Broadcaster[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcaster[T]{
		capacity:    capacity,
		subscribers: make(map[string]*Subscription[T]),
	}
}

// Subscribe registers a new subscription. If the broadcaster is already
// closed the returned subscription is closed as well.
func (b *Broadcaster[T]) Subscribe() *Subscription[T] {
	b.m.Lock()
	defer b.m.Unlock()

	s := &Subscription[T]{
		id: uuid.NewString(),
		c:  make(chan T, b.capacity),
		b:  b,
	}
	if b.closed {
		s.done = true
		close(s.c)
		return s
	}
	b.subscribers[s.id] = s
	return s
}

// Send delivers val to all current subscribers. It blocks while a
// subscriber's buffer is full. If the context gets canceled before all
// subscribers received the value, the context error is returned and the
// remaining subscribers are skipped. Send returns the number of subscribers
// that received the value.
func (b *Broadcaster[T]) Send(ctx context.Context, val T) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	if b.closed {
		return 0, ErrBroadcasterClosed
	}

	delivered := 0
	for _, s := range b.subscribers {
		if err := cchan.ChanIn[T](s.c).Send(ctx, val); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}

// Len returns the number of active subscriptions.
func (b *Broadcaster[T]) Len() int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.subscribers)
}

// Close closes the channels of all subscriptions and rejects future sends.
// Calling Close more than once is a no-op.
func (b *Broadcaster[T]) Close() {
	b.m.Lock()
	defer b.m.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subscribers {
		s.done = true
		close(s.c)
		delete(b.subscribers, id)
	}
}

func (b *Broadcaster[T]) unsubscribe(s *Subscription[T]) {
	// drain channel so a Send blocked on this subscriber can finish and
	// release the lock
	go func(in chan T) {
		//nolint:revive // draining only
		for range in {
		}
	}(s.c)

	b.m.Lock()
	defer b.m.Unlock()

	if s.done {
		return
	}
	s.done = true
	close(s.c)
	delete(b.subscribers, s.id)
}

// Subscription is a single receiver end of a Broadcaster.
type Subscription[T any] struct {
	id   string
	c    chan T
	b    *Broadcaster[T]
	done bool // guarded by b.m

	closeOnce sync.Once
}

// C returns the channel values are delivered on. The channel is closed when
// either the subscription or the broadcaster is closed.
func (s *Subscription[T]) C() <-chan T {
	return s.c
}

// Recv blocks until a value is available. The boolean is false once the
// subscription is closed and all buffered values were consumed.
func (s *Subscription[T]) Recv(ctx context.Context) (T, bool, error) {
	return cchan.ChanOut[T](s.c).Recv(ctx)
}

// TryRecv returns a buffered value without blocking. The first boolean
// reports if a value was returned, the second if the subscription is still
// open.
func (s *Subscription[T]) TryRecv() (T, bool, bool) {
	return cchan.ChanOut[T](s.c).TryRecv()
}

// Close removes the subscription from the broadcaster. Buffered values that
// were not consumed yet are discarded. Close is idempotent.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() { s.b.unsubscribe(s) })
}
