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

package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	sdk "github.com/wpparse/wp-connector-sdk"
	"gopkg.in/tomb.v2"
)

const queueCapacity = 1024

// QueueSource is a blocking source emitting the lines pushed by an Acceptor.
type QueueSource struct {
	sdk.UnimplementedSource

	id   string
	name string
	tags *sdk.Tags

	lines chan string
	done  chan struct{}
	once  sync.Once

	m      sync.Mutex
	rx     sdk.CtrlRx
	nextID uint64
}

func NewQueueSource(name string, tags *sdk.Tags) *QueueSource {
	return &QueueSource{
		id:    fmt.Sprintf("%s/%s#queue", Kind, name),
		name:  name,
		tags:  tags,
		lines: make(chan string, queueCapacity),
		done:  make(chan struct{}),
	}
}

// Push queues a line, it blocks while the queue is full.
func (s *QueueSource) Push(ctx context.Context, line string) error {
	select {
	case s.lines <- line:
		return nil
	case <-s.done:
		return sdk.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *QueueSource) Start(_ context.Context, rx sdk.CtrlRx) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.rx = rx
	return nil
}

// Receive blocks until a line is queued. It returns an EOF error once the
// source is stopped or closed.
func (s *QueueSource) Receive(ctx context.Context) (sdk.SourceBatch, error) {
	var ctrl <-chan sdk.ControlEvent
	s.m.Lock()
	if s.rx != nil {
		ctrl = s.rx.C()
	}
	s.m.Unlock()

	for {
		select {
		case line := <-s.lines:
			return sdk.SourceBatch{s.event(line)}, nil
		case ev, ok := <-ctrl:
			if !ok {
				ctrl = nil
				continue
			}
			if _, stop := ev.(sdk.ControlStop); stop {
				s.stop()
				return nil, sdk.NewEOFError()
			}
		case <-s.done:
			return nil, sdk.NewEOFError()
		case <-ctx.Done():
			return nil, sdk.NewNotDataError().WithDetail(ctx.Err().Error())
		}
	}
}

func (s *QueueSource) TryReceive() (sdk.SourceBatch, bool) {
	select {
	case line := <-s.lines:
		return sdk.SourceBatch{s.event(line)}, true
	default:
		return nil, false
	}
}

func (s *QueueSource) SupportsTryReceive() bool { return true }

func (s *QueueSource) CanTryReceive() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *QueueSource) Identifier() string { return s.id }

func (s *QueueSource) Close(context.Context) error {
	s.stop()
	s.m.Lock()
	defer s.m.Unlock()
	if s.rx != nil {
		s.rx.Close()
	}
	return nil
}

func (s *QueueSource) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *QueueSource) event(line string) sdk.SourceEvent {
	s.m.Lock()
	defer s.m.Unlock()
	s.nextID++
	return sdk.NewSourceEvent(s.nextID, s.name, sdk.NewRawString(line), s.tags)
}

// Acceptor serves connections of a Listener, every line read from a
// connection is pushed to a QueueSource.
type Acceptor struct {
	ln    *Listener
	queue *QueueSource
}

func NewAcceptor(ln *Listener, queue *QueueSource) *Acceptor {
	return &Acceptor{ln: ln, queue: queue}
}

// AcceptConnection serves every connection on its own goroutine until a
// ControlStop is received or ctx is done. The listener is closed on return.
func (a *Acceptor) AcceptConnection(ctx context.Context, rx sdk.CtrlRx) error {
	defer a.ln.Close()

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		return a.accept(ctx, t, rx)
	})
	err := t.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Acceptor) accept(ctx context.Context, t *tomb.Tomb, rx sdk.CtrlRx) error {
	conns := make(chan net.Conn)
	t.Go(func() error {
		for {
			conn, err := a.ln.Accept(ctx)
			if err != nil {
				return nil
			}
			select {
			case conns <- conn:
			case <-t.Dying():
				conn.Close()
				return nil
			}
		}
	})

	for {
		select {
		case ev, ok := <-rx.C():
			if _, stop := ev.(sdk.ControlStop); stop || !ok {
				sdk.Logger(ctx).Debug().Str("listener", a.ln.Addr()).Msg("acceptor stopping")
				t.Kill(nil)
				return nil
			}
		case conn := <-conns:
			t.Go(func() error {
				return a.serve(ctx, t, conn)
			})
		case <-t.Dying():
			return nil
		}
	}
}

func (a *Acceptor) serve(ctx context.Context, t *tomb.Tomb, conn net.Conn) error {
	t.Go(func() error {
		<-t.Dying()
		return conn.Close()
	})

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		if err := a.queue.Push(ctx, sc.Text()); err != nil {
			if !t.Alive() || errors.Is(err, sdk.ErrClosed) {
				return nil
			}
			return err
		}
	}
	if err := sc.Err(); err != nil && t.Alive() {
		return fmt.Errorf("read from %s: %w", a.ln.Addr(), err)
	}
	return nil
}
