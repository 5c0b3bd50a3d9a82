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
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
)

const listenerBacklog = 16

var (
	ErrAddrInUse      = errors.New("address already in use")
	ErrConnRefused    = errors.New("connection refused")
	ErrListenerClosed = errors.New("listener closed")
)

// DefaultHub is the hub used by the factories of Connector.
var DefaultHub = NewHub()

// Hub is an in-process network. Listeners are registered under a name and
// Dial connects to them through synchronous in-memory pipes. The hub also
// keeps the buffers memory sinks write to.
type Hub struct {
	m         sync.Mutex
	listeners map[string]*Listener
	buffers   map[string]*Buffer
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string]*Listener),
		buffers:   make(map[string]*Buffer),
	}
}

// Listen registers a listener under addr.
func (h *Hub) Listen(addr string) (*Listener, error) {
	h.m.Lock()
	defer h.m.Unlock()
	if _, ok := h.listeners[addr]; ok {
		return nil, fmt.Errorf("listen %s: %w", addr, ErrAddrInUse)
	}
	l := &Listener{
		hub:   h,
		addr:  addr,
		conns: make(chan net.Conn, listenerBacklog),
		done:  make(chan struct{}),
	}
	h.listeners[addr] = l
	return l, nil
}

// Dial connects to the listener registered under addr. It blocks until the
// listener takes the connection into its backlog or ctx is done.
func (h *Hub) Dial(ctx context.Context, addr string) (net.Conn, error) {
	h.m.Lock()
	l, ok := h.listeners[addr]
	h.m.Unlock()
	if !ok {
		return nil, fmt.Errorf("dial %s: %w", addr, ErrConnRefused)
	}

	client, server := net.Pipe()
	select {
	case l.conns <- server:
		return client, nil
	case <-l.done:
		client.Close()
		server.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, ErrConnRefused)
	case <-ctx.Done():
		client.Close()
		server.Close()
		return nil, ctx.Err()
	}
}

// Buffer returns the buffer registered under name, creating it if needed.
func (h *Hub) Buffer(name string) *Buffer {
	h.m.Lock()
	defer h.m.Unlock()
	b, ok := h.buffers[name]
	if !ok {
		b = &Buffer{}
		h.buffers[name] = b
	}
	return b
}

func (h *Hub) remove(l *Listener) {
	h.m.Lock()
	defer h.m.Unlock()
	if h.listeners[l.addr] == l {
		delete(h.listeners, l.addr)
	}
}

// Listener accepts connections dialed through a Hub.
type Listener struct {
	hub   *Hub
	addr  string
	conns chan net.Conn
	done  chan struct{}
	once  sync.Once
}

func (l *Listener) Addr() string { return l.addr }

// Accept blocks until a connection is dialed, the listener is closed or ctx
// is done.
func (l *Listener) Accept(ctx context.Context) (net.Conn, error) {
	select {
	case c := <-l.conns:
		return c, nil
	case <-l.done:
		return nil, ErrListenerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close unregisters the listener and closes all connections still waiting in
// the backlog. Close is idempotent.
func (l *Listener) Close() error {
	l.once.Do(func() {
		l.hub.remove(l)
		close(l.done)
		for {
			select {
			case c := <-l.conns:
				c.Close()
			default:
				return
			}
		}
	})
	return nil
}
