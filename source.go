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

//go:generate mockgen -destination=mock_source_test.go -self_package=github.com/wpparse/wp-connector-sdk -package=sdk -write_package_comment=false . DataSource

package sdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wpparse/wp-connector-sdk/internal"
	"github.com/wpparse/wp-connector-sdk/internal/csync"
)

// closeWatchTimeout is how long SourceHandle.Close waits for the control
// watcher to stop.
const closeWatchTimeout = 5 * time.Second

// SourceState is the lifecycle state of a SourceHandle.
type SourceState = internal.SourceState

const (
	SourceStateCreated   = internal.StateCreated
	SourceStateStarted   = internal.StateStarted
	SourceStateReceiving = internal.StateReceiving
	SourceStateIsolated  = internal.StateIsolated
	SourceStateClosed    = internal.StateClosed
)

// SourceCaps are the optional capabilities a source advertises once per
// instance. The runtime must not call Ack or Seek unless the corresponding
// flag is true.
type SourceCaps struct {
	// Ack is true if consumed events can be acknowledged upstream.
	Ack bool
	// Seek is true if the source can move to an arbitrary position.
	Seek bool
	// Parallel is true if replicas of the source can consume in parallel.
	Parallel bool
}

func (c SourceCaps) String() string {
	return fmt.Sprintf("ack=%t seek=%t parallel=%t", c.Ack, c.Seek, c.Parallel)
}

// AckToken is an opaque position that can be acknowledged, only the source
// that issued it can interpret it (e.g. a Kafka offset or an SQS receipt
// handle).
type AckToken interface {
	fmt.Stringer
}

// SeekPosition is an opaque position a source can move to (e.g. a
// timestamp or an offset).
type SeekPosition interface {
	fmt.Stringer
}

// DataSource produces batches of events pulled by the runtime.
// All implementations must embed UnimplementedSource for forward compatibility.
type DataSource interface {
	// Start is called once before the first Receive. The source should keep
	// rx and react to the control events it receives: on ControlStop it
	// should return from Receive promptly, on ControlIsolate it should pause
	// or resume output, on ControlSeek it should move to the position.
	Start(ctx context.Context, rx CtrlRx) error

	// Receive blocks until a batch is ready or the context is done. An empty
	// batch means there is no data right now. End of stream and fatal
	// conditions are returned as a *SourceError, the runtime stops calling
	// Receive after it gets an error that is not SourceReasonNotData.
	Receive(ctx context.Context) (SourceBatch, error)

	// TryReceive returns a batch if one is available immediately. It must
	// never block. It's only called if SupportsTryReceive and CanTryReceive
	// both return true.
	TryReceive() (SourceBatch, bool)
	// SupportsTryReceive is static, it reports if the source ever supports
	// TryReceive.
	SupportsTryReceive() bool
	// CanTryReceive is dynamic, it reports if calling TryReceive is safe
	// right now.
	CanTryReceive() bool

	// Identifier returns a stable key of the instance used in logs and
	// metrics.
	Identifier() string
	// Caps returns the capabilities of the instance.
	Caps() SourceCaps

	// Ack acknowledges consumption of events up to token. Only called if
	// Caps().Ack is true.
	Ack(ctx context.Context, token AckToken) error
	// Seek moves the source to pos. Only called if Caps().Seek is true.
	Seek(ctx context.Context, pos SeekPosition) error

	// Close releases all resources. It can be called before Start and more
	// than once.
	Close(ctx context.Context) error

	mustEmbedUnimplementedSource()
}

// SourceMeta describes the source instance a handle wraps.
type SourceMeta struct {
	Name string
	Kind string
	Tags *Tags
}

// SourceHandle pairs a source with its metadata and guards its lifecycle:
// Created -> Started -> Receiving <-> Isolated -> Closed. The runtime owns
// the handle exclusively and only calls the source through it.
type SourceHandle struct {
	Meta SourceMeta

	src  DataSource
	id   string
	caps SourceCaps

	state internal.SourceStateWatcher

	m         sync.Mutex
	started   bool
	closed    bool
	closeErr  error
	rx        *ControlReceiver
	watcher   *ControlReceiver
	watchDone chan struct{}
}

// NewSourceHandle wraps src. Identifier and capabilities are read once and
// cached.
func NewSourceHandle(src DataSource, meta SourceMeta) *SourceHandle {
	if src == nil {
		// prevent nil pointers
		src = UnimplementedSource{}
	}
	if meta.Tags == nil {
		meta.Tags = NewTags()
	}
	return &SourceHandle{
		Meta: meta,
		src:  src,
		id:   src.Identifier(),
		caps: src.Caps(),
	}
}

// Source returns the wrapped source.
func (h *SourceHandle) Source() DataSource { return h.src }

// Identifier returns the cached identifier of the source.
func (h *SourceHandle) Identifier() string { return h.id }

// Caps returns the capabilities advertised when the handle was created.
func (h *SourceHandle) Caps() SourceCaps { return h.caps }

// State returns the current lifecycle state.
func (h *SourceHandle) State() SourceState { return h.state.Get() }

// WaitState blocks until the handle reaches one of the states or the
// context is done.
func (h *SourceHandle) WaitState(ctx context.Context, states ...SourceState) (SourceState, error) {
	if len(states) == 0 {
		return h.state.Get(), fmt.Errorf("wait for source %s state: no states given: %w", h.id, ErrInvalidParameterValue)
	}
	return h.state.Watch(ctx, states...)
}

// Start subscribes the source to the control bus and starts it. Start can
// only succeed once, later calls return ErrAlreadyStarted.
func (h *SourceHandle) Start(ctx context.Context, bus *ControlBus) error {
	h.m.Lock()
	defer h.m.Unlock()

	if h.closed {
		return fmt.Errorf("could not start source %s: %w", h.id, ErrClosed)
	}
	if h.started {
		return fmt.Errorf("could not start source %s: %w", h.id, ErrAlreadyStarted)
	}

	rx := bus.Subscribe()
	watcher := bus.Subscribe()
	if err := h.src.Start(ctx, rx); err != nil {
		rx.Close()
		watcher.Close()
		return WrapSourceError(err)
	}

	h.started = true
	h.rx = rx
	h.watcher = watcher
	h.watchDone = make(chan struct{})
	h.state.Transition(internal.StateStarted, internal.StateCreated)
	go h.watchControl(context.WithoutCancel(ctx), watcher)

	Logger(ctx).Debug().
		Str("source", h.id).
		Str("caps", h.caps.String()).
		Msg("source started")
	return nil
}

// watchControl tracks isolate transitions until the watcher is closed.
func (h *SourceHandle) watchControl(ctx context.Context, watcher *ControlReceiver) {
	defer close(h.watchDone)
	for {
		ev, err := watcher.Recv(ctx)
		if err != nil {
			return
		}
		iso, ok := ev.(ControlIsolate)
		if !ok {
			continue
		}
		var changed bool
		if iso.Isolated {
			_, changed = h.state.Transition(internal.StateIsolated, internal.StateStarted, internal.StateReceiving)
		} else {
			_, changed = h.state.Transition(internal.StateReceiving, internal.StateIsolated)
		}
		if changed {
			Logger(ctx).Trace().Str("source", h.id).Stringer("event", ev).Msg("source isolation changed")
		}
	}
}

// Receive pulls the next batch. Errors that are not a *SourceError are
// wrapped with SourceReasonSystem. After Close it returns an EOF error
// wrapping ErrClosed without calling the source.
func (h *SourceHandle) Receive(ctx context.Context) (SourceBatch, error) {
	if h.state.Get() == internal.StateClosed {
		return nil, &SourceError{Reason: SourceReasonEOF, Msg: "source closed", Err: ErrClosed}
	}
	h.state.Transition(internal.StateReceiving, internal.StateCreated, internal.StateStarted)

	batch, err := h.src.Receive(ctx)
	if err != nil {
		return nil, WrapSourceError(err)
	}
	return batch, nil
}

// TryReceive returns a batch without blocking. It returns false without
// calling the source if the source does not support it right now.
func (h *SourceHandle) TryReceive() (SourceBatch, bool) {
	if h.state.Get() == internal.StateClosed {
		return nil, false
	}
	if !h.src.SupportsTryReceive() || !h.src.CanTryReceive() {
		return nil, false
	}
	return h.src.TryReceive()
}

// CanTryReceive reports if TryReceive may return a batch right now.
func (h *SourceHandle) CanTryReceive() bool {
	return h.state.Get() != internal.StateClosed && h.src.SupportsTryReceive() && h.src.CanTryReceive()
}

// Ack forwards the token to the source. It fails with an unsupported
// supplier error if the source does not advertise the ack capability.
func (h *SourceHandle) Ack(ctx context.Context, token AckToken) error {
	if !h.caps.Ack {
		return unsupportedError("ack")
	}
	return WrapSourceError(h.src.Ack(ctx, token))
}

// Seek forwards the position to the source. It fails with an unsupported
// supplier error if the source does not advertise the seek capability.
func (h *SourceHandle) Seek(ctx context.Context, pos SeekPosition) error {
	if !h.caps.Seek {
		return unsupportedError("seek")
	}
	return WrapSourceError(h.src.Seek(ctx, pos))
}

// Close closes the source exactly once, later calls return the outcome of
// the first call. It is safe to call Close before Start. The source is
// closed even if ctx is already canceled.
func (h *SourceHandle) Close(ctx context.Context) error {
	h.m.Lock()
	defer h.m.Unlock()

	if h.closed {
		return h.closeErr
	}
	h.closed = true

	prev, _ := h.state.Transition(internal.StateClosed)
	h.closeErr = WrapSourceError(h.src.Close(context.WithoutCancel(ctx)))

	if h.rx != nil {
		h.rx.Close()
	}
	if h.watcher != nil {
		h.watcher.Close()
		err := csync.Run(context.WithoutCancel(ctx), func() { <-h.watchDone }, csync.WithTimeout(closeWatchTimeout))
		if err != nil {
			Logger(ctx).Warn().Err(err).Str("source", h.id).Msg("failed to wait for control watcher to stop")
		}
	}

	l := Logger(ctx).Debug()
	if h.closeErr != nil {
		l = Logger(ctx).Warn().Err(h.closeErr)
	}
	l.Str("source", h.id).Stringer("previous_state", prev).Msg("source closed")
	return h.closeErr
}

func (h *SourceHandle) String() string {
	return fmt.Sprintf("SourceHandle{name: %s, kind: %s, id: %s, state: %s}", h.Meta.Name, h.Meta.Kind, h.id, h.state.Get())
}
