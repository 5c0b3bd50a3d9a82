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
	"strconv"
	"sync"

	sdk "github.com/wpparse/wp-connector-sdk"
)

// Position is the id of an event emitted by a memory source. It's used both
// as ack token and as seek position.
type Position uint64

func (p Position) String() string { return strconv.FormatUint(uint64(p), 10) }

// ParsePosition parses the string form of a Position.
func ParsePosition(s string) (Position, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return Position(v), nil
}

type entry struct {
	id      uint64
	payload string
}

// Source is a polling source emitting a fixed list of events, one event per
// Receive. Once all events are emitted it returns empty batches until it's
// stopped.
type Source struct {
	sdk.UnimplementedSource

	id     string
	name   string
	caps   sdk.SourceCaps
	tags   *sdk.Tags
	events []entry

	m        sync.Mutex
	rx       sdk.CtrlRx
	cursor   int
	isolated bool
	stopped  bool
	acked    []uint64
}

// NewSource creates a source emitting the events of cfg owned by the replica
// described by bctx. Event i gets id i+1 so ids are global across replicas.
func NewSource(name string, cfg SourceConfig, tags *sdk.Tags, bctx sdk.SourceBuildCtx) *Source {
	var events []entry
	for i, e := range cfg.Events {
		if bctx.Owns(i) {
			events = append(events, entry{id: uint64(i) + 1, payload: e})
		}
	}
	return &Source{
		id:     fmt.Sprintf("%s/%s#%d", Kind, name, bctx.ReplicaIdx),
		name:   name,
		caps:   sdk.SourceCaps{Ack: cfg.Ack, Seek: cfg.Seek, Parallel: bctx.Replicas() > 1},
		tags:   tags,
		events: events,
	}
}

func (s *Source) Start(_ context.Context, rx sdk.CtrlRx) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.rx = rx
	return nil
}

func (s *Source) Receive(ctx context.Context) (sdk.SourceBatch, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.drainControl(ctx)

	if s.stopped {
		return nil, sdk.NewEOFError()
	}
	ev, ok := s.next()
	if !ok {
		return sdk.SourceBatch{}, nil
	}
	return sdk.SourceBatch{ev}, nil
}

func (s *Source) TryReceive() (sdk.SourceBatch, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	s.drainControl(context.Background())

	if s.stopped {
		return nil, false
	}
	ev, ok := s.next()
	if !ok {
		return nil, false
	}
	return sdk.SourceBatch{ev}, true
}

func (s *Source) SupportsTryReceive() bool { return true }

func (s *Source) CanTryReceive() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return !s.stopped
}

func (s *Source) Identifier() string { return s.id }

func (s *Source) Caps() sdk.SourceCaps { return s.caps }

// Ack records the acknowledged event id. The token must be a Position.
func (s *Source) Ack(_ context.Context, token sdk.AckToken) error {
	p, ok := token.(Position)
	if !ok {
		return sdk.NewSupplierError(fmt.Sprintf("unexpected ack token %T", token))
	}
	s.m.Lock()
	defer s.m.Unlock()
	s.acked = append(s.acked, uint64(p))
	return nil
}

// Seek moves the cursor to the first owned event with an id equal to or
// greater than pos. The position can be a Position or its string form.
func (s *Source) Seek(_ context.Context, pos sdk.SeekPosition) error {
	p, err := toPosition(pos)
	if err != nil {
		return sdk.NewSupplierError("invalid seek position").WithDetail(err.Error())
	}
	s.m.Lock()
	defer s.m.Unlock()
	s.seek(p)
	return nil
}

func (s *Source) Close(context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.stopped = true
	if s.rx != nil {
		s.rx.Close()
	}
	return nil
}

// Acked returns the acknowledged event ids in the order they were acked.
func (s *Source) Acked() []uint64 {
	s.m.Lock()
	defer s.m.Unlock()
	out := make([]uint64, len(s.acked))
	copy(out, s.acked)
	return out
}

// drainControl applies all pending control events. The lock must be held.
func (s *Source) drainControl(ctx context.Context) {
	if s.rx == nil {
		return
	}
	for {
		ev, ok := s.rx.TryRecv()
		if !ok {
			return
		}
		switch ev := ev.(type) {
		case sdk.ControlStop:
			s.stopped = true
		case sdk.ControlIsolate:
			s.isolated = ev.Isolated
		case sdk.ControlSeek:
			p, err := toPosition(ev.Position)
			if err != nil {
				sdk.Logger(ctx).Warn().Err(err).Str("source", s.id).Msg("ignoring seek control event")
				continue
			}
			s.seek(p)
		}
	}
}

// next returns the event under the cursor and advances it. The lock must be
// held.
func (s *Source) next() (sdk.SourceEvent, bool) {
	if s.isolated || s.cursor >= len(s.events) {
		return sdk.SourceEvent{}, false
	}
	e := s.events[s.cursor]
	s.cursor++
	return sdk.NewSourceEvent(e.id, s.name, sdk.NewRawString(e.payload), s.tags), true
}

func (s *Source) seek(p Position) {
	s.cursor = len(s.events)
	for i, e := range s.events {
		if e.id >= uint64(p) {
			s.cursor = i
			return
		}
	}
}

func toPosition(pos fmt.Stringer) (Position, error) {
	if p, ok := pos.(Position); ok {
		return p, nil
	}
	if pos == nil {
		return 0, errors.New("missing position")
	}
	return ParsePosition(pos.String())
}
