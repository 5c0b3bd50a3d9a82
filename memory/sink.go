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
	"sync"

	sdk "github.com/wpparse/wp-connector-sdk"
	"golang.org/x/time/rate"
)

// Buffer collects the payloads written by memory sinks.
type Buffer struct {
	m     sync.Mutex
	items [][]byte
}

func (b *Buffer) append(items ...[]byte) {
	b.m.Lock()
	defer b.m.Unlock()
	for _, it := range items {
		b.items = append(b.items, append([]byte(nil), it...))
	}
}

// Items returns a copy of all written payloads as strings.
func (b *Buffer) Items() []string {
	b.m.Lock()
	defer b.m.Unlock()
	out := make([]string, len(b.items))
	for i, it := range b.items {
		out[i] = string(it)
	}
	return out
}

func (b *Buffer) Len() int {
	b.m.Lock()
	defer b.m.Unlock()
	return len(b.items)
}

func (b *Buffer) Reset() {
	b.m.Lock()
	defer b.m.Unlock()
	b.items = nil
}

// Sink writes raw data into a Buffer. It implements the control and raw
// facets of sdk.AsyncSink, records are handled by a serialized record sink,
// see NewSinkHandle.
type Sink struct {
	buf     *Buffer
	limiter *rate.Limiter

	m       sync.Mutex
	stops   int
	reconns int
}

func NewSink(buf *Buffer, limiter *rate.Limiter) *Sink {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Sink{buf: buf, limiter: limiter}
}

// NewSinkHandle composes s with a record facet serializing records with
// serializer.
func NewSinkHandle(s *Sink, serializer sdk.RecordSerializer) *sdk.SinkHandle {
	return sdk.NewSinkHandle(sdk.ComposeSink(s, sdk.NewSerializedRecordSink(s, serializer), s))
}

func (s *Sink) Stop(ctx context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.stops++
	sdk.Logger(ctx).Debug().Int("items", s.buf.Len()).Msg("memory sink stopped")
	return nil
}

func (s *Sink) Reconnect(context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.reconns++
	return nil
}

func (s *Sink) SinkStr(ctx context.Context, str string) error {
	return s.SinkBytes(ctx, []byte(str))
}

func (s *Sink) SinkBytes(ctx context.Context, b []byte) error {
	if err := s.wait(ctx, 1); err != nil {
		return err
	}
	s.buf.append(b)
	return nil
}

func (s *Sink) SinkStrBatch(ctx context.Context, ss []string) error {
	bs := make([][]byte, len(ss))
	for i, str := range ss {
		bs[i] = []byte(str)
	}
	return s.SinkBytesBatch(ctx, bs)
}

func (s *Sink) SinkBytesBatch(ctx context.Context, bs [][]byte) error {
	if err := s.wait(ctx, len(bs)); err != nil {
		return err
	}
	s.buf.append(bs...)
	return nil
}

// Stops returns how often Stop was called on the sink.
func (s *Sink) Stops() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.stops
}

// Reconnects returns how often Reconnect was called on the sink.
func (s *Sink) Reconnects() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.reconns
}

// wait takes n tokens from the limiter one at a time.
func (s *Sink) wait(ctx context.Context, n int) error {
	if s.limiter.Limit() == rate.Inf {
		return nil
	}
	for i := 0; i < n; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return sdk.OweSink(err, "rate limit")
		}
	}
	return nil
}
