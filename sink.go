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

//go:generate mockgen -destination=mock_sink_test.go -self_package=github.com/wpparse/wp-connector-sdk -package=sdk -write_package_comment=false . AsyncSink

package sdk

import (
	"context"
	"fmt"
	"sync"
)

// SinkCtrl is the control facet of a sink. Both operations are idempotent.
type SinkCtrl interface {
	// Stop flushes and releases the sink. After Stop writes are rejected.
	Stop(context.Context) error
	// Reconnect recovers a broken connection and keeps all configuration
	// that does not depend on the connection.
	Reconnect(context.Context) error
}

// RecordSink is the structured record facet of a sink. The order of a
// batch is preserved in the underlying write.
type RecordSink interface {
	SinkRecord(context.Context, *DataRecord) error
	SinkRecords(context.Context, []*DataRecord) error
}

// RawDataSink is the raw facet of a sink. The order of a batch is preserved
// in the underlying write.
type RawDataSink interface {
	SinkStr(context.Context, string) error
	SinkBytes(context.Context, []byte) error
	SinkStrBatch(context.Context, []string) error
	SinkBytesBatch(context.Context, [][]byte) error
}

// AsyncSink is a sink that implements all facets.
type AsyncSink interface {
	SinkCtrl
	RecordSink
	RawDataSink
}

type composedSink struct {
	SinkCtrl
	RecordSink
	RawDataSink
}

// ComposeSink combines independently implemented facets into one AsyncSink.
func ComposeSink(ctrl SinkCtrl, records RecordSink, raw RawDataSink) AsyncSink {
	return composedSink{
		SinkCtrl:    ctrl,
		RecordSink:  records,
		RawDataSink: raw,
	}
}

type serializedRecordSink struct {
	raw        RawDataSink
	serializer RecordSerializer
}

// NewSerializedRecordSink implements the record facet on top of a raw sink,
// every record is serialized and written as bytes. If serializer is nil the
// default serializer is used.
func NewSerializedRecordSink(raw RawDataSink, serializer RecordSerializer) RecordSink {
	if serializer == nil {
		serializer = DefaultRecordSerializer()
	}
	return serializedRecordSink{raw: raw, serializer: serializer}
}

func (s serializedRecordSink) SinkRecord(ctx context.Context, r *DataRecord) error {
	b, err := s.serializer.Serialize(r)
	if err != nil {
		return OweSink(err, "serialize record")
	}
	return s.raw.SinkBytes(ctx, b)
}

func (s serializedRecordSink) SinkRecords(ctx context.Context, rs []*DataRecord) error {
	out := make([][]byte, len(rs))
	for i, r := range rs {
		b, err := s.serializer.Serialize(r)
		if err != nil {
			return OweSink(err, fmt.Sprintf("serialize record %d", i))
		}
		out[i] = b
	}
	return s.raw.SinkBytesBatch(ctx, out)
}

// SinkHandle wraps a sink built by a SinkFactory. Calls are serialized, Stop
// is executed once, writes and reconnects after Stop fail with
// ErrSinkStopped and empty batches are not forwarded.
type SinkHandle struct {
	sink AsyncSink

	m       sync.Mutex
	stopped bool
	stopErr error
	reconns int
	lastErr error
}

func NewSinkHandle(sink AsyncSink) *SinkHandle {
	return &SinkHandle{sink: sink}
}

// Sink returns the wrapped sink.
func (h *SinkHandle) Sink() AsyncSink { return h.sink }

func (h *SinkHandle) stoppedErr(op string) error {
	return &SinkError{Reason: SinkReasonSink, Msg: op, Err: ErrSinkStopped}
}

func (h *SinkHandle) do(op string, fn func() error) error {
	h.m.Lock()
	defer h.m.Unlock()
	if h.stopped {
		return h.stoppedErr(op)
	}
	err := WrapSinkError(fn())
	h.lastErr = err
	return err
}

// Stop stops the sink once and returns the cached outcome on later calls.
func (h *SinkHandle) Stop(ctx context.Context) error {
	h.m.Lock()
	defer h.m.Unlock()
	if h.stopped {
		return h.stopErr
	}
	h.stopped = true
	h.stopErr = WrapSinkError(h.sink.Stop(ctx))
	if h.stopErr != nil {
		Logger(ctx).Warn().Err(h.stopErr).Msg("failed to stop sink")
	}
	return h.stopErr
}

func (h *SinkHandle) Reconnect(ctx context.Context) error {
	return h.do("reconnect", func() error {
		h.reconns++
		Logger(ctx).Debug().Int("attempt", h.reconns).Msg("reconnecting sink")
		return h.sink.Reconnect(ctx)
	})
}

func (h *SinkHandle) SinkRecord(ctx context.Context, r *DataRecord) error {
	return h.do("sink record", func() error { return h.sink.SinkRecord(ctx, r) })
}

func (h *SinkHandle) SinkRecords(ctx context.Context, rs []*DataRecord) error {
	return h.do("sink records", func() error {
		if len(rs) == 0 {
			return nil
		}
		return h.sink.SinkRecords(ctx, rs)
	})
}

func (h *SinkHandle) SinkStr(ctx context.Context, s string) error {
	return h.do("sink str", func() error { return h.sink.SinkStr(ctx, s) })
}

func (h *SinkHandle) SinkBytes(ctx context.Context, b []byte) error {
	return h.do("sink bytes", func() error { return h.sink.SinkBytes(ctx, b) })
}

func (h *SinkHandle) SinkStrBatch(ctx context.Context, ss []string) error {
	return h.do("sink str batch", func() error {
		if len(ss) == 0 {
			return nil
		}
		return h.sink.SinkStrBatch(ctx, ss)
	})
}

func (h *SinkHandle) SinkBytesBatch(ctx context.Context, bs [][]byte) error {
	return h.do("sink bytes batch", func() error {
		if len(bs) == 0 {
			return nil
		}
		return h.sink.SinkBytesBatch(ctx, bs)
	})
}

// Stopped reports if Stop was called.
func (h *SinkHandle) Stopped() bool {
	h.m.Lock()
	defer h.m.Unlock()
	return h.stopped
}

// LastErr returns the error of the last forwarded call, nil if it
// succeeded.
func (h *SinkHandle) LastErr() error {
	h.m.Lock()
	defer h.m.Unlock()
	return h.lastErr
}
