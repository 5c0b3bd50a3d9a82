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
	"fmt"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"golang.org/x/sync/errgroup"
)

// BenchmarkSource is a benchmark that any source implementation can run to
// figure out its performance. The benchmark expects that the source emits at
// least b.N events. This should be prepared before the benchmark is executed.
// The function should be manually called from a benchmark function:
//
//	func BenchmarkSource(b *testing.B) {
//	    // set up test dependencies and prepare b.N events ...
//	    sdk.BenchmarkSource(
//	        b,
//	        sdk.NewSourceHandle(mySource, sdk.SourceMeta{...}),
//	        nil, // function returning the ack token of an event
//	    )
//	}
//
// If ackToken is nil or the source does not support acks, acks are not
// benchmarked. The benchmark can be run with a specific number of events by
// supplying the option -benchtime=Nx, where N is the number of events to be
// benchmarked (e.g. -benchtime=100x benchmarks reading 100 events).
func BenchmarkSource(
	b *testing.B,
	h *SourceHandle,
	ackToken func(SourceEvent) AckToken,
) {
	bm := benchmarkSource{
		handle:   h,
		ackToken: ackToken,
	}
	bm.Run(b)
}

type benchmarkSource struct {
	handle   *SourceHandle
	ackToken func(SourceEvent) AckToken

	// measures
	start     time.Duration
	firstRead time.Duration
	allReads  time.Duration
	stop      time.Duration
	close     time.Duration
	firstAck  time.Duration
	allAcks   time.Duration
}

func (bm *benchmarkSource) Run(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewControlBus(DefaultControlBusCapacity)
	defer bus.Close()

	bm.start = bm.measure(func() {
		err := bm.handle.Start(ctx, bus)
		if err != nil {
			b.Fatal(err)
		}
	})

	acking := bm.ackToken != nil && bm.handle.Caps().Ack
	acks := make(chan SourceEvent, b.N) // huge buffer so we don't delay reads
	var g errgroup.Group
	g.Go(func() error {
		if !acking {
			//nolint:revive // draining only
			for range acks {
			}
			return nil
		}
		return bm.acker(acks)
	})

	r := &reader{
		handle:  bm.handle,
		backoff: backoff.Backoff{Factor: 2, Min: time.Millisecond, Max: 100 * time.Millisecond},
	}
	// measure first event read manually, it might be slower
	bm.firstRead = bm.measure(func() {
		ev, err := r.next(ctx)
		if err != nil {
			b.Fatal("Receive:", err)
		}
		acks <- ev
	})

	bm.allReads = bm.measure(func() {
		for i := 0; i < b.N-1; i++ {
			ev, err := r.next(ctx)
			if err != nil {
				b.Fatal("Receive:", err)
			}
			acks <- ev
		}
	})

	// stop
	var err error
	bm.stop = bm.measure(func() {
		close(acks)
		_, err = bus.Broadcast(ctx, ControlStop{})
		if err == nil {
			err = g.Wait()
		}
	})
	if err != nil {
		b.Fatal("stop:", err)
	}

	bm.close = bm.measure(func() {
		err := bm.handle.Close(context.Background())
		if err != nil {
			b.Fatal(err)
		}
	})

	// report gathered metrics
	bm.reportMetrics(b, acking)
}

func (bm *benchmarkSource) acker(c <-chan SourceEvent) error {
	ctx := context.Background()

	ev := <-c // read first ack manually

	var err error
	bm.firstAck = bm.measure(func() {
		err = bm.handle.Ack(ctx, bm.ackToken(ev))
	})
	if err != nil {
		return fmt.Errorf("ack fail: %w", err)
	}

	bm.allAcks = bm.measure(func() {
		for ev := range c {
			err = bm.handle.Ack(ctx, bm.ackToken(ev))
			if err != nil {
				return
			}
		}
	})
	if err != nil {
		return fmt.Errorf("ack fail: %w", err)
	}

	return nil
}

func (*benchmarkSource) measure(f func()) time.Duration {
	start := time.Now()
	f()
	return time.Since(start)
}

func (bm *benchmarkSource) reportMetrics(b *testing.B, acking bool) {
	b.ReportMetric(0, "ns/op") // suppress ns/op metric, it is misleading in this benchmarkSource

	b.ReportMetric(bm.start.Seconds(), "start")
	b.ReportMetric(bm.stop.Seconds(), "stop")
	b.ReportMetric(bm.close.Seconds(), "close")

	b.ReportMetric(bm.firstRead.Seconds(), "firstRead")
	b.ReportMetric(float64(b.N-1)/bm.allReads.Seconds(), "reads/s")

	if acking {
		b.ReportMetric(bm.firstAck.Seconds(), "firstAck")
		b.ReportMetric(float64(b.N-1)/bm.allAcks.Seconds(), "acks/s")
	}
}

// reader returns the events of a source one by one, empty batches are
// retried with a backoff.
type reader struct {
	handle  *SourceHandle
	pending SourceBatch
	backoff backoff.Backoff
}

func (r *reader) next(ctx context.Context) (SourceEvent, error) {
	for len(r.pending) == 0 {
		batch, err := r.handle.Receive(ctx)
		if reason, ok := SourceReasonOf(err); ok && reason == SourceReasonNotData {
			batch = nil
		} else if err != nil {
			return SourceEvent{}, err
		}
		if len(batch) == 0 {
			select {
			case <-ctx.Done():
				return SourceEvent{}, ctx.Err()
			case <-time.After(r.backoff.Duration()):
			}
			continue
		}
		r.backoff.Reset()
		r.pending = batch
	}
	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev, nil
}
