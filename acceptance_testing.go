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
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/matryer/is"
)

// AcceptanceTest is the acceptance test that all connector implementations
// should pass. It should manually be called from a test case in each
// implementation:
//
//	func TestAcceptance(t *testing.T) {
//	    // set up test dependencies ...
//	    sdk.AcceptanceTest(t, sdk.AcceptanceTestConfig{...})
//	}
func AcceptanceTest(t *testing.T, cfg AcceptanceTestConfig) {
	acceptanceTest{config: cfg}.Test(t)
}

type AcceptanceTestConfig struct {
	Connector Connector

	// SourceSpec should be a valid spec for the source factory. Sources built
	// from it should produce at least ExpectedEvents events in total.
	SourceSpec ResolvedSourceSpec
	// SinkSpec should be a valid spec for the sink factory.
	SinkSpec ResolvedSinkSpec
	// ExpectedEvents is the number of events the acceptance test waits for
	// after starting the sources. If 0, receiving is not tested.
	ExpectedEvents int

	// ReadTimeout is the maximum time the test waits for events, defaults to
	// 5 seconds.
	ReadTimeout time.Duration
	// Skip is a slice of regular expressions used to identify tests that
	// should be skipped.
	Skip []string
}

type acceptanceTest struct {
	config AcceptanceTestConfig
}

func (a acceptanceTest) Test(t *testing.T) {
	a.run(t, a.testFactory_Kind)
	a.run(t, a.testSourceFactory_Def)
	a.run(t, a.testSinkFactory_Def)
	a.run(t, a.testSource_Close_BeforeStart)
	a.run(t, a.testSource_Start_Twice)
	a.run(t, a.testSource_AckSeek_Capabilities)
	a.run(t, a.testSource_TryReceive_NonBlocking)
	a.run(t, a.testSource_Receive_Ordered)
	a.run(t, a.testSink_Write_Stop)
	a.run(t, a.testSink_Reconnect_Idempotent)
}

func (a acceptanceTest) run(t *testing.T, test func(*testing.T)) {
	name := runtime.FuncForPC(reflect.ValueOf(test).Pointer()).Name()
	name = name[strings.LastIndex(name, ".")+1:]
	name = strings.TrimSuffix(name, "-fm")
	for _, skip := range a.config.Skip {
		if regexp.MustCompile(skip).MatchString(name) {
			t.Run(name, func(t *testing.T) { t.Skipf("skipped by %q", skip) })
			return
		}
	}
	t.Run(name, func(t *testing.T) { test(t) })
}

func (a acceptanceTest) testFactory_Kind(t *testing.T) {
	is := is.NewRelaxed(t) // allow multiple failures for this test

	if a.config.Connector.NewSourceFactory != nil {
		kind := a.config.Connector.NewSourceFactory().Kind()
		is.True(kind != "")                      // SourceFactory.Kind is missing
		is.True(strings.TrimSpace(kind) == kind) // SourceFactory.Kind starts or ends with whitespace
		is.Equal(kind, a.config.SourceSpec.Kind) // SourceSpec.Kind does not match the factory
	}
	if a.config.Connector.NewSinkFactory != nil {
		kind := a.config.Connector.NewSinkFactory().Kind()
		is.True(kind != "")                      // SinkFactory.Kind is missing
		is.True(strings.TrimSpace(kind) == kind) // SinkFactory.Kind starts or ends with whitespace
		is.Equal(kind, a.config.SinkSpec.Kind)   // SinkSpec.Kind does not match the factory
	}
	if a.config.Connector.NewKindAdapter != nil {
		is.True(a.config.Connector.NewKindAdapter().Kind() != "") // ConnectorKindAdapter.Kind is missing
	}
}

func (a acceptanceTest) testSourceFactory_Def(t *testing.T) {
	a.hasSourceFactory(t)
	is := is.New(t)

	f := a.config.Connector.NewSourceFactory()
	def, err := f.SourceDef()
	if errors.Is(err, ErrUnimplemented) {
		t.Skip("source factory does not provide a definition")
	}
	is.NoErr(err)
	is.True(def.ID != "")             // ConnectorDef.ID is missing
	is.Equal(def.Kind, f.Kind())      // ConnectorDef.Kind does not match the factory kind
	is.True(def.DefaultParams != nil) // ConnectorDef.DefaultParams is missing
	is.NoErr(f.ValidateSourceDef(def.WithScope(ScopeSource)))

	_, err = def.ResolveSource("acceptance", nil, nil)
	is.NoErr(err) // resolving the definition without overrides failed
}

func (a acceptanceTest) testSinkFactory_Def(t *testing.T) {
	a.hasSinkFactory(t)
	is := is.New(t)

	f := a.config.Connector.NewSinkFactory()
	def, err := f.SinkDef()
	if errors.Is(err, ErrUnimplemented) {
		t.Skip("sink factory does not provide a definition")
	}
	is.NoErr(err)
	is.True(def.ID != "")
	is.Equal(def.Kind, f.Kind())
	is.True(def.DefaultParams != nil)
	is.NoErr(f.ValidateSinkDef(def.WithScope(ScopeSink)))

	_, err = def.WithScope(ScopeSink).ResolveSink("acceptance", "acceptance", nil, nil)
	is.NoErr(err)
}

func (a acceptanceTest) testSource_Close_BeforeStart(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	svc := a.buildSource(t)
	for _, h := range svc.Sources {
		err1 := h.Close(ctx)
		err2 := h.Close(ctx)
		is.Equal(err1, err2) // Close is not idempotent

		_, err := h.Receive(ctx)
		reason, _ := SourceReasonOf(err)
		is.Equal(reason, SourceReasonEOF) // Receive after Close must signal end of stream
	}
}

func (a acceptanceTest) testSource_Start_Twice(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	bus := NewControlBus(DefaultControlBusCapacity)
	defer bus.Close()

	svc := a.buildSource(t)
	defer a.closeSource(t, svc)
	for _, h := range svc.Sources {
		is.NoErr(h.Start(ctx, bus))
		err := h.Start(ctx, bus)
		is.True(errors.Is(err, ErrAlreadyStarted)) // second Start must be rejected
	}
}

func (a acceptanceTest) testSource_AckSeek_Capabilities(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	svc := a.buildSource(t)
	defer a.closeSource(t, svc)
	for _, h := range svc.Sources {
		caps := h.Caps()
		if !caps.Ack {
			err := h.Ack(ctx, acceptancePosition("ack"))
			is.True(errors.Is(err, ErrUnsupported)) // Ack without capability must be unsupported
		}
		if !caps.Seek {
			err := h.Seek(ctx, acceptancePosition("seek"))
			is.True(errors.Is(err, ErrUnsupported)) // Seek without capability must be unsupported
		}
	}
}

func (a acceptanceTest) testSource_TryReceive_NonBlocking(t *testing.T) {
	is := is.New(t)

	svc := a.buildSource(t)
	defer a.closeSource(t, svc)
	for _, h := range svc.Sources {
		can := h.CanTryReceive()
		done := make(chan bool, 1)
		go func() {
			_, ok := h.TryReceive()
			done <- ok
		}()
		select {
		case ok := <-done:
			if !can {
				is.True(!ok) // TryReceive returned a batch although CanTryReceive is false
			}
		case <-time.After(time.Second):
			t.Fatalf("TryReceive of %s blocked", h.Identifier())
		}
	}
}

func (a acceptanceTest) testSource_Receive_Ordered(t *testing.T) {
	if a.config.ExpectedEvents == 0 {
		t.Skip("ExpectedEvents is not set")
	}
	is := is.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), a.readTimeout())
	defer cancel()

	bus := NewControlBus(DefaultControlBusCapacity)
	defer bus.Close()

	svc := a.buildSource(t)
	defer a.closeSource(t, svc)
	is.True(len(svc.Sources) > 0) // source factory built no sources

	for _, h := range svc.Sources {
		is.NoErr(h.Start(ctx, bus))
	}

	b := &backoff.Backoff{
		Factor: 2,
		Min:    time.Millisecond * 5,
		Max:    time.Millisecond * 200,
	}
	got := 0
	lastID := make(map[*SourceHandle]uint64)
	for got < a.config.ExpectedEvents {
		empty := true
		for _, h := range svc.Sources {
			batch, err := h.Receive(ctx)
			if reason, ok := SourceReasonOf(err); ok && reason == SourceReasonNotData {
				continue
			}
			is.NoErr(err) // Receive failed
			for _, ev := range batch {
				if prev, ok := lastID[h]; ok {
					is.True(ev.EventID > prev) // event ids must increase per source
				}
				lastID[h] = ev.EventID
				got++
			}
			if len(batch) > 0 {
				empty = false
			}
		}
		if empty {
			select {
			case <-ctx.Done():
				t.Fatalf("received %d of %d events before timeout", got, a.config.ExpectedEvents)
			case <-time.After(b.Duration()):
			}
			continue
		}
		b.Reset()
	}

	_, err := bus.Broadcast(ctx, ControlStop{})
	is.NoErr(err)
}

func (a acceptanceTest) testSink_Write_Stop(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	h := a.buildSink(t)
	is.NoErr(h.SinkStrBatch(ctx, []string{"a", "b", "c"}))
	is.NoErr(h.SinkBytes(ctx, []byte("d")))
	is.NoErr(h.SinkRecords(ctx, []*DataRecord{NewDataRecord(NewCharsField("e", "f"))}))

	err1 := h.Stop(ctx)
	err2 := h.Stop(ctx)
	is.NoErr(err1)
	is.Equal(err1, err2) // Stop is not idempotent

	err := h.SinkStr(ctx, "after stop")
	is.True(errors.Is(err, ErrSinkStopped)) // writes after Stop must be rejected
}

func (a acceptanceTest) testSink_Reconnect_Idempotent(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	h := a.buildSink(t)
	defer func() { is.NoErr(h.Stop(ctx)) }()

	is.NoErr(h.Reconnect(ctx))
	is.NoErr(h.Reconnect(ctx))
	is.NoErr(h.SinkStr(ctx, "after reconnect"))
}

func (a acceptanceTest) buildSource(t *testing.T) *SourceSvcIns {
	a.hasSourceFactory(t)
	is := is.New(t)

	f := a.config.Connector.NewSourceFactory()
	is.NoErr(f.ValidateSpec(a.config.SourceSpec)) // source spec is not valid, please check the test setup
	svc, err := f.Build(context.Background(), a.config.SourceSpec, NewSourceBuildCtx(t.TempDir()))
	is.NoErr(err)
	return svc
}

func (a acceptanceTest) closeSource(t *testing.T, svc *SourceSvcIns) {
	if err := svc.Close(context.Background()); err != nil {
		t.Errorf("failed to close sources: %v", err)
	}
}

func (a acceptanceTest) buildSink(t *testing.T) *SinkHandle {
	a.hasSinkFactory(t)
	is := is.New(t)

	f := a.config.Connector.NewSinkFactory()
	is.NoErr(f.ValidateSpec(a.config.SinkSpec)) // sink spec is not valid, please check the test setup
	h, err := f.Build(context.Background(), a.config.SinkSpec, NewSinkBuildCtx(t.TempDir()))
	is.NoErr(err)
	return h
}

func (a acceptanceTest) readTimeout() time.Duration {
	if a.config.ReadTimeout == 0 {
		return 5 * time.Second
	}
	return a.config.ReadTimeout
}

func (a acceptanceTest) hasSourceFactory(t *testing.T) {
	if a.config.Connector.NewSourceFactory == nil {
		t.Skip("connector has no source factory")
	}
}

func (a acceptanceTest) hasSinkFactory(t *testing.T) {
	if a.config.Connector.NewSinkFactory == nil {
		t.Skip("connector has no sink factory")
	}
}

type acceptancePosition string

func (p acceptancePosition) String() string { return string(p) }
