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
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// SourceBuildCtx carries the environment a source needs at build time
// without owning it.
type SourceBuildCtx struct {
	// WorkRoot is the directory for persisted state and checkpoints.
	WorkRoot string
	// ReplicaIdx is the 0-based index of the replica being built. It is kept
	// as given, even if it's not below ReplicaCnt.
	ReplicaIdx int
	// ReplicaCnt is the number of replicas of the group, at least 1.
	ReplicaCnt int
	// RateLimitRPS is the upstream rate hint in records per second, 0 means
	// unlimited.
	RateLimitRPS int
}

func NewSourceBuildCtx(workRoot string) SourceBuildCtx {
	return SourceBuildCtx{WorkRoot: workRoot, ReplicaCnt: 1}
}

// NewSourceBuildCtxWithReplica creates a build context for one replica of a
// group. A count below 1 is clamped to 1.
func NewSourceBuildCtxWithReplica(workRoot string, idx, cnt int) SourceBuildCtx {
	return SourceBuildCtx{WorkRoot: workRoot, ReplicaIdx: idx, ReplicaCnt: clampReplicas(cnt)}
}

// WithLimit returns a copy with the rate hint set.
func (c SourceBuildCtx) WithLimit(rps int) SourceBuildCtx {
	c.RateLimitRPS = rps
	return c
}

// Replicas returns the replica count, at least 1.
func (c SourceBuildCtx) Replicas() int { return clampReplicas(c.ReplicaCnt) }

// Owns reports if the i-th unit of work belongs to this replica. The
// partitioning is advisory, connectors are free to split work differently.
func (c SourceBuildCtx) Owns(i int) bool { return i%c.Replicas() == c.ReplicaIdx }

// Limiter returns a limiter honouring the rate hint.
func (c SourceBuildCtx) Limiter() *rate.Limiter { return newLimiter(c.RateLimitRPS) }

// StatePath joins elem to the work root.
func (c SourceBuildCtx) StatePath(elem ...string) string { return statePath(c.WorkRoot, elem) }

// SinkBuildCtx carries the environment a sink needs at build time without
// owning it.
type SinkBuildCtx struct {
	// WorkRoot is the directory for persisted state.
	WorkRoot string
	// ReplicaIdx is the 0-based index of the replica being built. It is kept
	// as given, even if it's not below ReplicaCnt.
	ReplicaIdx int
	// ReplicaCnt is the number of replicas of the group, at least 1.
	ReplicaCnt int
	// RateLimitRPS is the rate hint in records per second, 0 means
	// unlimited.
	RateLimitRPS int
}

func NewSinkBuildCtx(workRoot string) SinkBuildCtx {
	return SinkBuildCtx{WorkRoot: workRoot, ReplicaCnt: 1}
}

// NewSinkBuildCtxWithReplica creates a build context for one replica of a
// group. A count below 1 is clamped to 1.
func NewSinkBuildCtxWithReplica(workRoot string, idx, cnt int) SinkBuildCtx {
	return SinkBuildCtx{WorkRoot: workRoot, ReplicaIdx: idx, ReplicaCnt: clampReplicas(cnt)}
}

func (c SinkBuildCtx) WithLimit(rps int) SinkBuildCtx {
	c.RateLimitRPS = rps
	return c
}

func (c SinkBuildCtx) Replicas() int { return clampReplicas(c.ReplicaCnt) }

func (c SinkBuildCtx) Limiter() *rate.Limiter { return newLimiter(c.RateLimitRPS) }

func (c SinkBuildCtx) StatePath(elem ...string) string { return statePath(c.WorkRoot, elem) }

func clampReplicas(cnt int) int {
	if cnt < 1 {
		return 1
	}
	return cnt
}

func newLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), rps)
}

func statePath(root string, elem []string) string {
	return filepath.Join(append([]string{root}, elem...)...)
}

// SourceFactory builds source instances of one connector kind.
// All implementations must embed UnimplementedSourceFactory for forward
// compatibility.
type SourceFactory interface {
	SourceDefProvider

	// Kind returns the stable type discriminant, e.g. "kafka".
	Kind() string
	// ValidateSpec checks the spec for misconfiguration. It must be cheap and
	// must not perform I/O.
	ValidateSpec(ResolvedSourceSpec) error
	// Build opens all resources and returns the built sources. It's the only
	// step that performs I/O.
	Build(context.Context, ResolvedSourceSpec, SourceBuildCtx) (*SourceSvcIns, error)

	mustEmbedUnimplementedSourceFactory()
}

// SinkFactory builds sink instances of one connector kind.
// All implementations must embed UnimplementedSinkFactory for forward
// compatibility.
type SinkFactory interface {
	SinkDefProvider

	Kind() string
	// ValidateSpec checks the spec for misconfiguration. It must be cheap and
	// must not perform I/O.
	ValidateSpec(ResolvedSinkSpec) error
	Build(context.Context, ResolvedSinkSpec, SinkBuildCtx) (*SinkHandle, error)

	mustEmbedUnimplementedSinkFactory()
}

// ServiceAcceptor is implemented by sources that accept inbound connections
// instead of polling an upstream.
type ServiceAcceptor interface {
	// AcceptConnection serves connections until a ControlStop is received on
	// rx or the context is done.
	AcceptConnection(ctx context.Context, rx CtrlRx) error
}

// AcceptorHandle is a named ServiceAcceptor.
type AcceptorHandle struct {
	Name     string
	Acceptor ServiceAcceptor
}

// Serve subscribes to the bus and runs the acceptor until it returns.
func (a AcceptorHandle) Serve(ctx context.Context, bus *ControlBus) error {
	rx := bus.Subscribe()
	defer rx.Close()

	Logger(ctx).Debug().Str("acceptor", a.Name).Msg("accepting connections")
	err := a.Acceptor.AcceptConnection(ctx, rx)
	if err != nil {
		return fmt.Errorf("acceptor %s: %w", a.Name, err)
	}
	return nil
}

// SourceSvcIns is the result of one SourceFactory.Build call, zero or more
// sources plus an optional acceptor.
type SourceSvcIns struct {
	Sources  []*SourceHandle
	Acceptor *AcceptorHandle
}

func NewSourceSvcIns() *SourceSvcIns {
	return &SourceSvcIns{}
}

// WithSources replaces the sources.
func (s *SourceSvcIns) WithSources(sources ...*SourceHandle) *SourceSvcIns {
	s.Sources = sources
	return s
}

func (s *SourceSvcIns) PushSource(h *SourceHandle) {
	s.Sources = append(s.Sources, h)
}

func (s *SourceSvcIns) WithAcceptor(a AcceptorHandle) *SourceSvcIns {
	s.Acceptor = &a
	return s
}

// Close closes every source, all failures are combined.
func (s *SourceSvcIns) Close(ctx context.Context) error {
	var errs error
	for _, h := range s.Sources {
		if err := h.Close(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close %s: %w", h.Identifier(), err))
		}
	}
	return errs
}

func (s *SourceSvcIns) String() string {
	names := make([]string, len(s.Sources))
	for i, h := range s.Sources {
		names[i] = h.Identifier()
	}
	acceptor := "none"
	if s.Acceptor != nil {
		acceptor = s.Acceptor.Name
	}
	return fmt.Sprintf("SourceSvcIns{sources: [%s], acceptor: %s}", strings.Join(names, ", "), acceptor)
}
