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
)

// UnimplementedSource should be embedded to have forward compatible implementations.
type UnimplementedSource struct{}

// Start is optional, by default it ignores the control receiver.
func (UnimplementedSource) Start(context.Context, CtrlRx) error {
	return nil
}

// Receive needs to be overridden in the actual implementation.
func (UnimplementedSource) Receive(context.Context) (SourceBatch, error) {
	return nil, fmt.Errorf("receive: %w", ErrUnimplemented)
}

// TryReceive should be overridden together with SupportsTryReceive and
// CanTryReceive if the source can return batches without blocking.
func (UnimplementedSource) TryReceive() (SourceBatch, bool) {
	return nil, false
}

func (UnimplementedSource) SupportsTryReceive() bool { return false }

func (UnimplementedSource) CanTryReceive() bool { return false }

// Identifier needs to be overridden in the actual implementation.
func (UnimplementedSource) Identifier() string { return "unimplemented" }

// Caps should be overridden if the source supports ack, seek or parallel
// consumption.
func (UnimplementedSource) Caps() SourceCaps { return SourceCaps{} }

// Ack should be overridden if the source advertises the ack capability.
func (UnimplementedSource) Ack(context.Context, AckToken) error {
	return unsupportedError("ack")
}

// Seek should be overridden if the source advertises the seek capability.
func (UnimplementedSource) Seek(context.Context, SeekPosition) error {
	return unsupportedError("seek")
}

// Close is optional, by default there is nothing to release.
func (UnimplementedSource) Close(context.Context) error {
	return nil
}
func (UnimplementedSource) mustEmbedUnimplementedSource() {}

// UnimplementedSourceFactory should be embedded to have forward compatible
// source factories.
type UnimplementedSourceFactory struct{}

// SourceDef needs to be overridden in the actual implementation.
func (UnimplementedSourceFactory) SourceDef() (ConnectorDef, error) {
	return ConnectorDef{}, fmt.Errorf("source definition: %w", ErrUnimplemented)
}

// ValidateSourceDef is optional, by default every definition is accepted.
func (UnimplementedSourceFactory) ValidateSourceDef(ConnectorDef) error {
	return nil
}

// ValidateSpec is optional, by default every spec is accepted.
func (UnimplementedSourceFactory) ValidateSpec(ResolvedSourceSpec) error {
	return nil
}

// Build needs to be overridden in the actual implementation.
func (UnimplementedSourceFactory) Build(context.Context, ResolvedSourceSpec, SourceBuildCtx) (*SourceSvcIns, error) {
	return nil, fmt.Errorf("build source: %w", ErrUnimplemented)
}
func (UnimplementedSourceFactory) mustEmbedUnimplementedSourceFactory() {}

// UnimplementedSinkFactory should be embedded to have forward compatible
// sink factories.
type UnimplementedSinkFactory struct{}

// SinkDef needs to be overridden in the actual implementation.
func (UnimplementedSinkFactory) SinkDef() (ConnectorDef, error) {
	return ConnectorDef{}, fmt.Errorf("sink definition: %w", ErrUnimplemented)
}

// ValidateSinkDef is optional, by default every definition is accepted.
func (UnimplementedSinkFactory) ValidateSinkDef(ConnectorDef) error {
	return nil
}

// ValidateSpec is optional, by default every spec is accepted.
func (UnimplementedSinkFactory) ValidateSpec(ResolvedSinkSpec) error {
	return nil
}

// Build needs to be overridden in the actual implementation.
func (UnimplementedSinkFactory) Build(context.Context, ResolvedSinkSpec, SinkBuildCtx) (*SinkHandle, error) {
	return nil, fmt.Errorf("build sink: %w", ErrUnimplemented)
}
func (UnimplementedSinkFactory) mustEmbedUnimplementedSinkFactory() {}
