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
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// Registry maps connector kinds to their factories and adapters. It's safe
// for concurrent use.
type Registry struct {
	m        sync.RWMutex
	sources  map[string]SourceFactory
	sinks    map[string]SinkFactory
	adapters map[string]ConnectorKindAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		sources:  make(map[string]SourceFactory),
		sinks:    make(map[string]SinkFactory),
		adapters: make(map[string]ConnectorKindAdapter),
	}
}

// Register creates the factories and the adapter of the connector and
// registers all that are not nil.
func (r *Registry) Register(c Connector) error {
	var errs error
	if c.NewSourceFactory != nil {
		errs = multierr.Append(errs, r.RegisterSource(c.NewSourceFactory()))
	}
	if c.NewSinkFactory != nil {
		errs = multierr.Append(errs, r.RegisterSink(c.NewSinkFactory()))
	}
	if c.NewKindAdapter != nil {
		errs = multierr.Append(errs, r.RegisterAdapter(c.NewKindAdapter()))
	}
	return errs
}

func (r *Registry) RegisterSource(f SourceFactory) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.sources[f.Kind()]; ok {
		return fmt.Errorf("source %q: %w", f.Kind(), ErrDuplicateKind)
	}
	r.sources[f.Kind()] = f
	return nil
}

func (r *Registry) RegisterSink(f SinkFactory) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.sinks[f.Kind()]; ok {
		return fmt.Errorf("sink %q: %w", f.Kind(), ErrDuplicateKind)
	}
	r.sinks[f.Kind()] = f
	return nil
}

func (r *Registry) RegisterAdapter(a ConnectorKindAdapter) error {
	r.m.Lock()
	defer r.m.Unlock()
	if _, ok := r.adapters[a.Kind()]; ok {
		return fmt.Errorf("adapter %q: %w", a.Kind(), ErrDuplicateKind)
	}
	r.adapters[a.Kind()] = a
	return nil
}

func (r *Registry) SourceFactory(kind string) (SourceFactory, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	f, ok := r.sources[kind]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", kind, ErrUnknownKind)
	}
	return f, nil
}

func (r *Registry) SinkFactory(kind string) (SinkFactory, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	f, ok := r.sinks[kind]
	if !ok {
		return nil, fmt.Errorf("sink %q: %w", kind, ErrUnknownKind)
	}
	return f, nil
}

func (r *Registry) Adapter(kind string) (ConnectorKindAdapter, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	a, ok := r.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("adapter %q: %w", kind, ErrUnknownKind)
	}
	return a, nil
}

// SourceKinds returns the registered source kinds in ascending order.
func (r *Registry) SourceKinds() []string {
	r.m.RLock()
	defer r.m.RUnlock()
	return sortedKeys(r.sources)
}

// SinkKinds returns the registered sink kinds in ascending order.
func (r *Registry) SinkKinds() []string {
	r.m.RLock()
	defer r.m.RUnlock()
	return sortedKeys(r.sinks)
}

// AdapterKinds returns the registered adapter kinds in ascending order.
func (r *Registry) AdapterKinds() []string {
	r.m.RLock()
	defer r.m.RUnlock()
	return sortedKeys(r.adapters)
}

// ParamsFromURL converts a connection URL with the adapter of kind. Params
// parsed from the URL take precedence over the adapter defaults.
func (r *Registry) ParamsFromURL(kind, url string) (ParamMap, error) {
	a, err := r.Adapter(kind)
	if err != nil {
		return nil, err
	}
	params := a.Defaults().Clone()
	fromURL, err := a.URLToParams(url)
	if err != nil {
		return nil, fmt.Errorf("adapter %q could not parse url: %w", kind, err)
	}
	for k, v := range fromURL {
		params[k] = v
	}
	return params, nil
}

// SourceDefs collects and validates the definitions of all source
// factories. Factories that do not provide a definition are skipped.
func (r *Registry) SourceDefs() ([]ConnectorDef, error) {
	var (
		defs []ConnectorDef
		errs error
	)
	for _, kind := range r.SourceKinds() {
		f, _ := r.SourceFactory(kind)
		def, err := f.SourceDef()
		if err != nil {
			if !errors.Is(err, ErrUnimplemented) {
				errs = multierr.Append(errs, fmt.Errorf("source %q definition: %w", kind, err))
			}
			continue
		}
		def = def.WithScope(ScopeSource)
		if err := f.ValidateSourceDef(def); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("source %q definition: %w", kind, err))
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

// SinkDefs collects and validates the definitions of all sink factories.
// Factories that do not provide a definition are skipped.
func (r *Registry) SinkDefs() ([]ConnectorDef, error) {
	var (
		defs []ConnectorDef
		errs error
	)
	for _, kind := range r.SinkKinds() {
		f, _ := r.SinkFactory(kind)
		def, err := f.SinkDef()
		if err != nil {
			if !errors.Is(err, ErrUnimplemented) {
				errs = multierr.Append(errs, fmt.Errorf("sink %q definition: %w", kind, err))
			}
			continue
		}
		def = def.WithScope(ScopeSink)
		if err := f.ValidateSinkDef(def); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sink %q definition: %w", kind, err))
			continue
		}
		defs = append(defs, def)
	}
	return defs, errs
}

// BuildSource validates the spec with the factory of its kind and builds it.
func (r *Registry) BuildSource(ctx context.Context, spec ResolvedSourceSpec, bctx SourceBuildCtx) (*SourceSvcIns, error) {
	f, err := r.SourceFactory(spec.Kind)
	if err != nil {
		return nil, err
	}
	if err := f.ValidateSpec(spec); err != nil {
		return nil, fmt.Errorf("invalid source spec %q: %w", spec.Name, err)
	}

	start := time.Now()
	svc, err := f.Build(ctx, spec, bctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build source %q: %w", spec.Name, err)
	}
	Logger(ctx).Debug().
		Str("kind", spec.Kind).
		Str("name", spec.Name).
		Int("replica", bctx.ReplicaIdx).
		Dur("took", time.Since(start)).
		Stringer("service", svc).
		Msg("source built")
	return svc, nil
}

// BuildSink validates the spec with the factory of its kind and builds it.
func (r *Registry) BuildSink(ctx context.Context, spec ResolvedSinkSpec, bctx SinkBuildCtx) (*SinkHandle, error) {
	f, err := r.SinkFactory(spec.Kind)
	if err != nil {
		return nil, err
	}
	if err := f.ValidateSpec(spec); err != nil {
		return nil, fmt.Errorf("invalid sink spec %q: %w", spec.Name, err)
	}

	start := time.Now()
	h, err := f.Build(ctx, spec, bctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build sink %q: %w", spec.Name, err)
	}
	Logger(ctx).Debug().
		Str("kind", spec.Kind).
		Str("group", spec.Group).
		Str("name", spec.Name).
		Int("replica", bctx.ReplicaIdx).
		Dur("took", time.Since(start)).
		Msg("sink built")
	return h, nil
}
