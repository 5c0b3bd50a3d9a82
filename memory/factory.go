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

// Package memory implements an in-memory connector. Sources emit a fixed list
// of events or the lines written to connections dialed through a Hub, sinks
// collect everything they receive in a Buffer. It's used to test the runtime
// contract and serves as an example connector.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sdk "github.com/wpparse/wp-connector-sdk"
)

// Connector returns the memory connector using hub for listeners and sink
// buffers. A nil hub means DefaultHub.
func Connector(hub *Hub) sdk.Connector {
	if hub == nil {
		hub = DefaultHub
	}
	return sdk.Connector{
		NewSourceFactory: func() sdk.SourceFactory { return NewSourceFactory(hub) },
		NewSinkFactory:   func() sdk.SinkFactory { return NewSinkFactory(hub) },
		NewKindAdapter:   func() sdk.ConnectorKindAdapter { return KindAdapter{} },
	}
}

// SourceFactory builds memory sources.
type SourceFactory struct {
	sdk.UnimplementedSourceFactory
	hub *Hub
}

func NewSourceFactory(hub *Hub) *SourceFactory {
	return &SourceFactory{hub: hub}
}

func (f *SourceFactory) Kind() string { return Kind }

func (f *SourceFactory) SourceDef() (sdk.ConnectorDef, error) {
	return sdk.ConnectorDef{
		ID:            "memory_src",
		Kind:          Kind,
		Scope:         sdk.ScopeSource,
		AllowOverride: []string{ParamEvents},
		DefaultParams: sourceDefaults(),
	}, nil
}

func (f *SourceFactory) ValidateSourceDef(def sdk.ConnectorDef) error {
	if def.Kind != Kind {
		return fmt.Errorf("connector %q has kind %q: %w", def.ID, def.Kind, sdk.ErrUnknownKind)
	}
	_, err := parseSourceConfig(def.DefaultParams)
	return err
}

func (f *SourceFactory) ValidateSpec(spec sdk.ResolvedSourceSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("source name: %w", sdk.ErrRequiredParameterMissing)
	}
	_, err := parseSourceConfig(spec.Params)
	return err
}

// Build returns one polling source, or a queue source fed by an acceptor
// listening on the hub under the source name if listen is set.
func (f *SourceFactory) Build(ctx context.Context, spec sdk.ResolvedSourceSpec, bctx sdk.SourceBuildCtx) (*sdk.SourceSvcIns, error) {
	cfg, err := parseSourceConfig(spec.Params)
	if err != nil {
		return nil, err
	}
	meta := sdk.SourceMeta{Name: spec.Name, Kind: Kind, Tags: spec.SourceTags()}

	if cfg.Listen {
		ln, err := f.hub.Listen(spec.Name)
		if err != nil {
			return nil, err
		}
		queue := NewQueueSource(spec.Name, meta.Tags)
		sdk.Logger(ctx).Debug().Str("listener", ln.Addr()).Msg("memory acceptor listening")
		return sdk.NewSourceSvcIns().
			WithSources(sdk.NewSourceHandle(queue, meta)).
			WithAcceptor(sdk.AcceptorHandle{Name: spec.Name, Acceptor: NewAcceptor(ln, queue)}), nil
	}

	src := NewSource(spec.Name, cfg, meta.Tags, bctx)
	return sdk.NewSourceSvcIns().WithSources(sdk.NewSourceHandle(src, meta)), nil
}

// SinkFactory builds memory sinks writing to the hub buffer named after the
// sink.
type SinkFactory struct {
	sdk.UnimplementedSinkFactory
	hub *Hub
}

func NewSinkFactory(hub *Hub) *SinkFactory {
	return &SinkFactory{hub: hub}
}

func (f *SinkFactory) Kind() string { return Kind }

func (f *SinkFactory) SinkDef() (sdk.ConnectorDef, error) {
	return sdk.ConnectorDef{
		ID:            "memory_sink",
		Kind:          Kind,
		Scope:         sdk.ScopeSink,
		AllowOverride: []string{ParamFormat, ParamOptions},
		DefaultParams: sdk.ParamMap{
			ParamFormat:  sdk.DefaultRecordSerializer().Name(),
			ParamOptions: "",
		},
	}, nil
}

func (f *SinkFactory) ValidateSinkDef(def sdk.ConnectorDef) error {
	if def.Kind != Kind {
		return fmt.Errorf("connector %q has kind %q: %w", def.ID, def.Kind, sdk.ErrUnknownKind)
	}
	_, err := parseSinkConfig(def.DefaultParams)
	return err
}

func (f *SinkFactory) ValidateSpec(spec sdk.ResolvedSinkSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("sink name: %w", sdk.ErrRequiredParameterMissing)
	}
	_, err := parseSinkConfig(spec.Params)
	return err
}

func (f *SinkFactory) Build(_ context.Context, spec sdk.ResolvedSinkSpec, bctx sdk.SinkBuildCtx) (*sdk.SinkHandle, error) {
	cfg, err := parseSinkConfig(spec.Params)
	if err != nil {
		return nil, err
	}
	serializer, err := sdk.ParseRecordSerializer(cfg.Format, cfg.Options)
	if err != nil {
		return nil, err
	}
	return NewSinkHandle(NewSink(f.hub.Buffer(spec.Name), bctx.Limiter()), serializer), nil
}

// KindAdapter turns memory://name?events=a,b URLs into source params.
type KindAdapter struct{}

func (KindAdapter) Kind() string { return Kind }

func (KindAdapter) Defaults() sdk.ParamMap { return sourceDefaults() }

func (a KindAdapter) URLToParams(raw string) (sdk.ParamMap, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrInvalidParameterValue, err)
	}
	if u.Scheme != Kind {
		return nil, fmt.Errorf("url scheme %q is not %q: %w", u.Scheme, Kind, sdk.ErrInvalidParameterValue)
	}

	params := sdk.ParamMap{}
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		v := values[len(values)-1]
		switch key {
		case ParamEvents:
			events := []any{}
			for _, e := range strings.Split(v, ",") {
				if e != "" {
					events = append(events, e)
				}
			}
			params[key] = events
		case ParamAck, ParamSeek, ParamListen:
			params[key] = v == "true" || v == "1"
		default:
			return nil, fmt.Errorf("unknown parameter %q: %w", key, sdk.ErrInvalidParameterValue)
		}
	}
	return params, nil
}

func sourceDefaults() sdk.ParamMap {
	return sdk.ParamMap{
		ParamEvents: []any{},
		ParamAck:    false,
		ParamSeek:   false,
		ParamListen: false,
	}
}
