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
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
)

// Connector combines all constructors of one connector kind into one struct.
type Connector struct {
	// NewSourceFactory should create the factory of the source side. If the
	// connector doesn't implement a source this field can be nil.
	NewSourceFactory func() SourceFactory
	// NewSinkFactory should create the factory of the sink side. If the
	// connector doesn't implement a sink this field can be nil.
	NewSinkFactory func() SinkFactory
	// NewKindAdapter should create the config-time adapter turning connection
	// URLs into params. This field is optional.
	NewKindAdapter func() ConnectorKindAdapter
}

// ConnectorScope is the role a connector definition is used in.
type ConnectorScope int

const (
	ScopeSource ConnectorScope = iota
	ScopeSink
)

func (s ConnectorScope) String() string {
	switch s {
	case ScopeSource:
		return "source"
	case ScopeSink:
		return "sink"
	default:
		return fmt.Sprintf("ConnectorScope(%d)", int(s))
	}
}

// ConnectorDef describes one connector type: its identity, the parameters it
// uses by default and the parameters a resolved spec is allowed to override.
// Scope and Origin are only known at runtime and never encoded.
type ConnectorDef struct {
	ID            string         `json:"id" toml:"id"`
	Kind          string         `json:"type" toml:"type"`
	Scope         ConnectorScope `json:"-" toml:"-"`
	AllowOverride []string       `json:"allow_override" toml:"allow_override"`
	DefaultParams ParamMap       `json:"params" toml:"params"`
	// Origin is the location the definition was loaded from, e.g. a path.
	Origin string `json:"-" toml:"-"`
}

// WithScope returns a copy of the definition with the scope set.
func (d ConnectorDef) WithScope(scope ConnectorScope) ConnectorDef {
	d.Scope = scope
	return d
}

// WithOrigin returns a copy of the definition with the origin set.
func (d ConnectorDef) WithOrigin(origin string) ConnectorDef {
	d.Origin = origin
	return d
}

func (d ConnectorDef) allowsOverride(key string) bool {
	for _, k := range d.AllowOverride {
		if k == key {
			return true
		}
	}
	return false
}

// MergeParams copies the default params and applies the overrides on top.
// Every override of a parameter that is not listed in AllowOverride is
// reported, the returned error combines all of them.
func (d ConnectorDef) MergeParams(overrides ParamMap) (ParamMap, error) {
	merged := d.DefaultParams.Clone()

	var errs error
	for _, k := range overrides.Keys() {
		if !d.allowsOverride(k) {
			errs = multierr.Append(errs, fmt.Errorf("connector %q parameter %q: %w", d.ID, k, ErrOverrideNotAllowed))
			continue
		}
		merged[k] = cloneParamValue(overrides[k])
	}
	if errs != nil {
		return nil, errs
	}
	return merged, nil
}

// ResolveSource merges the overrides into the definition and returns the
// spec used to build one source instance.
func (d ConnectorDef) ResolveSource(name string, overrides ParamMap, tags []string) (ResolvedSourceSpec, error) {
	if d.Scope != ScopeSource {
		return ResolvedSourceSpec{}, fmt.Errorf("connector %q has scope %s: %w", d.ID, d.Scope, ErrScopeMismatch)
	}
	params, err := d.MergeParams(overrides)
	if err != nil {
		return ResolvedSourceSpec{}, err
	}
	if tags == nil {
		tags = []string{}
	}
	return ResolvedSourceSpec{
		Name:        name,
		Kind:        d.Kind,
		ConnectorID: d.ID,
		Params:      params,
		Tags:        tags,
	}, nil
}

// ResolveSink merges the overrides into the definition and returns the spec
// used to build one sink instance of the routing group.
func (d ConnectorDef) ResolveSink(group, name string, overrides ParamMap, filter *string) (ResolvedSinkSpec, error) {
	if d.Scope != ScopeSink {
		return ResolvedSinkSpec{}, fmt.Errorf("connector %q has scope %s: %w", d.ID, d.Scope, ErrScopeMismatch)
	}
	params, err := d.MergeParams(overrides)
	if err != nil {
		return ResolvedSinkSpec{}, err
	}
	return ResolvedSinkSpec{
		Group:       group,
		Name:        name,
		Kind:        d.Kind,
		ConnectorID: d.ID,
		Params:      params,
		Filter:      filter,
	}, nil
}

// ParseConnectorDefs decodes the [[connectors]] entries of a TOML document.
// The returned definitions have the source scope, use WithScope for sinks.
func ParseConnectorDefs(doc []byte) ([]ConnectorDef, error) {
	var file struct {
		Connectors []struct {
			ID            string         `toml:"id"`
			Kind          string         `toml:"type"`
			AllowOverride []string       `toml:"allow_override"`
			Params        map[string]any `toml:"params"`
		} `toml:"connectors"`
	}
	if err := toml.Unmarshal(doc, &file); err != nil {
		return nil, fmt.Errorf("failed to decode connector definitions: %w", err)
	}

	defs := make([]ConnectorDef, len(file.Connectors))
	for i, c := range file.Connectors {
		if c.ID == "" || c.Kind == "" {
			return nil, fmt.Errorf("connector definition %d: id and type are required: %w", i, ErrRequiredParameterMissing)
		}
		allow := c.AllowOverride
		if allow == nil {
			allow = []string{}
		}
		defs[i] = ConnectorDef{
			ID:            c.ID,
			Kind:          c.Kind,
			AllowOverride: allow,
			DefaultParams: ParamMapFromTable(c.Params),
		}
	}
	return defs, nil
}

// SourceDefProvider exposes the definition of a source connector.
type SourceDefProvider interface {
	SourceDef() (ConnectorDef, error)
	ValidateSourceDef(ConnectorDef) error
}

// SinkDefProvider exposes the definition of a sink connector.
type SinkDefProvider interface {
	SinkDef() (ConnectorDef, error)
	ValidateSinkDef(ConnectorDef) error
}

// ConnectorKindAdapter turns a connection URL of a connector kind into
// flattened params at config time.
type ConnectorKindAdapter interface {
	Kind() string
	// Defaults returns the params used when the URL does not set them.
	Defaults() ParamMap
	URLToParams(url string) (ParamMap, error)
}

// sortedKeys returns the keys of a string keyed map in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
