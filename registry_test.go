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
	"net/url"
	"testing"

	"github.com/matryer/is"
)

type testSourceFactory struct {
	UnimplementedSourceFactory
	kind  string
	built int
}

func (f *testSourceFactory) Kind() string { return f.kind }

func (f *testSourceFactory) ValidateSpec(spec ResolvedSourceSpec) error {
	return ValidateParams(spec.Params, map[string][]Validation{
		"topic": {ValidationRequired{}},
	})
}

func (f *testSourceFactory) Build(context.Context, ResolvedSourceSpec, SourceBuildCtx) (*SourceSvcIns, error) {
	f.built++
	return NewSourceSvcIns(), nil
}

type testSinkFactory struct {
	UnimplementedSinkFactory
}

func (testSinkFactory) Kind() string { return "test" }

func (testSinkFactory) SinkDef() (ConnectorDef, error) {
	return ConnectorDef{ID: "test_sink", Kind: "test", DefaultParams: ParamMap{}}, nil
}

func (testSinkFactory) ValidateSinkDef(def ConnectorDef) error {
	if def.Scope != ScopeSink {
		return ErrScopeMismatch
	}
	return nil
}

type testAdapter struct{}

func (testAdapter) Kind() string       { return "test" }
func (testAdapter) Defaults() ParamMap { return ParamMap{"topic": "default", "port": int64(1)} }
func (testAdapter) URLToParams(raw string) (ParamMap, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return ParamMap{"topic": u.Host}, nil
}

func TestRegistry_Register(t *testing.T) {
	is := is.New(t)

	r := NewRegistry()
	c := Connector{
		NewSourceFactory: func() SourceFactory { return &testSourceFactory{kind: "test"} },
		NewSinkFactory:   func() SinkFactory { return testSinkFactory{} },
		NewKindAdapter:   func() ConnectorKindAdapter { return testAdapter{} },
	}
	is.NoErr(r.Register(c))
	is.NoErr(r.RegisterSource(&testSourceFactory{kind: "other"}))

	is.Equal(r.SourceKinds(), []string{"other", "test"})
	is.Equal(r.SinkKinds(), []string{"test"})
	is.Equal(r.AdapterKinds(), []string{"test"})

	err := r.Register(c)
	is.True(errors.Is(err, ErrDuplicateKind))

	_, err = r.SourceFactory("kafka")
	is.True(errors.Is(err, ErrUnknownKind))
	_, err = r.SinkFactory("kafka")
	is.True(errors.Is(err, ErrUnknownKind))
	_, err = r.Adapter("kafka")
	is.True(errors.Is(err, ErrUnknownKind))
}

func TestRegistry_BuildSourceValidatesFirst(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	f := &testSourceFactory{kind: "test"}
	r := NewRegistry()
	is.NoErr(r.RegisterSource(f))

	_, err := r.BuildSource(ctx, ResolvedSourceSpec{Name: "in", Kind: "test", Params: ParamMap{}}, NewSourceBuildCtx(t.TempDir()))
	is.True(errors.Is(err, ErrRequiredParameterMissing))
	is.Equal(f.built, 0)

	svc, err := r.BuildSource(ctx, ResolvedSourceSpec{Name: "in", Kind: "test", Params: ParamMap{"topic": "a"}}, NewSourceBuildCtx(t.TempDir()))
	is.NoErr(err)
	is.True(svc != nil)
	is.Equal(f.built, 1)

	_, err = r.BuildSource(ctx, ResolvedSourceSpec{Kind: "missing"}, NewSourceBuildCtx(""))
	is.True(errors.Is(err, ErrUnknownKind))
}

func TestRegistry_BuildSinkUnimplemented(t *testing.T) {
	is := is.New(t)

	r := NewRegistry()
	is.NoErr(r.RegisterSink(testSinkFactory{}))

	_, err := r.BuildSink(context.Background(), ResolvedSinkSpec{Name: "out", Kind: "test"}, NewSinkBuildCtx(""))
	is.True(errors.Is(err, ErrUnimplemented))
}

func TestRegistry_Defs(t *testing.T) {
	is := is.New(t)

	r := NewRegistry()
	is.NoErr(r.RegisterSource(&testSourceFactory{kind: "test"}))
	is.NoErr(r.RegisterSink(testSinkFactory{}))

	// the source factory does not provide a definition, it's skipped
	defs, err := r.SourceDefs()
	is.NoErr(err)
	is.Equal(len(defs), 0)

	defs, err = r.SinkDefs()
	is.NoErr(err)
	is.Equal(len(defs), 1)
	is.Equal(defs[0].ID, "test_sink")
	is.Equal(defs[0].Scope, ScopeSink)
}

func TestRegistry_ParamsFromURL(t *testing.T) {
	is := is.New(t)

	r := NewRegistry()
	is.NoErr(r.RegisterAdapter(testAdapter{}))

	got, err := r.ParamsFromURL("test", "test://orders")
	is.NoErr(err)
	is.Equal(got, ParamMap{"topic": "orders", "port": int64(1)})

	_, err = r.ParamsFromURL("test", "://bad")
	is.True(err != nil)
}
