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
	"errors"
	"testing"

	"github.com/matryer/is"
	sdk "github.com/wpparse/wp-connector-sdk"
)

func TestAcceptance(t *testing.T) {
	sdk.AcceptanceTest(t, sdk.AcceptanceTestConfig{
		Connector: Connector(NewHub()),
		SourceSpec: sdk.ResolvedSourceSpec{
			Name:        "acceptance",
			Kind:        Kind,
			ConnectorID: "memory_src",
			Params:      sdk.ParamMap{ParamEvents: []any{"e1", "e2", "e3"}},
			Tags:        []string{},
		},
		SinkSpec: sdk.ResolvedSinkSpec{
			Group:       "default",
			Name:        "acceptance",
			Kind:        Kind,
			ConnectorID: "memory_sink",
			Params:      sdk.ParamMap{ParamFormat: "fields/json"},
		},
		ExpectedEvents: 3,
	})
}

func TestSourceFactory_Def(t *testing.T) {
	is := is.New(t)
	f := NewSourceFactory(NewHub())

	def, err := f.SourceDef()
	is.NoErr(err)
	is.NoErr(f.ValidateSourceDef(def))

	spec, err := def.ResolveSource("s1", sdk.ParamMap{ParamEvents: []any{"x"}}, []string{"a:b"})
	is.NoErr(err)
	is.Equal(spec.Kind, Kind)
	is.NoErr(f.ValidateSpec(spec))

	_, err = def.ResolveSource("s1", sdk.ParamMap{ParamAck: true}, nil)
	is.True(errors.Is(err, sdk.ErrOverrideNotAllowed))

	def.Kind = "kafka"
	is.True(errors.Is(f.ValidateSourceDef(def), sdk.ErrUnknownKind))
}

func TestSourceFactory_ValidateSpec(t *testing.T) {
	is := is.New(t)
	f := NewSourceFactory(NewHub())

	err := f.ValidateSpec(sdk.ResolvedSourceSpec{Kind: Kind})
	is.True(errors.Is(err, sdk.ErrRequiredParameterMissing))

	err = f.ValidateSpec(sdk.ResolvedSourceSpec{Name: "s", Kind: Kind, Params: sdk.ParamMap{ParamAck: "maybe"}})
	is.True(errors.Is(err, sdk.ErrInvalidParameterValue))
}

func TestSourceFactory_BuildListenTwice(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	f := NewSourceFactory(NewHub())
	spec := sdk.ResolvedSourceSpec{Name: "l", Kind: Kind, Params: sdk.ParamMap{ParamListen: true}}

	svc, err := f.Build(ctx, spec, sdk.NewSourceBuildCtx(t.TempDir()))
	is.NoErr(err)
	_, err = f.Build(ctx, spec, sdk.NewSourceBuildCtx(t.TempDir()))
	is.True(errors.Is(err, ErrAddrInUse))
	is.NoErr(svc.Close(ctx))
}

func TestSinkFactory(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	hub := NewHub()
	f := NewSinkFactory(hub)

	def, err := f.SinkDef()
	is.NoErr(err)
	is.NoErr(f.ValidateSinkDef(def))

	spec, err := def.ResolveSink("g", "out", sdk.ParamMap{ParamFormat: "template", ParamOptions: `{{ value . "msg" }}`}, nil)
	is.NoErr(err)
	is.NoErr(f.ValidateSpec(spec))

	h, err := f.Build(ctx, spec, sdk.NewSinkBuildCtx(t.TempDir()))
	is.NoErr(err)
	is.NoErr(h.SinkRecords(ctx, []*sdk.DataRecord{
		sdk.NewDataRecord(sdk.NewCharsField("msg", "one")),
		sdk.NewDataRecord(sdk.NewCharsField("msg", "two")),
	}))
	is.NoErr(h.Stop(ctx))
	is.Equal(hub.Buffer("out").Items(), []string{"one", "two"})

	err = f.ValidateSpec(sdk.ResolvedSinkSpec{Name: "out", Kind: Kind, Params: sdk.ParamMap{ParamFormat: "xml"}})
	is.True(errors.Is(err, sdk.ErrInclusionValidationFail))
}

func TestKindAdapter(t *testing.T) {
	is := is.New(t)

	params, err := KindAdapter{}.URLToParams("memory://src?events=a,b&ack=true")
	is.NoErr(err)
	is.Equal(params, sdk.ParamMap{ParamEvents: []any{"a", "b"}, ParamAck: true})

	_, err = KindAdapter{}.URLToParams("kafka://src")
	is.True(errors.Is(err, sdk.ErrInvalidParameterValue))
	_, err = KindAdapter{}.URLToParams("memory://src?topic=x")
	is.True(errors.Is(err, sdk.ErrInvalidParameterValue))
}

func TestRegistry(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	r := sdk.NewRegistry()
	is.NoErr(r.Register(Connector(NewHub())))

	params, err := r.ParamsFromURL(Kind, "memory://src?events=e1")
	is.NoErr(err)
	is.Equal(params[ParamEvents], []any{"e1"})
	is.Equal(params[ParamListen], false)

	defs, err := r.SourceDefs()
	is.NoErr(err)
	is.Equal(len(defs), 1)

	spec, err := defs[0].ResolveSource("src", sdk.ParamMap{ParamEvents: params[ParamEvents]}, nil)
	is.NoErr(err)
	svc, err := r.BuildSource(ctx, spec, sdk.NewSourceBuildCtx(t.TempDir()))
	is.NoErr(err)
	defer svc.Close(ctx)

	batch, err := svc.Sources[0].Receive(ctx)
	is.NoErr(err)
	is.Equal(payloads(batch), []string{"e1"})
}
