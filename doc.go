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

/*
Package sdk implements the contract between the wp-engine runtime and its
connectors.

# Getting started

Connectors are the edges of a pipeline. Sources pull raw events from third
party systems, sinks write parsed records to them. The runtime only talks to
connectors through the types of this package, so a connector can be
developed and tested without the rest of the engine.

To implement a connector, start by defining a function returning a value of
type [Connector], preferably in connector.go at the root of your project to
make it easy to discover.

	func Connector() sdk.Connector {
	    return sdk.Connector{
	        NewSourceFactory: NewSourceFactory, // builds sources from resolved specs
	        NewSinkFactory:   NewSinkFactory,   // builds sinks from resolved specs
	        NewKindAdapter:   NewKindAdapter,   // optional, turns URLs into params
	    }
	}

A [Connector] is registered in a [Registry] under the kind of its
factories. The registry validates [ConnectorDef] definitions, resolves them
into [ResolvedSourceSpec] and [ResolvedSinkSpec] values and builds instances
through the factories.

General advice for implementing connectors:
  - The SDK provides a structured logger that can be retrieved with
    [Logger]. It allows you to create structured and leveled output that
    will be included as part of the runtime logs.
  - If you want to add logging to the hot path (i.e. code that is executed
    for every event that is read or written) you should use the log level
    "trace".
  - Use [DecodeParams] and [ValidateParams] in ValidateSpec, it must not
    perform any I/O.

# Source

A [DataSource] is responsible for reading data from a third party system and
returning it in form of a [SourceBatch].

Every [DataSource] implementation needs to include an [UnimplementedSource]
to satisfy the interface. This allows us to potentially change the interface
in the future while remaining backwards compatible with existing
implementations.

	type Source struct {
	  sdk.UnimplementedSource
	}

The runtime never calls a source directly, it wraps it in a [SourceHandle]
which guards the lifecycle (start once, close once) and checks capabilities
before forwarding Ack and Seek. Control events ([ControlStop],
[ControlIsolate], [ControlSeek]) are broadcast on a [ControlBus], every
started source gets its own receiver.

Additional tips for implementing a source:
  - Return an empty batch if there is no data right now and a
    [SourceError] with [SourceReasonEOF] once the stream is exhausted.
  - Only advertise capabilities in [SourceCaps] that are really
    implemented.
  - Sources accepting inbound connections return a [ServiceAcceptor] next
    to their sources in [SourceSvcIns].

# Sink

A sink implements the facets [SinkCtrl], [RecordSink] and [RawDataSink].
Sinks that only write bytes can use [NewSerializedRecordSink] together with
a [RecordSerializer] to implement the record facet and [ComposeSink] to
combine the facets. The runtime wraps sinks in a [SinkHandle].

# Acceptance tests

The SDK provides acceptance tests that can be run in a simple Go test.

	func TestAcceptance(t *testing.T) {
	  // set up dependencies here
	  sdk.AcceptanceTest(t, sdk.AcceptanceTestConfig{
	    Connector:      Connector(),
	    SourceSpec:     sdk.ResolvedSourceSpec{ … },
	    SinkSpec:       sdk.ResolvedSinkSpec{ … },
	    ExpectedEvents: 3,
	  })
	}

The package memory contains a reference connector that passes the
acceptance tests.
*/
package sdk
