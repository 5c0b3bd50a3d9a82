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
	sdk "github.com/wpparse/wp-connector-sdk"
)

const (
	// Kind is the connector kind of all memory factories.
	Kind = "memory"

	ParamEvents  = "events"
	ParamAck     = "ack"
	ParamSeek    = "seek"
	ParamListen  = "listen"
	ParamFormat  = "format"
	ParamOptions = "options"
)

// SourceConfig contains the params of a memory source.
type SourceConfig struct {
	// Events are the payloads emitted by the source in order.
	Events []string `json:"events"`
	// Ack enables the ack capability, acknowledged event ids are recorded.
	Ack bool `json:"ack"`
	// Seek enables the seek capability.
	Seek bool `json:"seek"`
	// Listen builds an acceptor listening on the hub under the source name
	// instead of a polling source.
	Listen bool `json:"listen"`
}

// SinkConfig contains the params of a memory sink.
type SinkConfig struct {
	// Format selects the record serializer, see sdk.ParseRecordSerializer.
	Format string `json:"format"`
	// Options are passed to the record serializer.
	Options string `json:"options"`
}

var sinkValidations = map[string][]sdk.Validation{
	ParamFormat: {sdk.ValidationInclusion{List: []string{"object/json", "fields/json", "template"}}},
}

func parseSourceConfig(params sdk.ParamMap) (SourceConfig, error) {
	var cfg SourceConfig
	err := sdk.DecodeParams(params, &cfg)
	return cfg, err
}

func parseSinkConfig(params sdk.ParamMap) (SinkConfig, error) {
	if err := sdk.ValidateParams(params, sinkValidations); err != nil {
		return SinkConfig{}, err
	}
	var cfg SinkConfig
	if err := sdk.DecodeParams(params, &cfg); err != nil {
		return SinkConfig{}, err
	}
	if cfg.Format == "" {
		cfg.Format = sdk.DefaultRecordSerializer().Name()
	}
	return cfg, nil
}
