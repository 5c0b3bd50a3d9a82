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

	"github.com/goccy/go-json"
)

// ResolvedSourceSpec is the fully merged configuration of one source
// instance. It is created when the pipeline is resolved and consumed once
// by SourceFactory.Build.
type ResolvedSourceSpec struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	ConnectorID string   `json:"connector_id"`
	Params      ParamMap `json:"params"`
	// Tags are propagated to the events of the source, see SourceTags.
	Tags []string `json:"tags"`
}

// SourceTags parses Tags into a tag set.
func (s ResolvedSourceSpec) SourceTags() *Tags {
	return TagsFromStrings(s.Tags)
}

func (s *ResolvedSourceSpec) UnmarshalJSON(b []byte) error {
	type raw ResolvedSourceSpec
	var out raw
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("failed to decode source spec: %w", err)
	}
	if out.Params == nil {
		out.Params = ParamMap{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	*s = ResolvedSourceSpec(out)
	return nil
}

// ResolvedSinkSpec is the fully merged configuration of one sink instance
// in a routing group.
type ResolvedSinkSpec struct {
	Group       string   `json:"group"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	ConnectorID string   `json:"connector_id"`
	Params      ParamMap `json:"params"`
	// Filter is an optional routing expression evaluated by the runtime.
	Filter *string `json:"filter,omitempty"`
}

func (s *ResolvedSinkSpec) UnmarshalJSON(b []byte) error {
	type raw ResolvedSinkSpec
	var out raw
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("failed to decode sink spec: %w", err)
	}
	if out.Params == nil {
		out.Params = ParamMap{}
	}
	*s = ResolvedSinkSpec(out)
	return nil
}
