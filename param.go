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
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
)

// ParamMap holds flattened connector parameters. Values are restricted to
// JSON equivalent types: nil, bool, int64, float64, string, []any and
// map[string]any.
type ParamMap map[string]any

// Keys returns the parameter names in ascending order.
func (p ParamMap) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the map.
func (p ParamMap) Clone() ParamMap {
	if p == nil {
		return ParamMap{}
	}
	out := make(ParamMap, len(p))
	for k, v := range p {
		out[k] = cloneParamValue(v)
	}
	return out
}

func cloneParamValue(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = cloneParamValue(v[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, vv := range v {
			out[k] = cloneParamValue(vv)
		}
		return out
	default:
		return v
	}
}

// UnmarshalJSON decodes the map and keeps integral numbers as int64.
func (p *ParamMap) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	out := make(ParamMap, len(raw))
	for k, v := range raw {
		out[k] = normalizeJSONValue(v)
	}
	*p = out
	return nil
}

func normalizeJSONValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return f
	case []any:
		for i := range v {
			v[i] = normalizeJSONValue(v[i])
		}
		return v
	case map[string]any:
		for k, vv := range v {
			v[k] = normalizeJSONValue(vv)
		}
		return v
	default:
		return v
	}
}

// ParamMapFromTOML decodes a TOML document and flattens it into a ParamMap.
func ParamMapFromTOML(doc []byte) (ParamMap, error) {
	var table map[string]any
	if err := toml.Unmarshal(doc, &table); err != nil {
		return nil, fmt.Errorf("failed to decode TOML params: %w", err)
	}
	return ParamMapFromTable(table), nil
}

// ParamMapFromTable flattens a decoded TOML table. Datetimes become their
// TOML string form, non-finite floats become nil.
func ParamMapFromTable(table map[string]any) ParamMap {
	out := make(ParamMap, len(table))
	for k, v := range table {
		out[k] = flattenTOMLValue(v)
	}
	return out
}

func flattenTOMLValue(v any) any {
	switch v := v.(type) {
	case nil, bool, string, int64:
		return v
	case int:
		return int64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case toml.LocalDateTime:
		return v.String()
	case toml.LocalDate:
		return v.String()
	case toml.LocalTime:
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = flattenTOMLValue(v[i])
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = map[string]any(ParamMapFromTable(v[i]))
		}
		return out
	case map[string]any:
		return map[string]any(ParamMapFromTable(v))
	default:
		return fmt.Sprint(v)
	}
}
