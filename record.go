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
	"math"
	"net/netip"
	"strings"

	"github.com/goccy/go-json"
)

// EventIDField is the name of the field SetID prepends to a record.
const EventIDField = "wp_event_id"

// DataType is the meta type of a record field. The connector contract
// carries records opaquely, the type is informational for sinks that
// serialize them.
type DataType string

const (
	DataTypeChars  DataType = "chars"
	DataTypeDigit  DataType = "digit"
	DataTypeFloat  DataType = "float"
	DataTypeBool   DataType = "bool"
	DataTypeTime   DataType = "time"
	DataTypeIP     DataType = "ip"
	DataTypeJSON   DataType = "json"
	DataTypeIgnore DataType = "ignore"
)

// Field is a single named and typed value of a DataRecord.
type Field struct {
	Meta  DataType `json:"meta"`
	Name  string   `json:"name"`
	Value any      `json:"value"`
}

func NewCharsField(name, value string) Field {
	return Field{Meta: DataTypeChars, Name: name, Value: value}
}

func NewDigitField(name string, value int64) Field {
	return Field{Meta: DataTypeDigit, Name: name, Value: value}
}

func NewFloatField(name string, value float64) Field {
	return Field{Meta: DataTypeFloat, Name: name, Value: value}
}

func NewBoolField(name string, value bool) Field {
	return Field{Meta: DataTypeBool, Name: name, Value: value}
}

func NewIPField(name string, value netip.Addr) Field {
	return Field{Meta: DataTypeIP, Name: name, Value: value}
}

func (f Field) String() string {
	return fmt.Sprintf("%s(%s): %v", f.Name, f.Meta, f.Value)
}

// DataRecord is the structured payload handed to record sinks. The runtime
// produces it from parsed events, sinks only read it.
type DataRecord struct {
	Fields []Field `json:"items"`
}

// NewDataRecord creates a record containing the fields in the given order.
func NewDataRecord(fields ...Field) *DataRecord {
	r := &DataRecord{Fields: make([]Field, 0, len(fields))}
	r.Fields = append(r.Fields, fields...)
	return r
}

// Field returns the first field with the given name.
func (r *DataRecord) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Append adds the field at the end of the record.
func (r *DataRecord) Append(f Field) {
	r.Fields = append(r.Fields, f)
}

// SetID prepends the event id field. It does nothing if the record already
// carries an id or if id does not fit into an int64.
func (r *DataRecord) SetID(id uint64) {
	if _, ok := r.Field(EventIDField); ok {
		return
	}
	if id > math.MaxInt64 {
		return
	}
	r.Fields = append([]Field{NewDigitField(EventIDField, int64(id))}, r.Fields...)
}

// Bytes returns the JSON representation of the record.
func (r *DataRecord) Bytes() []byte {
	b, err := json.Marshal(r)
	if err != nil {
		// field values are restricted to JSON encodable types
		panic(fmt.Errorf("error while marshaling DataRecord as JSON: %w", err))
	}
	return b
}

func (r *DataRecord) String() string {
	var sb strings.Builder
	for i, f := range r.Fields {
		if f.Meta == DataTypeIgnore {
			continue
		}
		fmt.Fprintf(&sb, "NO:%-5d%s\n", i+1, f)
	}
	return sb.String()
}
