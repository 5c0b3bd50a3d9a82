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
	"errors"
	"testing"

	"github.com/matryer/is"
)

var (
	encBytesSink []byte
	encErrSink   error
)

func BenchmarkJSONEncoder(b *testing.B) {
	rec := NewDataRecord(
		NewDigitField(EventIDField, 1),
		NewCharsField("msg", "hello"),
		NewFloatField("ratio", 0.5),
	)

	s := DefaultRecordSerializer()
	for i := 0; i < b.N; i++ {
		encBytesSink, encErrSink = s.Serialize(rec)
	}
}

func testRecord() *DataRecord {
	r := NewDataRecord(
		NewCharsField("msg", "hello"),
		NewDigitField("status", 200),
		Field{Meta: DataTypeIgnore, Name: "raw", Value: "x"},
	)
	r.SetID(1)
	return r
}

func TestObjectConverter(t *testing.T) {
	is := is.New(t)

	got, err := ObjectConverter{}.Convert(testRecord())
	is.NoErr(err)
	is.Equal(got, map[string]any{
		EventIDField: int64(1),
		"msg":        "hello",
		"status":     int64(200),
	})

	c, err := ObjectConverter{}.Configure(map[string]string{"id.excluded": "true"})
	is.NoErr(err)
	got, err = c.Convert(testRecord())
	is.NoErr(err)
	is.Equal(got, map[string]any{"msg": "hello", "status": int64(200)})

	_, err = ObjectConverter{}.Configure(map[string]string{"id.excluded": "maybe"})
	is.True(errors.Is(err, ErrInvalidParameterValue))
}

func TestParseRecordSerializer(t *testing.T) {
	testCases := []struct {
		name    string
		format  string
		options string
		want    string
		wantErr error
	}{{
		name: "default",
		want: `{"msg":"hello","status":200,"wp_event_id":1}`,
	}, {
		name:    "object without id",
		format:  "object/json",
		options: "id.excluded=true",
		want:    `{"msg":"hello","status":200}`,
	}, {
		name:   "fields",
		format: "fields/json",
		want:   `{"items":[{"meta":"digit","name":"wp_event_id","value":1},{"meta":"chars","name":"msg","value":"hello"},{"meta":"digit","name":"status","value":200},{"meta":"ignore","name":"raw","value":"x"}]}`,
	}, {
		name:    "template",
		format:  "template",
		options: `{{ value . "msg" | upper }}:{{ (field . "status").Value }}`,
		want:    "HELLO:200",
	}, {
		name:    "unknown converter",
		format:  "debezium/json",
		wantErr: ErrInvalidParameterValue,
	}, {
		name:    "missing separator",
		format:  "json",
		wantErr: ErrInvalidParameterValue,
	}}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)

			s, err := ParseRecordSerializer(tt.format, tt.options)
			if tt.wantErr != nil {
				is.True(errors.Is(err, tt.wantErr))
				return
			}
			is.NoErr(err)

			got, err := s.Serialize(testRecord())
			is.NoErr(err)
			is.Equal(string(got), tt.want)
		})
	}
}

func TestGenericRecordSerializer_Name(t *testing.T) {
	is := is.New(t)
	is.Equal(DefaultRecordSerializer().Name(), "object/json")
	is.Equal(GenericRecordSerializer{Converter: FieldsConverter{}, Encoder: JSONEncoder{}}.Name(), "fields/json")
}

func TestTemplateRecordSerializer_Unconfigured(t *testing.T) {
	is := is.New(t)

	_, err := TemplateRecordSerializer{}.Serialize(testRecord())
	is.True(errors.Is(err, ErrInvalidParameterValue))

	_, err = TemplateRecordSerializer{}.Configure("{{ .Missing")
	is.True(err != nil)
}
