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
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/goccy/go-json"
)

// RecordSerializer is a type that can format a record to bytes. It's used by
// sinks that only implement the raw facet, see NewSerializedRecordSink.
type RecordSerializer interface {
	Name() string
	Configure(string) (RecordSerializer, error)
	Serialize(*DataRecord) ([]byte, error)
}

var (
	defaultConverter  = ObjectConverter{}
	defaultEncoder    = JSONEncoder{}
	defaultSerializer = GenericRecordSerializer{
		Converter: defaultConverter,
		Encoder:   defaultEncoder,
	}
)

const (
	genericRecordFormatSeparator     = "/" // e.g. object/json
	recordFormatOptionsSeparator     = "," // e.g. opt1=val1,opt2=val2
	recordFormatOptionsPairSeparator = "=" // e.g. opt1=val1
)

// DefaultRecordSerializer returns the serializer used when a sink does not
// configure one, it outputs records as JSON objects.
func DefaultRecordSerializer() RecordSerializer {
	return defaultSerializer
}

// ParseRecordSerializer returns the serializer for format, configured with
// options. Supported formats are "object/json", "fields/json" and "template"
// (options hold the template text).
func ParseRecordSerializer(format, options string) (RecordSerializer, error) {
	if format == "" {
		format = defaultSerializer.Name()
	}
	var s RecordSerializer
	switch format {
	case TemplateRecordSerializer{}.Name():
		s = TemplateRecordSerializer{}
	default:
		conv, enc, ok := strings.Cut(format, genericRecordFormatSeparator)
		if !ok {
			return nil, fmt.Errorf("invalid record format %q: %w", format, ErrInvalidParameterValue)
		}
		g := GenericRecordSerializer{}
		for _, c := range []Converter{ObjectConverter{}, FieldsConverter{}} {
			if c.Name() == conv {
				g.Converter = c
			}
		}
		for _, e := range []Encoder{JSONEncoder{}} {
			if e.Name() == enc {
				g.Encoder = e
			}
		}
		if g.Converter == nil || g.Encoder == nil {
			return nil, fmt.Errorf("unsupported record format %q: %w", format, ErrInvalidParameterValue)
		}
		s = g
	}
	return s.Configure(options)
}

// GenericRecordSerializer is a serializer that uses a Converter and Encoder to
// serialize a record.
type GenericRecordSerializer struct {
	Converter
	Encoder
}

// Converter is a type that can change the structure of a DataRecord before
// it gets encoded.
type Converter interface {
	Name() string
	Configure(map[string]string) (Converter, error)
	Convert(*DataRecord) (any, error)
}

// Encoder is a type that can encode a random struct into a byte slice.
type Encoder interface {
	Name() string
	Configure(options map[string]string) (Encoder, error)
	Encode(r any) ([]byte, error)
}

// Name returns the name of the record serializer combined from the converter
// name and encoder name.
func (rf GenericRecordSerializer) Name() string {
	return rf.Converter.Name() + genericRecordFormatSeparator + rf.Encoder.Name()
}

func (rf GenericRecordSerializer) Configure(optRaw string) (RecordSerializer, error) {
	opt := rf.parseFormatOptions(optRaw)

	var err error
	rf.Converter, err = rf.Converter.Configure(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to configure converter: %w", err)
	}
	rf.Encoder, err = rf.Encoder.Configure(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to configure encoder: %w", err)
	}
	return rf, nil
}

func (rf GenericRecordSerializer) parseFormatOptions(options string) map[string]string {
	options = strings.TrimSpace(options)
	if len(options) == 0 {
		return nil
	}

	pairs := strings.Split(options, recordFormatOptionsSeparator)
	optMap := make(map[string]string, len(pairs))
	for _, pairStr := range pairs {
		k, v, _ := strings.Cut(pairStr, recordFormatOptionsPairSeparator)
		optMap[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return optMap
}

// Serialize converts and encodes record into a byte array.
func (rf GenericRecordSerializer) Serialize(r *DataRecord) ([]byte, error) {
	converted, err := rf.Converter.Convert(r)
	if err != nil {
		return nil, fmt.Errorf("converter %s failed: %w", rf.Converter.Name(), err)
	}

	out, err := rf.Encoder.Encode(converted)
	if err != nil {
		return nil, fmt.Errorf("encoder %s failed: %w", rf.Encoder.Name(), err)
	}

	return out, nil
}

// ObjectConverter outputs the record as an object of field name to value.
// Fields of type ignore are skipped, for duplicated names the first field
// wins.
type ObjectConverter struct {
	// IDExcluded drops the event id field.
	IDExcluded bool
}

func (c ObjectConverter) Name() string { return "object" }
func (c ObjectConverter) Configure(opt map[string]string) (Converter, error) {
	excluded, ok := opt["id.excluded"]
	if !ok {
		return c, nil
	}
	switch excluded {
	case "true":
		c.IDExcluded = true
	case "false", "":
		c.IDExcluded = false
	default:
		return nil, fmt.Errorf("failed to parse id.excluded %q: %w", excluded, ErrInvalidParameterValue)
	}
	return c, nil
}
func (c ObjectConverter) Convert(r *DataRecord) (any, error) {
	out := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		if f.Meta == DataTypeIgnore || (c.IDExcluded && f.Name == EventIDField) {
			continue
		}
		if _, ok := out[f.Name]; ok {
			continue
		}
		out[f.Name] = f.Value
	}
	return out, nil
}

// FieldsConverter outputs the record unchanged, as a list of typed fields.
type FieldsConverter struct{}

func (c FieldsConverter) Name() string                                   { return "fields" }
func (c FieldsConverter) Configure(map[string]string) (Converter, error) { return c, nil }
func (c FieldsConverter) Convert(r *DataRecord) (any, error)             { return r, nil }

// JSONEncoder is an Encoder that outputs JSON.
type JSONEncoder struct{}

func (e JSONEncoder) Name() string                                 { return "json" }
func (e JSONEncoder) Configure(map[string]string) (Encoder, error) { return e, nil }
func (e JSONEncoder) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// TemplateRecordSerializer is a RecordSerializer that serializes a record using
// a Go template. The template is executed with the record, the functions
// "field" and "value" look up fields by name.
type TemplateRecordSerializer struct {
	template *template.Template
}

func (e TemplateRecordSerializer) Name() string { return "template" }
func (e TemplateRecordSerializer) Configure(tmpl string) (RecordSerializer, error) {
	t := template.New("")
	t = t.Funcs(sprig.TxtFuncMap()) // inject sprig functions
	t = t.Funcs(template.FuncMap{
		"field": func(r *DataRecord, name string) Field {
			f, _ := r.Field(name)
			return f
		},
		"value": func(r *DataRecord, name string) any {
			f, _ := r.Field(name)
			return f.Value
		},
	})
	t, err := t.Parse(tmpl)
	if err != nil {
		return nil, err
	}

	e.template = t
	return e, nil
}

func (e TemplateRecordSerializer) Serialize(r *DataRecord) ([]byte, error) {
	if e.template == nil {
		return nil, fmt.Errorf("template serializer is not configured: %w", ErrInvalidParameterValue)
	}
	var b bytes.Buffer
	err := e.template.Execute(&b, r)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
