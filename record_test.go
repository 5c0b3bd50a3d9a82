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
	"math"
	"net/netip"
	"testing"

	"github.com/matryer/is"
)

func TestDataRecord_SetID(t *testing.T) {
	is := is.New(t)

	r := NewDataRecord(NewCharsField("msg", "hello"))
	r.SetID(7)
	r.SetID(8) // already set, ignored

	is.Equal(len(r.Fields), 2)
	is.Equal(r.Fields[0], NewDigitField(EventIDField, 7))
	is.Equal(r.Fields[1].Name, "msg")

	big := NewDataRecord()
	big.SetID(math.MaxUint64)
	is.Equal(len(big.Fields), 0)
}

func TestDataRecord_Bytes(t *testing.T) {
	is := is.New(t)

	r := NewDataRecord(
		NewIPField("ip", netip.MustParseAddr("127.0.0.1")),
		NewDigitField("port", 8080),
	)

	want := `{"items":[{"meta":"ip","name":"ip","value":"127.0.0.1"},{"meta":"digit","name":"port","value":8080}]}`
	is.Equal(string(r.Bytes()), want)

	f, ok := r.Field("port")
	is.True(ok)
	is.Equal(f.Value, int64(8080))
	_, ok = r.Field("missing")
	is.True(!ok)
}

func TestDataRecord_String(t *testing.T) {
	is := is.New(t)

	r := NewDataRecord(
		NewCharsField("a", "x"),
		Field{Meta: DataTypeIgnore, Name: "skip"},
		NewBoolField("b", true),
	)
	is.Equal(r.String(), "NO:1    a(chars): x\nNO:3    b(bool): true\n")
}
