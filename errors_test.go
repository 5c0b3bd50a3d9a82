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
	"fmt"
	"io"
	"testing"

	"github.com/matryer/is"
)

func TestSourceReason_Codes(t *testing.T) {
	is := is.New(t)

	reasons := []SourceReason{
		SourceReasonNotData,
		SourceReasonEOF,
		SourceReasonSupplier,
		SourceReasonDisconnect,
		SourceReasonSystem,
		SourceReasonOther,
	}
	seen := make(map[int]bool)
	for _, r := range reasons {
		is.True(!seen[r.Code()]) // codes are distinct
		seen[r.Code()] = true
		if r.Code() > SourceReasonOther.Code() {
			t.Fatalf("%v is above the unclassified reason", r)
		}
	}

	is.True(SourceReasonNotData.IsInformational())
	is.True(SourceReasonEOF.IsInformational())
	is.True(!SourceReasonSupplier.IsInformational())
	is.True(SourceReasonNotData.IsRetryable())
	is.True(SourceReasonDisconnect.IsRetryable())
	is.True(!SourceReasonEOF.IsRetryable())
	is.True(!SourceReasonOther.IsRetryable())
}

func TestWrapSourceError(t *testing.T) {
	is := is.New(t)

	is.NoErr(WrapSourceError(nil))

	err := WrapSourceError(io.ErrUnexpectedEOF)
	r, ok := SourceReasonOf(err)
	is.True(ok)
	is.Equal(r, SourceReasonSystem)
	is.True(errors.Is(err, io.ErrUnexpectedEOF))

	disc := NewDisconnectError("broken pipe")
	wrapped := fmt.Errorf("receive: %w", disc)
	is.Equal(WrapSourceError(wrapped), wrapped)
	r, ok = SourceReasonOf(wrapped)
	is.True(ok)
	is.Equal(r, SourceReasonDisconnect)

	_, ok = SourceReasonOf(io.EOF)
	is.True(!ok)
}

func TestSourceError_Message(t *testing.T) {
	is := is.New(t)

	err := NewSupplierError("kafka").WithDetail("partition 3")
	is.Equal(err.Error(), "supplier error: kafka (partition 3)")
	is.Equal(err.Code(), 500)

	unsupported := unsupportedError("ack")
	is.True(errors.Is(unsupported, ErrUnsupported))
	is.Equal(unsupported.Reason, SourceReasonSupplier)
}

func TestOweSink(t *testing.T) {
	is := is.New(t)

	is.NoErr(OweSink(nil, "write"))

	cause := errors.New("connection reset")
	err := OweSink(cause, "write failed")
	is.True(errors.Is(err, cause))

	var se *SinkError
	is.True(errors.As(err, &se))
	is.Equal(se.Reason, SinkReasonSink)
	is.Equal(se.Detail, "connection reset")
	is.Equal(se.Code(), 500)

	sys := WrapSinkError(cause)
	is.True(errors.As(sys, &se))
	is.Equal(se.Reason, SinkReasonSystem)
	is.Equal(WrapSinkError(err), err)
}
