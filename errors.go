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
)

var (
	// ErrUnimplemented is returned by methods a connector did not implement.
	ErrUnimplemented = errors.New("the connector plugin does not implement this action, please check the source code of the connector and make sure all required connector methods are implemented")
	// ErrUnsupported is wrapped by errors returned from capability-gated
	// operations (ack, seek) on sources that don't advertise the capability.
	ErrUnsupported = errors.New("unsupported operation")

	ErrAlreadyStarted = errors.New("source already started")
	ErrClosed         = errors.New("source closed")
	ErrSinkStopped    = errors.New("sink stopped")
	ErrControlClosed  = errors.New("control channel closed")

	ErrOverrideNotAllowed = errors.New("parameter override not allowed")
	ErrScopeMismatch      = errors.New("connector scope mismatch")
	ErrUnknownKind        = errors.New("unknown connector kind")
	ErrDuplicateKind      = errors.New("connector kind already registered")

	ErrRequiredParameterMissing = errors.New("required parameter is not provided")
	ErrInvalidParameterValue    = errors.New("invalid parameter value")
)

// -- source errors ------------------------------------------------------------

// SourceReason classifies a source failure. The numeric value is the
// classification code: informational reasons are below 200, everything else
// is 500 or above.
type SourceReason int

const (
	// SourceReasonNotData means there is no data right now, the caller should
	// try again.
	SourceReasonNotData SourceReason = 100
	// SourceReasonEOF means the stream ended cleanly.
	SourceReasonEOF SourceReason = 101
	// SourceReasonSupplier is an upstream or internal failure. Unsupported
	// ack and seek calls are reported with this reason.
	SourceReasonSupplier SourceReason = 500
	// SourceReasonDisconnect is a retryable loss of the transport.
	SourceReasonDisconnect SourceReason = 503
	// SourceReasonSystem wraps a generic error that was not classified by
	// the connector.
	SourceReasonSystem SourceReason = 510
	// SourceReasonOther is an unclassified failure.
	SourceReasonOther SourceReason = 599
)

// Code returns the numeric classification of the reason.
func (r SourceReason) Code() int { return int(r) }

// IsInformational reports if the reason is informational rather than a
// failure (no data, end of stream).
func (r SourceReason) IsInformational() bool { return r < 200 }

// IsRetryable reports if the condition is expected to go away on retry.
func (r SourceReason) IsRetryable() bool {
	return r == SourceReasonNotData || r == SourceReasonDisconnect
}

func (r SourceReason) String() string {
	switch r {
	case SourceReasonNotData:
		return "not data"
	case SourceReasonEOF:
		return "eof"
	case SourceReasonSupplier:
		return "supplier error"
	case SourceReasonDisconnect:
		return "disconnected"
	case SourceReasonSystem:
		return "system error"
	case SourceReasonOther:
		return "other"
	default:
		return fmt.Sprintf("SourceReason(%d)", int(r))
	}
}

// SourceError is the error type returned by fallible source operations.
type SourceError struct {
	Reason SourceReason
	// Msg is the reason specific message, e.g. "ack unsupported".
	Msg string
	// Detail carries optional context added by the connector.
	Detail string
	// Err is the wrapped cause, if any.
	Err error
}

func (e *SourceError) Error() string {
	s := e.Reason.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *SourceError) Unwrap() error { return e.Err }

// Code returns the classification code of the error reason.
func (e *SourceError) Code() int { return e.Reason.Code() }

// WithDetail returns a copy of the error with the detail set.
func (e *SourceError) WithDetail(detail string) *SourceError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// NewNotDataError signals that there is no data right now.
func NewNotDataError() *SourceError {
	return &SourceError{Reason: SourceReasonNotData}
}

// NewEOFError signals a clean end of the stream.
func NewEOFError() *SourceError {
	return &SourceError{Reason: SourceReasonEOF}
}

func NewSupplierError(msg string) *SourceError {
	return &SourceError{Reason: SourceReasonSupplier, Msg: msg}
}

func NewDisconnectError(msg string) *SourceError {
	return &SourceError{Reason: SourceReasonDisconnect, Msg: msg}
}

func NewOtherError(msg string) *SourceError {
	return &SourceError{Reason: SourceReasonOther, Msg: msg}
}

// WrapSourceError returns err unchanged if it already is (or wraps) a
// SourceError, otherwise it wraps it with SourceReasonSystem. A nil error
// stays nil.
func WrapSourceError(err error) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	return &SourceError{Reason: SourceReasonSystem, Err: err}
}

// SourceReasonOf extracts the reason of a SourceError in the error chain.
func SourceReasonOf(err error) (SourceReason, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return 0, false
}

// unsupportedError is the error returned by ack and seek when the
// capability is missing.
func unsupportedError(op string) *SourceError {
	return &SourceError{
		Reason: SourceReasonSupplier,
		Msg:    op + " unsupported",
		Err:    ErrUnsupported,
	}
}

// -- sink errors --------------------------------------------------------------

// SinkReason classifies a sink failure.
type SinkReason int

const (
	SinkReasonSink    SinkReason = 500
	SinkReasonMock    SinkReason = 501
	SinkReasonStgCtrl SinkReason = 502
	SinkReasonSystem  SinkReason = 510
)

func (r SinkReason) Code() int { return int(r) }

func (r SinkReason) String() string {
	switch r {
	case SinkReasonSink:
		return "sink unavailable"
	case SinkReasonMock:
		return "set mock error"
	case SinkReasonStgCtrl:
		return "stg ctrl error"
	case SinkReasonSystem:
		return "system error"
	default:
		return fmt.Sprintf("SinkReason(%d)", int(r))
	}
}

// SinkError is the error type returned by fallible sink operations.
type SinkError struct {
	Reason SinkReason
	Msg    string
	Detail string
	Err    error
}

func (e *SinkError) Error() string {
	s := e.Reason.String()
	if e.Msg != "" {
		s += " " + e.Msg
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *SinkError) Unwrap() error { return e.Err }

func (e *SinkError) Code() int { return e.Reason.Code() }

// NewSinkError creates a generic sink failure.
func NewSinkError(msg string) *SinkError {
	return &SinkError{Reason: SinkReasonSink, Msg: msg}
}

// OweSink turns any error into a sink failure carrying msg, the original
// error message is kept as detail and the error stays in the chain. A nil
// error stays nil.
func OweSink(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &SinkError{Reason: SinkReasonSink, Msg: msg, Detail: err.Error(), Err: err}
}

// WrapSinkError returns err unchanged if it already is a SinkError,
// otherwise it wraps it with SinkReasonSystem.
func WrapSinkError(err error) error {
	if err == nil {
		return nil
	}
	var se *SinkError
	if errors.As(err, &se) {
		return err
	}
	return &SinkError{Reason: SinkReasonSystem, Err: err}
}
