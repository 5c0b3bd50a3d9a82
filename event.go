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
	"net/netip"
)

// RawDataKind tells how the payload bytes of a RawData are held.
type RawDataKind int

const (
	RawDataBytes       RawDataKind = iota + 1 // owned bytes
	RawDataString                             // owned string
	RawDataSharedBytes                        // shared bytes
)

func (k RawDataKind) String() string {
	switch k {
	case RawDataBytes:
		return "Bytes"
	case RawDataString:
		return "String"
	case RawDataSharedBytes:
		return "SharedBytes"
	default:
		return fmt.Sprintf("RawDataKind(%d)", int(k))
	}
}

// RawData is the unparsed payload of a SourceEvent. Shared bytes reference a
// buffer owned by someone else (e.g. a read buffer of the connector) and must
// not be mutated.
type RawData struct {
	kind RawDataKind
	b    []byte
	s    string
}

// NewRawBytes creates a payload that owns b.
func NewRawBytes(b []byte) RawData {
	return RawData{kind: RawDataBytes, b: b}
}

func NewRawString(s string) RawData {
	return RawData{kind: RawDataString, s: s}
}

// NewSharedBytes creates a zero-copy payload referencing b.
func NewSharedBytes(b []byte) RawData {
	return RawData{kind: RawDataSharedBytes, b: b}
}

func (d RawData) Kind() RawDataKind { return d.kind }

// Bytes returns the payload as bytes. For string payloads this copies.
func (d RawData) Bytes() []byte {
	if d.kind == RawDataString {
		return []byte(d.s)
	}
	return d.b
}

// Text returns the payload as a string. For byte payloads this copies.
func (d RawData) Text() string {
	if d.kind == RawDataString {
		return d.s
	}
	return string(d.b)
}

func (d RawData) Len() int {
	if d.kind == RawDataString {
		return len(d.s)
	}
	return len(d.b)
}

func (d RawData) IsEmpty() bool { return d.Len() == 0 }

// String returns a summary of the payload without its content,
// e.g. "String(len=3)".
func (d RawData) String() string {
	kind := d.kind
	if kind == 0 {
		kind = RawDataBytes
	}
	return fmt.Sprintf("%s(len=%d)", kind, d.Len())
}

// EventPreHook is called by the runtime on an event right before the event
// is handed to parsing.
type EventPreHook func(*SourceEvent)

// SourceEvent is a single unit of data produced by a source.
type SourceEvent struct {
	// EventID is assigned by the source, it increases monotonically per
	// source and is not unique across sources.
	EventID uint64
	// SrcKey identifies the origin of the event, e.g. the source name.
	SrcKey  string
	Payload RawData
	// Tags are shared between events of a source, they must not be mutated
	// once attached.
	Tags *Tags
	// UpstreamIP is the address of the peer the event was received from, the
	// zero value means it's unknown.
	UpstreamIP netip.Addr
	PreHook    EventPreHook
}

// NewSourceEvent creates an event without upstream address or hook.
func NewSourceEvent(id uint64, srcKey string, payload RawData, tags *Tags) SourceEvent {
	return SourceEvent{
		EventID: id,
		SrcKey:  srcKey,
		Payload: payload,
		Tags:    tags,
	}
}

// RunPreHook calls the pre-processing hook if the event has one.
func (e *SourceEvent) RunPreHook() {
	if e.PreHook != nil {
		e.PreHook(e)
	}
}

func (e SourceEvent) String() string {
	ip := "none"
	if e.UpstreamIP.IsValid() {
		ip = e.UpstreamIP.String()
	}
	return fmt.Sprintf("SourceEvent{id: %d, src_key: %s, payload: %s, tags: %d tags, upstream_ip: %s}",
		e.EventID, e.SrcKey, e.Payload, e.Tags.Len(), ip)
}

// SourceBatch is an ordered group of events. An empty batch means there is
// no data right now, it does not mean the stream ended.
type SourceBatch []SourceEvent
