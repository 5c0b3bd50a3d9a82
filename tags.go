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
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// tagsInlineCap is the number of entries Tags can hold before the backing
// slice is grown.
const tagsInlineCap = 16

// Tag is a single key/value label.
type Tag struct {
	Key   string
	Value string
}

// Tags is a set of labels kept sorted by key. Keys are unique and strictly
// increasing. Tags attached to a SourceEvent are shared between events and
// must not be mutated anymore, use Clone to get a mutable copy.
//
// The zero value is an empty, ready to use set.
type Tags struct {
	entries []Tag
}

// NewTags returns an empty tag set with the default inline capacity.
func NewTags() *Tags {
	return &Tags{entries: make([]Tag, 0, tagsInlineCap)}
}

// TagsFromStrings parses entries in the form "key:value". The entry is split
// on the first colon, an entry without a colon becomes a key with an empty
// value. Later entries overwrite earlier ones with the same key.
func TagsFromStrings(ss []string) *Tags {
	t := NewTags()
	for _, s := range ss {
		k, v, _ := strings.Cut(s, ":")
		t.Set(strings.TrimSpace(k), strings.TrimSpace(v))
	}
	return t
}

func (t *Tags) search(key string) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Key >= key
	})
	return i, i < len(t.entries) && t.entries[i].Key == key
}

// Set inserts the key or updates its value if it already exists.
func (t *Tags) Set(key, value string) {
	i, found := t.search(key)
	if found {
		t.entries[i].Value = value
		return
	}
	if t.entries == nil {
		t.entries = make([]Tag, 0, tagsInlineCap)
	}
	t.entries = append(t.entries, Tag{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = Tag{Key: key, Value: value}
}

// Get returns the value stored under key.
func (t *Tags) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, found := t.search(key)
	if !found {
		return "", false
	}
	return t.entries[i].Value, true
}

// Remove deletes the key and returns the removed value. Removing a missing
// key is a no-op.
func (t *Tags) Remove(key string) (string, bool) {
	i, found := t.search(key)
	if !found {
		return "", false
	}
	v := t.entries[i].Value
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return v, true
}

// ContainsKey reports if key is set.
func (t *Tags) ContainsKey(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Len returns the number of entries.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// IsEmpty reports if there are no entries.
func (t *Tags) IsEmpty() bool { return t.Len() == 0 }

// Clear removes all entries and keeps the allocated capacity.
func (t *Tags) Clear() {
	t.entries = t.entries[:0]
}

// Keys returns the keys in ascending order.
func (t *Tags) Keys() []string {
	out := make([]string, t.Len())
	for i := range out {
		out[i] = t.entries[i].Key
	}
	return out
}

// Values returns the values ordered by their keys.
func (t *Tags) Values() []string {
	out := make([]string, t.Len())
	for i := range out {
		out[i] = t.entries[i].Value
	}
	return out
}

// Pairs returns a copy of all entries ordered by key.
func (t *Tags) Pairs() []Tag {
	out := make([]Tag, t.Len())
	if t != nil {
		copy(out, t.entries)
	}
	return out
}

// Range calls fn for every entry in key order until fn returns false. It
// does not allocate.
func (t *Tags) Range(fn func(key, value string) bool) {
	if t == nil {
		return
	}
	for _, e := range t.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Clone returns a deep copy of the tag set.
func (t *Tags) Clone() *Tags {
	n := tagsInlineCap
	if t.Len() > n {
		n = t.Len()
	}
	cp := &Tags{entries: make([]Tag, t.Len(), n)}
	if t != nil {
		copy(cp.entries, t.entries)
	}
	return cp
}

func (t *Tags) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	t.Range(func(k, v string) bool {
		if sb.Len() > 1 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", k, v)
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

// MarshalJSON encodes the tags as an ordered array of [key, value] pairs.
func (t *Tags) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, t.Len())
	for i := range pairs {
		pairs[i] = [2]string{t.entries[i].Key, t.entries[i].Value}
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes an array of [key, value] pairs, the input does not
// need to be sorted.
func (t *Tags) UnmarshalJSON(b []byte) error {
	var pairs [][2]string
	if err := json.Unmarshal(b, &pairs); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	t.entries = make([]Tag, 0, tagsInlineCap)
	for _, p := range pairs {
		t.Set(p[0], p[1])
	}
	return nil
}
