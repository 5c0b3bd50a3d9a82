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
	"regexp"
	"testing"
	"time"

	"github.com/matryer/is"
	"go.uber.org/multierr"
)

func TestValidateParams(t *testing.T) {
	validations := map[string][]Validation{
		"topic": {
			ValidationRequired{},
			ValidationRegex{Regex: regexp.MustCompile("^[a-z.]+$")},
		},
		"batch": {
			ValidationGreaterThan{Value: 0},
			ValidationLessThan{Value: 1000},
		},
		"mode": {
			ValidationInclusion{List: []string{"poll", "listen"}},
		},
		"codec": {
			ValidationExclusion{List: []string{"legacy"}},
		},
	}

	tests := []struct {
		name     string
		params   ParamMap
		wantErrs []error
	}{{
		name:   "valid",
		params: ParamMap{"topic": "orders.v1", "batch": int64(10), "mode": "poll", "codec": "json"},
	}, {
		name:     "missing required",
		params:   ParamMap{},
		wantErrs: []error{ErrRequiredParameterMissing},
	}, {
		name:     "empty required",
		params:   ParamMap{"topic": ""},
		wantErrs: []error{ErrRequiredParameterMissing, ErrRegexValidationFail},
	}, {
		name:     "bounds",
		params:   ParamMap{"topic": "a", "batch": 1000.0},
		wantErrs: []error{ErrLessThanValidationFail},
	}, {
		name:     "string number",
		params:   ParamMap{"topic": "a", "batch": "0"},
		wantErrs: []error{ErrGreaterThanValidationFail},
	}, {
		name:     "not a number",
		params:   ParamMap{"topic": "a", "batch": "many"},
		wantErrs: []error{ErrInvalidParameterValue, ErrInvalidParameterValue},
	}, {
		name:     "inclusion and exclusion",
		params:   ParamMap{"topic": "a", "mode": "push", "codec": "legacy"},
		wantErrs: []error{ErrExclusionValidationFail, ErrInclusionValidationFail},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := ValidateParams(tt.params, validations)
			if len(tt.wantErrs) == 0 {
				is.NoErr(err)
				return
			}
			errs := multierr.Errors(err)
			is.Equal(len(errs), len(tt.wantErrs))
			for i, want := range tt.wantErrs {
				is.True(errors.Is(errs[i], want))
			}
		})
	}
}

func TestDecodeParams(t *testing.T) {
	is := is.New(t)

	type Config struct {
		Events  []string      `json:"events"`
		Ack     bool          `json:"ack"`
		Timeout time.Duration `json:"timeout"`
		Count   int           `json:"count"`
	}

	var got Config
	err := DecodeParams(ParamMap{
		"events":  []any{"e1", "e2"},
		"ack":     "true",
		"timeout": "5s",
		"count":   int64(3),
	}, &got)
	is.NoErr(err)
	is.Equal(got, Config{Events: []string{"e1", "e2"}, Ack: true, Timeout: 5 * time.Second, Count: 3})
}
