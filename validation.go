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
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/multierr"
)

var (
	ErrLessThanValidationFail    = errors.New("less than validation failed")
	ErrGreaterThanValidationFail = errors.New("greater than validation failed")
	ErrInclusionValidationFail   = errors.New("inclusion validation failed")
	ErrExclusionValidationFail   = errors.New("exclusion validation failed")
	ErrRegexValidationFail       = errors.New("regex validation failed")
)

// Validation is a rule applied to a single parameter by ValidateParams.
type Validation interface {
	// validate checks the value of the parameter, present is false if the
	// parameter is missing from the map.
	validate(value any, present bool) error
}

type ValidationRequired struct{}

func (v ValidationRequired) validate(value any, present bool) error {
	if !present || value == nil || value == "" {
		return ErrRequiredParameterMissing
	}
	return nil
}

type ValidationLessThan struct {
	Value float64
}

func (v ValidationLessThan) validate(value any, present bool) error {
	if !present {
		return nil
	}
	f, err := paramAsFloat(value)
	if err != nil {
		return err
	}
	if !(f < v.Value) {
		return fmt.Errorf("%v should be less than %v: %w", value, v.Value, ErrLessThanValidationFail)
	}
	return nil
}

type ValidationGreaterThan struct {
	Value float64
}

func (v ValidationGreaterThan) validate(value any, present bool) error {
	if !present {
		return nil
	}
	f, err := paramAsFloat(value)
	if err != nil {
		return err
	}
	if !(f > v.Value) {
		return fmt.Errorf("%v should be greater than %v: %w", value, v.Value, ErrGreaterThanValidationFail)
	}
	return nil
}

type ValidationInclusion struct {
	List []string
}

func (v ValidationInclusion) validate(value any, present bool) error {
	if !present {
		return nil
	}
	s := fmt.Sprint(value)
	for _, item := range v.List {
		if item == s {
			return nil
		}
	}
	return fmt.Errorf("%q value must be included in the list %v: %w", s, v.List, ErrInclusionValidationFail)
}

type ValidationExclusion struct {
	List []string
}

func (v ValidationExclusion) validate(value any, present bool) error {
	if !present {
		return nil
	}
	s := fmt.Sprint(value)
	for _, item := range v.List {
		if item == s {
			return fmt.Errorf("%q value must be excluded from the list %v: %w", s, v.List, ErrExclusionValidationFail)
		}
	}
	return nil
}

type ValidationRegex struct {
	Regex *regexp.Regexp
}

func (v ValidationRegex) validate(value any, present bool) error {
	if !present {
		return nil
	}
	s := fmt.Sprint(value)
	if !v.Regex.MatchString(s) {
		return fmt.Errorf("%q should match the regex %q: %w", s, v.Regex.String(), ErrRegexValidationFail)
	}
	return nil
}

func paramAsFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number: %w", v, ErrInvalidParameterValue)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%v (%T) is not a number: %w", value, value, ErrInvalidParameterValue)
	}
}

// ValidateParams applies the validations to the parameters and returns all
// failures combined into one error.
func ValidateParams(params ParamMap, validations map[string][]Validation) error {
	names := make([]string, 0, len(validations))
	for name := range validations {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		value, present := params[name]
		for _, v := range validations[name] {
			if err := v.validate(value, present); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("error validating %q: %w", name, err))
			}
		}
	}
	return errs
}
