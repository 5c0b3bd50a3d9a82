// Copyright © 2023 Meroxa, Inc.
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

package csync

import (
	"context"
	"time"
)

// Option configures a blocking operation of this package.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout cancels the operation after the timeout if it didn't succeed yet.
// The function returns context.DeadlineExceeded if the timeout is reached.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// withOptions applies opts and derives the context the operation should run
// with. The returned cancel func must always be called.
func withOptions(ctx context.Context, opts []Option) (context.Context, context.CancelFunc) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return ctx, func() {}
}
