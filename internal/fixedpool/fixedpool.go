// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs a fixed set of tasks until all of them return.
package fixedpool

import (
	"context"

	"github.com/z5labs/httpadapter/internal/try"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work run by [Wait].
type Task func(context.Context) error

// Wait runs every task concurrently and blocks until they have all returned.
// The context passed to the tasks is cancelled as soon as one of them fails
// or panics. The first failure is returned.
func Wait(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() (err error) {
			defer try.Recover(&err)
			return task(gctx)
		})
	}
	return g.Wait()
}
