package translate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/render"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// ErrNoPage is returned when an identifier passed to ConvertAll has no page
// in the model.
var ErrNoPage = errors.New("no page for identifier")

// Converter translates many pages against one Environment.
type Converter struct {
	Env *Environment
	// Workers bounds parallel translation. Zero uses one worker per CPU.
	Workers int
}

// Convert translates the page identified by id.
func (c *Converter) Convert(id semantic.Identifier) (*render.Node, error) {
	p, ok := c.Env.Model.Page(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPage, id)
	}
	return New(c.Env, id).Translate(p)
}

// ConvertAll translates every page in ids. Results are in the order of ids
// regardless of the worker count. The first error stops the run.
func (c *Converter) ConvertAll(ctx context.Context, ids []semantic.Identifier) ([]*render.Node, error) {
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, len(ids)))
	start := time.Now()

	nodes := make([]*render.Node, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			node, err := c.Convert(id)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("converting pages: %w", err)
	}

	c.Env.Recorder.SetWorkers(workers)
	c.Env.Recorder.ObservePhaseDuration(metrics.PhaseConvert, time.Since(start))
	c.Env.Logger.Info("converted pages",
		logfields.Count(len(ids)),
		logfields.Workers(workers),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nodes, nil
}
