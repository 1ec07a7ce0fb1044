package precompute

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/swiftlang/swift-docc-sub005/internal/logfields"
	"github.com/swiftlang/swift-docc-sub005/internal/metrics"
	"github.com/swiftlang/swift-docc-sub005/internal/reference"
	"github.com/swiftlang/swift-docc-sub005/internal/semantic"
)

// Options tune Build.
type Options struct {
	// Workers bounds parallel rendering. Zero uses one worker per CPU and
	// one renders sequentially.
	Workers  int
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Build renders a reference for every id and returns the resulting cache.
//
// Topic group memberships are collected first, serially. References are then
// rendered in parallel; each result lands in its own slot, so the cache is
// identical for any worker count.
func Build(ctx context.Context, r *reference.Renderer, ids []semantic.Identifier, opts Options) (*Cache, error) {
	rec := metrics.OrNoop(opts.Recorder)
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, len(ids)))
	start := time.Now()

	memberships := Memberships(r.Model, r.Resolver)

	entries := make([]Entry, len(ids))
	render := func(i int) {
		id := ids[i]
		ref, deps := r.Render(id, nil)
		entries[i] = Entry{
			Identifier:    id,
			Reference:     ref,
			Dependencies:  deps,
			CanonicalPath: canonicalPath(r, id),
			TaskGroups:    memberships[id],
		}
	}

	if workers == 1 {
		for i := range ids {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("precomputing references: %w", err)
			}
			render(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range ids {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				render(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("precomputing references: %w", err)
		}
	}

	rec.SetWorkers(workers)
	rec.ObservePhaseDuration(metrics.PhasePrecompute, time.Since(start))
	logger.Info("precomputed references",
		logfields.Count(len(ids)),
		logfields.Workers(workers),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	return NewCache(entries), nil
}

func canonicalPath(r *reference.Renderer, id semantic.Identifier) []semantic.Identifier {
	if r.Graph == nil {
		return nil
	}
	for _, p := range r.Graph.PathsToRoot(id) {
		if len(p) > 0 {
			return p
		}
	}
	return nil
}

// Memberships returns, for every curated page, the topic groups that list it.
// Groups are visited in model order and then authored order.
func Memberships(model *semantic.Model, resolver semantic.Resolver) map[semantic.Identifier][]Membership {
	out := make(map[semantic.Identifier][]Membership)
	if model == nil || resolver == nil {
		return out
	}
	for _, parent := range model.Identifiers() {
		p, _ := model.Page(parent)
		var groups []semantic.TaskGroup
		switch n := p.(type) {
		case *semantic.Symbol:
			groups = n.Topics
		case *semantic.Article:
			groups = append(append(groups, n.Topics...), n.DirectiveGroups...)
		}
		for _, g := range groups {
			for _, link := range g.Links {
				child, err := resolver.Resolve(link, parent)
				if err != nil {
					continue
				}
				out[child] = append(out[child], Membership{Parent: parent, Title: g.Title})
			}
		}
	}
	return out
}
