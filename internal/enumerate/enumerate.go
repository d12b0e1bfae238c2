// Package enumerate drives cut computation over every node of a graph, one
// job per node, either inline or on a bounded task manager.
package enumerate

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/ctxlog"
	"github.com/vk/burstcut/internal/cut"
	"github.com/vk/burstcut/internal/metrics"
	"github.com/vk/burstcut/internal/ownership"
	"github.com/vk/burstcut/internal/taskmanager"
)

// Options configure a run.
type Options struct {
	Cut        cut.Options
	Workers    int
	QueueDepth int
}

// Result is the outcome of one job.
type Result struct {
	Seed   aig.Node
	Owner  ownership.ID
	Leaves []aig.Node
	Stats  cut.Stats
}

// Empty reports whether the seed was held by another traversal.
func (r Result) Empty() bool { return len(r.Leaves) == 0 }

// Outcome classifies the result with one of the metrics.Outcome* labels.
func (r Result) Outcome() string {
	switch {
	case r.Empty():
		return metrics.OutcomeSeedConflict
	case r.Stats.Oversized:
		return metrics.OutcomeOversized
	case r.Stats.Trivial:
		return metrics.OutcomeTrivial
	case r.Stats.Bounded:
		return metrics.OutcomeBounded
	default:
		return metrics.OutcomeSizeLimited
	}
}

// Summary aggregates the results of a run.
type Summary struct {
	Jobs          int
	Trivial       int
	Bounded       int
	SizeLimited   int
	Oversized     int
	SeedConflicts int
	Conflicts     int
	Leaves        int
}

// MeanSize returns the average number of leaves of non-empty cuts.
func (s Summary) MeanSize() float64 {
	n := s.Jobs - s.SeedConflicts
	if n == 0 {
		return 0
	}
	return float64(s.Leaves) / float64(n)
}

func (s *Summary) add(r Result) {
	s.Jobs++
	s.Conflicts += r.Stats.Conflicts
	s.Leaves += len(r.Leaves)
	switch r.Outcome() {
	case metrics.OutcomeSeedConflict:
		s.SeedConflicts++
	case metrics.OutcomeOversized:
		s.Oversized++
	case metrics.OutcomeTrivial:
		s.Trivial++
	case metrics.OutcomeBounded:
		s.Bounded++
	default:
		s.SizeLimited++
	}
}

// Report holds one Result per non-constant node, in node order.
type Report struct {
	Results []Result
	Summary Summary
}

type runner struct {
	g       *aig.Graph
	opts    Options
	metrics *metrics.Metrics
	ids     atomic.Uint32
	results []Result
}

func newRunner(g *aig.Graph, opts Options, m *metrics.Metrics) *runner {
	if m == nil {
		m = metrics.New(nil)
	}
	return &runner{
		g:       g,
		opts:    opts,
		metrics: m,
		results: make([]Result, g.Size()-1),
	}
}

// nextID hands out traversal ids, skipping ownership.None on wrap-around.
func (r *runner) nextID() ownership.ID {
	for {
		if id := ownership.ID(r.ids.Add(1)); id != ownership.None {
			return id
		}
	}
}

func (r *runner) job(ctx context.Context, n aig.Node) {
	id := r.nextID()
	c := cut.Compute(r.g, n, id, r.opts.Cut)
	res := Result{Seed: n, Owner: id, Leaves: c.Nodes(), Stats: c.Stats()}
	c.Release(r.g)

	r.results[n-1] = res
	r.metrics.CutsTotal.WithLabelValues(res.Outcome()).Inc()
	r.metrics.ClaimConflicts.Add(float64(res.Stats.Conflicts))
	if !res.Empty() {
		r.metrics.CutSize.Observe(float64(len(res.Leaves)))
	}
	ctxlog.FromContext(ctx).Debug("Cut computed.", "seed", n, "traversal", id, "cut", c.String(), "outcome", res.Outcome())
}

func (r *runner) report(done int) *Report {
	rep := &Report{Results: r.results[:done]}
	for _, res := range rep.Results {
		rep.Summary.add(res)
	}
	return rep
}

// Sequential computes the cuts one node after the other on the calling
// goroutine. On cancellation it returns the results gathered so far along
// with the context error.
func Sequential(ctx context.Context, g *aig.Graph, opts Options, m *metrics.Metrics) (*Report, error) {
	r := newRunner(g, opts, m)
	for n := aig.Node(1); int(n) < g.Size(); n++ {
		if err := ctx.Err(); err != nil {
			return r.report(int(n) - 1), fmt.Errorf("enumeration interrupted at node %d: %w", n, err)
		}
		r.job(ctx, n)
	}
	return r.report(len(r.results)), nil
}

// Concurrent submits one job per node to a task manager, helps drain the
// queue and waits for all of them before the pool is closed. Cancellation stops the submission loop; jobs already submitted
// still run and are included in the report.
func Concurrent(ctx context.Context, g *aig.Graph, opts Options, m *metrics.Metrics) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	r := newRunner(g, opts, m)
	mgr := taskmanager.New(ctx, taskmanager.Options{Workers: opts.Workers, QueueDepth: opts.QueueDepth}, r.metrics)

	submitted := 0
	var runErr error
	for n := aig.Node(1); int(n) < g.Size(); n++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("enumeration interrupted at node %d: %w", n, err)
			break
		}
		n := n
		if err := mgr.Submit(func() { r.job(ctx, n) }); err != nil {
			runErr = fmt.Errorf("submitting node %d: %w", n, err)
			break
		}
		submitted++
	}
	logger.Debug("All jobs submitted.", "jobs", submitted)

	for mgr.MakeProgress() {
	}
	mgr.Wait()
	rep := r.report(submitted)
	logger.Debug("All jobs finished.", "jobs", submitted, "queued", mgr.Queued())

	if err := mgr.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return rep, runErr
}
