package app

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/ctxlog"
	"github.com/vk/burstcut/internal/cut"
	"github.com/vk/burstcut/internal/enumerate"
	"golang.org/x/sync/errgroup"
)

// Run enumerates one cut per node of every configured graph, logging a
// summary per graph. When a health check port is configured, the health and
// metrics server runs alongside the enumeration and is shut down once it
// finishes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(a.context(ctx), "run_id", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	sources, err := a.sources()
	if err != nil {
		return err
	}
	logger.Debug("Graph sources resolved.", "count", len(sources))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, egCtx := errgroup.WithContext(ctx)

	if a.config.HealthcheckPort > 0 {
		eg.Go(func() error {
			return a.serveHealthcheck(egCtx, a.config.HealthcheckPort)
		})
	}

	eg.Go(func() error {
		defer cancel()
		for _, src := range sources {
			if err := a.runSource(egCtx, src, len(sources) > 1); err != nil {
				return err
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runSource(ctx context.Context, src source, header bool) error {
	ctx = ctxlog.With(ctx, "graph", src.name())
	logger := ctxlog.FromContext(ctx)

	g, err := a.loadGraph(ctx, src)
	if err != nil {
		return err
	}
	logger.Info("Graph ready.",
		"inputs", g.NumPIs(),
		"outputs", g.NumPOs(),
		"gates", g.NumGates(),
		"depth", g.Depth())

	report, err := a.enumerate(ctx, g)
	if err != nil {
		return err
	}

	if a.config.PrintCuts {
		if header {
			if _, err := fmt.Fprintf(a.outW, "# %s\n", src.name()); err != nil {
				return fmt.Errorf("failed to print cuts: %w", err)
			}
		}
		if err := writeCuts(a.outW, report); err != nil {
			return fmt.Errorf("failed to print cuts: %w", err)
		}
	}

	s := report.Summary
	logger.Info("🏁 Enumeration finished.",
		"jobs", s.Jobs,
		"trivial", s.Trivial,
		"bounded", s.Bounded,
		"size_limited", s.SizeLimited,
		"oversized", s.Oversized,
		"seed_conflicts", s.SeedConflicts,
		"conflicts", s.Conflicts,
		"mean_size", s.MeanSize())
	return nil
}

func (a *App) enumerate(ctx context.Context, g *aig.Graph) (*enumerate.Report, error) {
	logger := ctxlog.FromContext(ctx)
	opts := enumerate.Options{
		Cut: cut.Options{
			SizeLimit:              a.config.SizeLimit,
			MaxOverLimitIterations: a.config.MaxOverLimitIterations,
		},
		Workers:    a.config.Workers,
		QueueDepth: a.config.QueueDepth,
	}

	if a.config.Workers == 0 {
		logger.Info("🚀 Starting sequential enumeration...")
		return enumerate.Sequential(ctx, g, opts, a.metrics)
	}
	logger.Info("🚀 Starting concurrent enumeration...", "workers", a.config.Workers, "queue_depth", a.config.QueueDepth)
	return enumerate.Concurrent(ctx, g, opts, a.metrics)
}

// writeCuts prints one line per node in the form "<node>: { leaves }".
func writeCuts(w io.Writer, report *enumerate.Report) error {
	for _, res := range report.Results {
		if _, err := fmt.Fprintf(w, "%d: {", res.Seed); err != nil {
			return err
		}
		for _, leaf := range res.Leaves {
			if _, err := fmt.Fprintf(w, " %d", leaf); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, " }"); err != nil {
			return err
		}
	}
	return nil
}
