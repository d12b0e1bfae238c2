package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/burstcut/internal/aig"
	"github.com/vk/burstcut/internal/aiger"
	"github.com/vk/burstcut/internal/ctxlog"
	"github.com/vk/burstcut/internal/fsutil"
	"github.com/vk/burstcut/internal/gen"
)

const aigerExtension = ".aag"

// source is one graph to enumerate: an AIGER file, or the generator when
// path is empty.
type source struct {
	path string
}

func (s source) name() string {
	if s.path == "" {
		return "random"
	}
	return s.path
}

// sources lists the graphs of this run. A directory expands to every .aag
// file below it.
func (a *App) sources() ([]source, error) {
	if a.config.AigerPath == "" {
		return []source{{}}, nil
	}
	files, err := fsutil.Expand(a.config.AigerPath, aigerExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to open AIGER file: %w", err)
	}
	out := make([]source, len(files))
	for i, f := range files {
		out[i] = source{path: f}
	}
	return out, nil
}

// loadGraph reads the source's AIGER file, or generates a random graph
// when it has none.
func (a *App) loadGraph(ctx context.Context, src source) (*aig.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	if src.path == "" {
		logger.Debug("Generating random graph.",
			"inputs", a.config.RandomInputs,
			"gates", a.config.RandomGates,
			"outputs", a.config.RandomOutputs,
			"seed", a.config.Seed)
		return gen.Random(a.config.RandomInputs, a.config.RandomGates, a.config.RandomOutputs, a.config.Seed), nil
	}

	logger.Debug("Reading AIGER file.", "path", src.path)
	f, err := os.Open(src.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open AIGER file: %w", err)
	}
	defer f.Close()

	file, err := aiger.ReadAscii(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read AIGER file %s: %w", src.path, err)
	}
	return file.Graph, nil
}
