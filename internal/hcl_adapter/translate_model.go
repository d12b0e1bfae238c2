package hcl_adapter

import "github.com/vk/burstcut/internal/config"

type engineBlock struct {
	Workers                *int `hcl:"workers,optional"`
	QueueDepth             *int `hcl:"queue_depth,optional"`
	SizeLimit              *int `hcl:"size_limit,optional"`
	MaxOverLimitIterations *int `hcl:"max_over_limit_iterations,optional"`
}

type generatorBlock struct {
	Inputs  *int   `hcl:"inputs,optional"`
	Gates   *int   `hcl:"gates,optional"`
	Outputs *int   `hcl:"outputs,optional"`
	Seed    *int64 `hcl:"seed,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// translateModel converts the decoded HCL blocks into the format-agnostic
// model. Absent blocks leave every field of their section nil.
func translateModel(root *fileRoot) *config.Model {
	m := &config.Model{}
	if e := root.Engine; e != nil {
		m.Engine = config.Engine{
			Workers:                e.Workers,
			QueueDepth:             e.QueueDepth,
			SizeLimit:              e.SizeLimit,
			MaxOverLimitIterations: e.MaxOverLimitIterations,
		}
	}
	if g := root.Generator; g != nil {
		m.Generator = config.Generator{
			Inputs:  g.Inputs,
			Gates:   g.Gates,
			Outputs: g.Outputs,
			Seed:    g.Seed,
		}
	}
	if l := root.Log; l != nil {
		m.Log = config.Log{Level: l.Level, Format: l.Format}
	}
	return m
}
