package config

// Model is the unified representation of a configuration file.
type Model struct {
	Engine    Engine
	Generator Generator
	Log       Log
}

// Engine holds the settings of the task manager and the cut search.
type Engine struct {
	Workers                *int
	QueueDepth             *int
	SizeLimit              *int
	MaxOverLimitIterations *int
}

// Generator holds the shape of the random graph used when no AIGER file is
// given.
type Generator struct {
	Inputs  *int
	Gates   *int
	Outputs *int
	Seed    *int64
}

// Log holds the logger settings.
type Log struct {
	Level  *string
	Format *string
}
