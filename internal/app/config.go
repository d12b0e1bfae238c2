package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	AigerPath  string // .aag file; a random graph is generated when empty
	ConfigPath string // hcl file, already merged into the fields below by the cli

	RandomInputs  int
	RandomGates   int
	RandomOutputs int
	Seed          int64

	Workers                int // 0 runs the enumeration on the calling goroutine
	QueueDepth             int
	SizeLimit              int
	MaxOverLimitIterations int
	PrintCuts              bool

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.AigerPath == "" && cfg.RandomInputs <= 0 {
		return nil, errors.New("either an AIGER path or a positive number of random inputs is required")
	}
	if cfg.RandomGates < 0 || cfg.RandomOutputs < 0 {
		return nil, errors.New("random gates and outputs cannot be negative")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers cannot be negative, got %d", cfg.Workers)
	}
	if cfg.QueueDepth < 1 {
		return nil, fmt.Errorf("queue depth must be at least 1, got %d", cfg.QueueDepth)
	}
	if cfg.SizeLimit < 1 {
		return nil, fmt.Errorf("size limit must be at least 1, got %d", cfg.SizeLimit)
	}
	if cfg.MaxOverLimitIterations < 1 {
		return nil, fmt.Errorf("max over-limit iterations must be at least 1, got %d", cfg.MaxOverLimitIterations)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
