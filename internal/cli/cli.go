package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/burstcut/internal/app"
	"github.com/vk/burstcut/internal/config"
	"github.com/vk/burstcut/internal/cut"
	"github.com/vk/burstcut/internal/taskmanager"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Defaults returns the configuration used when neither a config file nor a
// flag sets a value.
func Defaults() app.Config {
	return app.Config{
		RandomInputs:           32,
		RandomGates:            1000,
		RandomOutputs:          8,
		Seed:                   1,
		Workers:                taskmanager.DefaultWorkers,
		QueueDepth:             taskmanager.DefaultQueueDepth,
		SizeLimit:              cut.DefaultSizeLimit,
		MaxOverLimitIterations: cut.DefaultMaxOverLimitIterations,
		LogFormat:              "json",
		LogLevel:               "info",
	}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values are resolved in order of precedence: built-in defaults, then the
// file named by -config (read with loader), then flags set explicitly on
// the command line.
func Parse(args []string, output io.Writer, loader config.Loader) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("burstcut", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
burstcut - Parallel cut enumeration over an And-Inverter Graph.

Usage:
  burstcut [options] [AIGER_PATH]

Arguments:
  AIGER_PATH
    Path to an ASCII AIGER (.aag) file. When omitted, a random graph is
    generated from the -random-* and -seed options.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := Defaults()
	var f app.Config
	aigerFlag := flagSet.String("aiger", "", "Path to the ASCII AIGER file.")
	aFlag := flagSet.String("a", "", "Path to the ASCII AIGER file (shorthand).")
	flagSet.StringVar(&f.ConfigPath, "config", "", "Path to an HCL configuration file.")
	flagSet.IntVar(&f.RandomInputs, "random-inputs", def.RandomInputs, "Number of inputs of the generated graph.")
	flagSet.IntVar(&f.RandomGates, "random-gates", def.RandomGates, "Number of AND gates of the generated graph.")
	flagSet.IntVar(&f.RandomOutputs, "random-outputs", def.RandomOutputs, "Number of outputs of the generated graph.")
	flagSet.Int64Var(&f.Seed, "seed", def.Seed, "Seed of the graph generator.")
	flagSet.IntVar(&f.Workers, "workers", def.Workers, "Number of concurrent workers. 0 enumerates sequentially.")
	flagSet.IntVar(&f.QueueDepth, "queue-depth", def.QueueDepth, "Capacity of the task queue.")
	flagSet.IntVar(&f.SizeLimit, "size-limit", def.SizeLimit, "Maximum number of leaves of a cut.")
	flagSet.IntVar(&f.MaxOverLimitIterations, "max-over-limit", def.MaxOverLimitIterations, "Consecutive over-limit expansion steps before a cut search stops.")
	flagSet.BoolVar(&f.PrintCuts, "print-cuts", false, "Print the cut of every node.")
	flagSet.IntVar(&f.HealthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	flagSet.StringVar(&f.LogFormat, "log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.StringVar(&f.LogLevel, "log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := def
	if f.ConfigPath != "" {
		model, err := loader.Load(context.Background(), f.ConfigPath)
		if err != nil {
			return nil, false, usageError("failed to load configuration: %v", err)
		}
		applyModel(&cfg, model)
		cfg.ConfigPath = f.ConfigPath
		slog.Debug("Configuration file applied.", "path", f.ConfigPath)
	}

	flagSet.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "random-inputs":
			cfg.RandomInputs = f.RandomInputs
		case "random-gates":
			cfg.RandomGates = f.RandomGates
		case "random-outputs":
			cfg.RandomOutputs = f.RandomOutputs
		case "seed":
			cfg.Seed = f.Seed
		case "workers":
			cfg.Workers = f.Workers
		case "queue-depth":
			cfg.QueueDepth = f.QueueDepth
		case "size-limit":
			cfg.SizeLimit = f.SizeLimit
		case "max-over-limit":
			cfg.MaxOverLimitIterations = f.MaxOverLimitIterations
		case "print-cuts":
			cfg.PrintCuts = f.PrintCuts
		case "healthcheck-port":
			cfg.HealthcheckPort = f.HealthcheckPort
		case "log-format":
			cfg.LogFormat = f.LogFormat
		case "log-level":
			cfg.LogLevel = f.LogLevel
		}
	})

	switch {
	case *aigerFlag != "":
		cfg.AigerPath = *aigerFlag
	case *aFlag != "":
		cfg.AigerPath = *aFlag
	case flagSet.NArg() > 0:
		cfg.AigerPath = flagSet.Arg(0)
	}
	slog.Debug("Graph source determined.", "aiger_path", cfg.AigerPath)

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

// applyModel copies every value the configuration file sets onto cfg.
func applyModel(cfg *app.Config, m *config.Model) {
	setInt(&cfg.Workers, m.Engine.Workers)
	setInt(&cfg.QueueDepth, m.Engine.QueueDepth)
	setInt(&cfg.SizeLimit, m.Engine.SizeLimit)
	setInt(&cfg.MaxOverLimitIterations, m.Engine.MaxOverLimitIterations)

	setInt(&cfg.RandomInputs, m.Generator.Inputs)
	setInt(&cfg.RandomGates, m.Generator.Gates)
	setInt(&cfg.RandomOutputs, m.Generator.Outputs)
	if m.Generator.Seed != nil {
		cfg.Seed = *m.Generator.Seed
	}

	if m.Log.Level != nil {
		cfg.LogLevel = *m.Log.Level
	}
	if m.Log.Format != nil {
		cfg.LogFormat = *m.Log.Format
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
