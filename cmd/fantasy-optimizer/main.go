package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/iwvelando/fantasy-optimizer/internal/config"
	"github.com/iwvelando/fantasy-optimizer/internal/dataset"
	ferrors "github.com/iwvelando/fantasy-optimizer/internal/errors"
	"github.com/iwvelando/fantasy-optimizer/internal/logging"
	"github.com/iwvelando/fantasy-optimizer/internal/roster"
	"github.com/iwvelando/fantasy-optimizer/pkg/constants"
	"github.com/iwvelando/fantasy-optimizer/pkg/output"
	"github.com/iwvelando/fantasy-optimizer/pkg/validation"
	"go.uber.org/zap"
)

type options struct {
	csvPath      string
	configPath   string
	configSet    bool
	outputFormat string
	logLevel     string
	timeLimit    time.Duration
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fset := flag.NewFlagSet("fantasy-optimizer", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&opts.csvPath, "p", "", "path to the player pool CSV")
	fset.StringVar(&opts.csvPath, "csv_path", "", "path to the player pool CSV (alias of -p)")
	fset.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	fset.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	fset.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fset.DurationVar(&opts.timeLimit, "time-limit", 0, "solver time limit override, e.g. 10s")
	if err := fset.Parse(args); err != nil {
		return opts, err
	}
	fset.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			opts.configSet = true
		}
	})
	return opts, nil
}

// loadConfiguration reads the config file. The default file is optional; an
// explicitly named one is not.
func loadConfiguration(opts options) (*config.Configuration, error) {
	path := opts.configPath
	if !opts.configSet {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, err
	}
	if opts.timeLimit > 0 {
		conf.Solver.TimeLimit = opts.timeLimit
	}
	if opts.outputFormat != "" {
		conf.Output.Format = opts.outputFormat
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
	return conf, nil
}

// run executes one optimization and writes the report to stdout.
func run(ctx context.Context, logger *zap.Logger, conf *config.Configuration, csvPath string, stdout io.Writer) error {
	if csvPath == "" {
		csvPath = conf.Input.Path
		if csvPath == "" {
			csvPath = constants.DefaultInputFile
		}
		logger.Info("no player pool given on the command line, using the configured one",
			zap.String("op", "main.run"),
			zap.String("path", csvPath),
		)
	}

	table, err := dataset.Load(csvPath)
	if err != nil {
		return err
	}
	enc, err := table.Encode(conf.Input.Columns)
	if err != nil {
		return err
	}
	logger.Info("player pool encoded",
		zap.String("op", "main.run"),
		zap.String("path", csvPath),
		zap.Int("players", len(enc.Players)),
		zap.Strings("teams", enc.Teams[:]),
	)

	opt, err := roster.NewOptimizer(logger, nil, conf.Roster, conf.Solver)
	if err != nil {
		return err
	}
	model, err := opt.BuildModel(enc)
	if err != nil {
		return err
	}
	if conf.Output.ModelFile != "" {
		if err := output.WriteModelFile(conf.Output.ModelFile, model.Program); err != nil {
			return err
		}
		logger.Debug("model written",
			zap.String("op", "main.run"),
			zap.String("path", conf.Output.ModelFile),
		)
	}

	sol, err := opt.SolveModel(ctx, enc, model)
	if err != nil {
		return err
	}

	if conf.Output.SolutionFile != "" {
		selected, err := table.Filter(conf.Input.Columns.Name, sol.Players)
		if err != nil {
			return err
		}
		if err := output.WriteSolutionFile(conf.Output.SolutionFile, selected.Write); err != nil {
			return err
		}
	}

	return output.Render(stdout, conf.Output.Format, sol.Summary(opt.Rules()))
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(ferrors.ExitOK)
		}
		os.Exit(ferrors.ExitFailure)
	}

	// Load the config file to get logging configuration
	conf, err := loadConfiguration(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", opts.configPath, err)
		os.Exit(ferrors.ExitFailure)
	}

	logger, err := logging.Initialize(conf.Logging, opts.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(ferrors.ExitFailure)
	}

	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		_ = logger.Sync()
		os.Exit(ferrors.ExitFailure)
	}
	if err := conf.Validate(); err != nil {
		logger.Error("invalid configuration", zap.String("op", "main"), zap.Error(err))
		_ = logger.Sync()
		os.Exit(ferrors.ExitFailure)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	err = run(context.Background(), logger, conf, opts.csvPath, os.Stdout)
	code := ferrors.ExitCode(err)
	if err != nil {
		logger.Error("optimization failed",
			zap.String("op", "main"),
			zap.String("status", ferrors.StatusOf(err).String()),
			zap.Int("exitCode", code),
			zap.Error(err),
		)
	}
	_ = logger.Sync()
	os.Exit(code)
}
