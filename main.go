package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"project/ip-filter/address"
	"project/ip-filter/config"
	"project/ip-filter/formatter"
	"project/ip-filter/ipfilter"
	"project/ip-filter/logging"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "0.0.1-dev"

const (
	exitOK          = 0
	exitProcessing  = 1
	exitUsageConfig = 2
)

// usageError marks flag and configuration problems.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func init() {
	// -v belongs to --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "configuration error: %v\n", usageErr)
			return exitUsageConfig
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitProcessing
	}
	return exitOK
}

func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ip-filter",
		Usage:     "sort IPv4 addresses and print the filtered reports",
		Version:   Version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or TOML configuration file",
				Sources: cli.EnvVars("IP_FILTER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "input-file",
				Aliases: []string{"i"},
				Usage:   "input file, standard input when absent",
			},
			&cli.StringFlag{
				Name:    "output-file",
				Aliases: []string{"o"},
				Usage:   "output file, standard output when absent",
			},
			&cli.StringFlag{
				Name:    "use-standard",
				Aliases: []string{"s", "mode"},
				Usage:   "address representation: legacy (17) or range (23)",
				Value:   "legacy",
			},
			&cli.BoolFlag{
				Name:  "whole-line",
				Usage: "accept lines without a tab as bare addresses",
			},
			&cli.BoolFlag{
				Name:  "permissive",
				Usage: "accept three-part addresses such as 255.255.255",
			},
			&cli.BoolFlag{
				Name:  "strict-range",
				Usage: "reject octets above 255 instead of truncating them",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: plain or arpa",
				Value: "plain",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log skipped lines and per-filter counts",
				Sources: cli.EnvVars("IP_FILTER_VERBOSE"),
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &usageError{err: err}
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runFilter(cmd, stdin, stdout, stderr)
		},
	}
}

func runFilter(cmd *cli.Command, stdin io.Reader, stdout, stderr io.Writer) error {
	// 1. Load Configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &usageError{err: err}
	}

	logger := logging.New(stderr, cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	// 2. Resolve enumerations
	mode, err := ipfilter.ParseMode(cfg.Mode)
	if err != nil {
		return &usageError{err: err}
	}
	format, err := formatter.ParseFormat(cfg.Format)
	if err != nil {
		return &usageError{err: err}
	}
	if cfg.InputFile != "" {
		logger.Info("input file set", zap.String("path", cfg.InputFile))
	}
	if cfg.OutputFile != "" {
		logger.Info("output file set", zap.String("path", cfg.OutputFile))
	}

	// 3. Parse, sort and report
	_, err = ipfilter.Run(ipfilter.Options{
		Source:      cfg.InputFile,
		Destination: cfg.OutputFile,
		Mode:        mode,
		Policy: address.Policy{
			WholeLine:             cfg.WholeLine,
			PermissiveThreeOctets: cfg.PermissiveThreeOctets,
			StrictRange:           cfg.StrictRange,
		},
		Format: format,
		Logger: logger,
	}, stdin, stdout)
	return err
}

// loadConfig reads the optional configuration file and lets explicitly set
// flags override it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("input-file") {
		cfg.InputFile = cmd.String("input-file")
	}
	if cmd.IsSet("output-file") {
		cfg.OutputFile = cmd.String("output-file")
	}
	if cmd.IsSet("use-standard") {
		cfg.Mode = cmd.String("use-standard")
	}
	if cmd.IsSet("whole-line") {
		cfg.WholeLine = cmd.Bool("whole-line")
	}
	if cmd.IsSet("permissive") {
		cfg.PermissiveThreeOctets = cmd.Bool("permissive")
	}
	if cmd.IsSet("strict-range") {
		cfg.StrictRange = cmd.Bool("strict-range")
	}
	if cmd.IsSet("format") {
		cfg.Format = cmd.String("format")
	}
	if cmd.IsSet("verbose") {
		cfg.Verbose = cmd.Bool("verbose")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
