package main

import (
	"fmt"
	"os"

	"bikeusage/adapters/csvstore"
	"bikeusage/adapters/export"
	"bikeusage/domain/core"
	"bikeusage/internal"
	"bikeusage/internal/config"
	"bikeusage/internal/errors"
	"bikeusage/ports"

	"github.com/spf13/cobra"
)

// env is built once per invocation in PersistentPreRunE and handed to every command
type env struct {
	cfg    *config.Config
	logger *internal.Logger
	loader ports.DataLoaderPort
	writer ports.TableWriterPort
	runID  core.RunID
}

type rootFlags struct {
	configPath string
	dataDir    string
	city       string
	outDir     string
	format     string
	logLevel   string
	k          int
	mode       string
	runID      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "error code: %s\n", errors.GetCode(err))
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "bikeusage",
		Short:         "Classify bicycle counter stations by usage pattern",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Classify bicycle counting stations as utilitarian, recreational or mixed from
their hourly, weekly and seasonal count profiles, track the classes over time,
and measure how holidays, weather and accidents relate to them.

Configuration is read from bikeusage.yaml (./configs or .), then .env and
BIKEUSAGE_* environment variables, then command-line flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a config file")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Root of the processed data tree")
	pf.StringVar(&flags.city, "city", "", "City folder under cycle_counter/")
	pf.StringVar(&flags.outDir, "out", "", "Output directory")
	pf.StringVar(&flags.format, "format", "", "Output format: csv|xlsx")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: ERROR|WARN|INFO|DEBUG|TRACE")
	pf.IntVar(&flags.k, "k", 0, "Number of clusters (2, 3 or 4)")
	pf.StringVar(&flags.mode, "mode", "", "Time-series mode: cumulative|sliding")
	pf.StringVar(&flags.runID, "run-id", "", "Tag results with this run ID instead of a generated one")

	rootCmd.AddCommand(
		newFeaturesCmd(e),
		newTimelineCmd(e),
		newProbabilitiesCmd(e),
		newEventsCmd(e),
		newAccidentsCmd(e),
		newOutageCmd(e),
		newReportCmd(e),
	)
	return rootCmd
}

func (e *env) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.Data.Dir = flags.dataDir
	}
	if changed("city") {
		cfg.Data.City = flags.city
	}
	if changed("out") {
		cfg.Output.Dir = flags.outDir
	}
	if changed("format") {
		cfg.Output.Format = flags.format
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("k") {
		cfg.Analysis.K = flags.k
	}
	if changed("mode") {
		cfg.Analysis.Mode = flags.mode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if changed("run-id") {
		id, err := core.ParseRunID(flags.runID)
		if err != nil {
			return errors.WithCode(errors.CodeInvalidInput, err)
		}
		e.runID = id
	}

	e.cfg = cfg
	e.logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))

	store, err := csvstore.Open(csvstore.Config{Dir: cfg.Data.Dir, City: cfg.Data.City}, e.logger)
	if err != nil {
		return err
	}
	e.loader = store

	writer, err := export.NewTableWriter(cfg.Output.Dir, cfg.Output.Format, e.logger)
	if err != nil {
		return err
	}
	e.writer = writer
	return nil
}

// write exports tables and prints where they went
func (e *env) write(cmd *cobra.Command, tables ...ports.Table) error {
	paths, err := e.writer.Write(tables...)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
	}
	return nil
}
