// Command ptemcal runs the EMCal-triggered pt spectrum analysis over LCIO
// files and writes the histograms to a ROOT file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mfasDa/raadev"
	"github.com/mfasDa/raadev/analysis"
	"github.com/mfasDa/raadev/event"
	"github.com/mfasDa/raadev/rootout"
	"github.com/mfasDa/raadev/task"
)

var (
	configFile string
	outFile    string
	outDir     string
	profileDir string
	maxEvents  int64
	progress   int64
	debug      bool
	ptEdges    raadev.FloatArrayFlags

	rootCmd = &cobra.Command{
		Use:           "ptemcal",
		Short:         "Charged-particle pt spectra in EMCal-triggered events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run [flags] file.slcio...",
		Short: "Run the analysis over LCIO files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalysis,
	}

	lsCmd = &cobra.Command{
		Use:   "ls file.root",
		Short: "List the histograms of an output file",
		Args:  cobra.ExactArgs(1),
		RunE:  listFile,
	}
)

func init() {
	flags := runCmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML task configuration (defaults if empty)")
	flags.StringVarP(&outFile, "output", "o", "AnalysisResults.root", "output ROOT file")
	flags.StringVar(&outDir, "dir", "results", "top-level directory in the output file")
	flags.StringVar(&profileDir, "profile", "", "write a CPU profile to this directory")
	flags.Int64Var(&maxEvents, "max-events", 0, "stop after this many events (0 for all)")
	flags.Int64Var(&progress, "progress", analysis.DefaultProgressInterval, "events between progress messages")
	flags.Var(&ptEdges, "pt-edges", "pt bin edges, overriding the configuration")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, lsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "ptemcal: %+v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return errors.Wrap(err, "could not create logger")
	}
	defer logger.Sync()

	if profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.Quiet).Stop()
	}

	cfg := task.DefaultConfig()
	if configFile != "" {
		cfg, err = task.LoadConfig(configFile)
		if err != nil {
			return err
		}
	}
	if ptEdges.IsSet() {
		cfg.Binning.Pt = ptEdges.Array
	}

	tsk, err := task.New(cfg, logger)
	if err != nil {
		return err
	}
	mgr := analysis.NewManager(logger)
	mgr.MaxEvents = maxEvents
	mgr.ProgressInterval = progress
	if err := mgr.AddTask(tsk); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	src := event.NewChain(func(fname string) (event.Source, error) {
		logger.Info("reading file", zap.String("file", fname))
		r, err := event.OpenLCIO(fname)
		if err != nil {
			return nil, err
		}
		return r, nil
	}, args...)
	defer src.Close()
	if err := mgr.Run(ctx, src); err != nil {
		return err
	}

	if err := rootout.WriteFile(outFile, outDir, mgr.Results()[tsk.Name()]); err != nil {
		return err
	}
	logger.Info("wrote output", zap.String("file", outFile), zap.Int64("events", mgr.Processed()))
	return nil
}

func listFile(cmd *cobra.Command, args []string) error {
	keys, err := rootout.List(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tKEY")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k.Class, k.Path)
	}
	return w.Flush()
}
