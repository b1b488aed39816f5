package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factionsim/faction-sim/export"
	sim "github.com/factionsim/faction-sim/sim"
	"github.com/factionsim/faction-sim/sim/trace"
)

var (
	// CLI flags for the run command
	factions   int      // Number of factions at start (0 = ask on stdin)
	warriors   int      // Initial warriors per faction
	seed       int64    // Seed for matrix and combat draws
	names      []string // Optional faction identifiers
	configPath string   // Optional run.yaml
	outputDir  string   // Directory receiving faction_<id>.json files ("" = no JSON export)
	sqlitePath string   // Optional SQLite database receiving the run
	traceLevel string   // Decision trace level (none, ticks)
	logLevel   string   // Log verbosity level
	logFile    string   // Optional rotating log file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "faction-sim",
	Short: "Elimination combat simulator for N factions",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run combat until a single faction survives",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		if err := setupLogging(logLevel, logFile); err != nil {
			logrus.Fatalf("%v", err)
		}

		opts := runOptions{
			factions:   factions,
			warriors:   warriors,
			seed:       seed,
			names:      names,
			outputDir:  outputDir,
			sqlitePath: sqlitePath,
			traceLevel: traceLevel,
		}
		if configPath != "" {
			rc, err := LoadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			rc.applyTo(&opts, cmd.Flags().Changed)
		}

		if opts.factions == 0 {
			n, err := promptFactionCount(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			opts.factions = n
		} else if opts.factions < 2 {
			logrus.Fatalf("%v", errInvalidFactionCount)
		}

		logrus.Infof("Starting combat with %d factions of %d warriors, seed=%d", opts.factions, opts.warriors, opts.seed)
		startTime := time.Now()

		res, err := runSimulation(opts)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		res.Metrics.Print(cmd.OutOrStdout(), startTime)
		announceWinner(cmd.OutOrStdout(), res)

		logrus.Info("Simulation complete.")
	},
}

// runSimulation runs one combat to completion and hands the statistics to the
// configured exporters. Options are validated before anything on disk is
// touched; documents of a previous run are cleared before combat starts so a
// failed run never leaves stale documents behind.
func runSimulation(opts runOptions) (*sim.Result, error) {
	cfg := sim.CombatConfig{Factions: opts.factions, Warriors: opts.warriors, Names: opts.names}
	if !trace.IsValidTraceLevel(opts.traceLevel) {
		return nil, fmt.Errorf("unknown trace level %q", opts.traceLevel)
	}

	resolver, err := sim.NewSeededCombatResolver(cfg, sim.NewSimulationKey(opts.seed))
	if err != nil {
		return nil, err
	}
	if opts.outputDir != "" {
		if err := export.ClearOutput(opts.outputDir); err != nil {
			return nil, err
		}
	}
	traceCfg := trace.TraceConfig{Level: trace.TraceLevel(opts.traceLevel)}
	if traceCfg.Enabled() {
		resolver.Trace = trace.NewSimulationTrace(traceCfg)
	}

	res, err := resolver.Run()
	if err != nil {
		return nil, err
	}

	if resolver.Trace != nil {
		summary := trace.Summarize(resolver.Trace)
		logrus.Infof("Trace: %d ticks over %d stages, mean %.1f ticks/stage, max %d",
			summary.TotalTicks, summary.StageCount, summary.MeanTicksPerStage, summary.MaxTicksPerStage)
	}

	manifest := export.NewManifest(cfg, opts.seed, res)
	if opts.outputDir != "" {
		if err := export.WriteFactionFiles(opts.outputDir, res.Store); err != nil {
			return nil, err
		}
		if err := export.WriteManifest(opts.outputDir, manifest); err != nil {
			return nil, err
		}
		if resolver.Trace != nil {
			if err := export.WriteTrace(opts.outputDir, resolver.Trace); err != nil {
				return nil, err
			}
		}
		logrus.Infof("Wrote %d faction documents to %s", len(res.Store.Factions()), opts.outputDir)
	}
	if opts.sqlitePath != "" {
		db, err := export.OpenSQLite(opts.sqlitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if err := db.SaveRun(manifest, res.Store); err != nil {
			return nil, fmt.Errorf("saving run %s: %w", manifest.RunID, err)
		}
		logrus.Infof("Saved run %s to %s", manifest.RunID, opts.sqlitePath)
	}
	return res, nil
}

func announceWinner(w io.Writer, res *sim.Result) {
	fmt.Fprintf(w, "The faction number %s wins\n", res.Survivor.ID)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&factions, "factions", 0, "Number of factions (>= 2); prompts on stdin when omitted")
	runCmd.Flags().IntVar(&warriors, "warriors", sim.DefaultWarriors, "Initial warriors per faction")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for matrix generation and combat draws")
	runCmd.Flags().StringSliceVar(&names, "names", nil, "Comma-separated faction identifiers (default 0..N-1)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a run.yaml file; explicit flags override it")
	runCmd.Flags().StringVar(&outputDir, "output", "output", "Directory for faction_<id>.json documents (cleared on start, empty to skip)")
	runCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database to append the run to")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, ticks)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated by size")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
