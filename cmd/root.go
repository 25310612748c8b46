package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gradboost/gradboost/boost"
)

var (
	// CLI flags shared by the train and cv subcommands
	specPath string // Path to the YAML run spec
	logLevel string // Log verbosity level
	seed     int64  // Overrides the run spec seed when >= 0
	rounds   int    // Overrides the run spec round count when > 0
)

// distConfig is the distributed identity of this process, injected by the
// launcher through the environment the way collective trackers do.
type distConfig struct {
	Rank      int `env:"GRADBOOST_RANK" envDefault:"0"`
	WorldSize int `env:"GRADBOOST_WORLD_SIZE" envDefault:"1"`
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gradboost",
	Short: "Boosting-round training and cross-validation orchestrator",
}

// setup parses flags/env shared by both subcommands and returns the run
// spec with overrides applied.
func setup() (*RunSpec, string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	var dist distConfig
	if err := env.Parse(&dist); err != nil {
		logrus.Fatalf("Failed to parse distributed environment: %v", err)
	}
	if dist.WorldSize > 1 {
		logrus.Fatalf("GRADBOOST_WORLD_SIZE=%d: the standalone CLI runs single-worker only; "+
			"multi-worker runs need an external coordinator", dist.WorldSize)
	}

	spec, err := LoadRunSpec(specPath)
	if err != nil {
		logrus.Fatalf("Failed to load run spec: %v", err)
	}
	if seed >= 0 {
		spec.Seed = seed
	}
	if rounds > 0 {
		spec.Rounds = rounds
	}

	runID := uuid.NewString()
	logrus.Infof("run %s: rank=%d world=%d seed=%d rounds=%d",
		runID, dist.Rank, dist.WorldSize, spec.Seed, spec.Rounds)
	return spec, runID
}

// trainCmd runs one training loop against the replay booster
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run the boosting-round training loop",
	Run: func(cmd *cobra.Command, args []string) {
		spec, runID := setup()

		dataset := spec.Dataset()
		watch := make([]boost.WatchEntry, 0, len(spec.Watch))
		for _, label := range spec.Watch {
			watch = append(watch, boost.WatchEntry{Data: dataset, Label: label})
		}

		history := boost.History{}
		result, err := boost.Train(boost.TrainOptions{
			Params:              spec.BoosterParams(),
			Data:                dataset,
			NumRounds:           spec.Rounds,
			Evals:               watch,
			EarlyStoppingRounds: spec.EarlyStoppingRounds,
			EvalsResult:         history,
			Verbosity:           spec.Verbosity(),
			LearningRates:       spec.LearningRates,
			NewBooster:          boost.ReplayFactory(spec.Curves, spec.Seed),
		})
		if err != nil {
			logrus.Fatalf("Training failed: %v", err)
		}

		logrus.Infof("run %s finished: bestIteration=%d bestScore=%v bestTreeLimit=%d earlyStopped=%v",
			runID, result.BestIteration, result.BestScore, result.BestTreeLimit, result.EarlyStopped)
		for label, byMetric := range history {
			for metric, values := range byMetric {
				logrus.Debugf("history %s/%s: %d rounds recorded", label, metric, len(values))
			}
		}
	},
}

// cvCmd runs k-fold cross-validation against the replay booster
var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Run k-fold cross-validation",
	Run: func(cmd *cobra.Command, args []string) {
		spec, runID := setup()

		results, err := boost.CV(boost.CVOptions{
			Params:              spec.BoosterParams(),
			Data:                spec.Dataset(),
			NumRounds:           spec.Rounds,
			NFold:               spec.CV.NFold,
			Metrics:             spec.CV.Metrics,
			EarlyStoppingRounds: spec.EarlyStoppingRounds,
			Verbosity:           spec.Verbosity(),
			SuppressStdv:        spec.CV.SuppressStdv,
			Seed:                spec.Seed,
			NewBooster:          boost.ReplayFactory(spec.Curves, spec.Seed),
		})
		if err != nil {
			logrus.Fatalf("Cross-validation failed: %v", err)
		}

		logrus.Infof("run %s finished: %d trials", runID, len(results))
		printTrialTable(results)
	},
}

// printTrialTable writes the trial history as a table: one row per round,
// one mean and one std column per metric.
func printTrialTable(results []boost.TrialRecord) {
	if len(results) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "round")
	for _, col := range results[0].Columns() {
		fmt.Fprintf(w, "\t%s", col)
	}
	fmt.Fprintln(w)
	for i, record := range results {
		fmt.Fprint(w, strconv.Itoa(i))
		for _, m := range record {
			fmt.Fprintf(w, "\t%.6f\t%.6f", m.Mean, m.Std)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		logrus.Errorf("Failed to flush trial table: %v", err)
	}
}

func init() {
	for _, c := range []*cobra.Command{trainCmd, cvCmd} {
		c.Flags().StringVar(&specPath, "spec", "run.yaml", "Path to the YAML run spec")
		c.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
		c.Flags().Int64Var(&seed, "seed", -1, "Override the run spec seed")
		c.Flags().IntVar(&rounds, "rounds", 0, "Override the run spec round count")
	}
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(cvCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
