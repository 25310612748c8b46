package boost

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CVOptions configures one cross-validation run. Params, Data, NumRounds,
// and NewBooster are required; NFold defaults to 3 when no explicit Folds
// are supplied.
type CVOptions struct {
	Params    Params
	Data      Dataset
	NumRounds int
	NFold     int

	// Stratified delegates fold generation to StratifiedSplit, which must
	// then be set.
	Stratified      bool
	StratifiedSplit StratifiedSplitFunc

	// Folds supplies explicit partitions; only the test indices are
	// consulted and len(Folds) overrides NFold.
	Folds []FoldIndices

	// Metrics to evaluate. Empty means: take them from the params'
	// eval_metric entries.
	Metrics []string

	Objective  ObjectiveFunc
	CustomEval EvalFunc
	Maximize   bool

	// EarlyStoppingRounds activates early stopping over trial records when
	// > 0. Requires exactly one metric.
	EarlyStoppingRounds int

	// Preprocess optionally rewrites each fold's datasets/params.
	Preprocess PreprocessFunc

	Verbosity Verbosity
	// SuppressStdv drops the "+<std>" part from printed progress lines.
	// Records always carry the std.
	SuppressStdv bool

	// Seed drives the fold permutation.
	Seed int64

	// Progress receives printed trial lines. Defaults to os.Stderr.
	Progress io.Writer

	NewBooster BoosterFactory
}

// CV runs k-fold cross-validation: every round it updates each fold's
// private booster (concurrently — folds share no mutable state), merges
// the per-fold evaluation messages into one TrialRecord, and optionally
// early-stops on the first metric's mean. The returned history holds one
// record per completed trial, truncated to the best trial on early stop.
func CV(opts CVOptions) ([]TrialRecord, error) {
	if opts.NewBooster == nil {
		return nil, fmt.Errorf("%w: NewBooster is required", ErrConfig)
	}
	if opts.Data == nil {
		return nil, fmt.Errorf("%w: dataset is required", ErrConfig)
	}
	if opts.NumRounds <= 0 {
		return nil, fmt.Errorf("%w: NumRounds must be positive, got %d", ErrConfig, opts.NumRounds)
	}
	if opts.Stratified && opts.StratifiedSplit == nil {
		return nil, ErrStratifiedUnavailable
	}
	nfold := opts.NFold
	if opts.Folds != nil {
		nfold = len(opts.Folds)
	} else if nfold <= 0 {
		nfold = 3
	}

	progress := opts.Progress
	if progress == nil {
		progress = os.Stderr
	}

	params := opts.Params.Clone()
	metrics := opts.Metrics
	if len(metrics) == 0 {
		metrics = params.Metrics()
	}
	params = params.Without(EvalMetricKey)

	var monitor *Monitor
	if opts.EarlyStoppingRounds > 0 {
		if len(metrics) > 1 {
			return nil, ErrEarlyStopMultiMetric
		}
		if opts.Verbosity.Enabled() {
			fmt.Fprintf(progress, "Will train until cv error hasn't decreased in %d rounds.\n",
				opts.EarlyStoppingRounds)
		}
		direction := Minimize
		if len(metrics) == 1 {
			direction = InferDirection(metrics[0])
		}
		if opts.CustomEval != nil {
			direction = directionFromFlag(opts.Maximize)
		}
		monitor = NewMonitor(direction, opts.EarlyStoppingRounds)
	}

	folds, err := makeFolds(opts.Data, foldSpec{
		nfold:      nfold,
		params:     params,
		seed:       opts.Seed,
		metrics:    metrics,
		preprocess: opts.Preprocess,
		stratified: opts.Stratified,
		folds:      opts.Folds,
		split:      opts.StratifiedSplit,
		factory:    opts.NewBooster,
	})
	if err != nil {
		return nil, err
	}
	logrus.Debugf("built %d folds over %d rows (stratified=%v, explicit=%v)",
		len(folds), opts.Data.NumRows(), opts.Stratified, opts.Folds != nil)

	var results []TrialRecord
	for i := 0; i < opts.NumRounds; i++ {
		var group errgroup.Group
		lines := make([]string, len(folds))
		for k, fold := range folds {
			k, fold := k, fold
			group.Go(func() error {
				if err := fold.update(i, opts.Objective); err != nil {
					return fmt.Errorf("trial %d fold %d update: %w", i, k, err)
				}
				line, err := fold.eval(i, opts.CustomEval)
				if err != nil {
					return fmt.Errorf("trial %d fold %d eval: %w", i, k, err)
				}
				lines[k] = line
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}

		record, msg, err := AggregateFoldEvals(lines, !opts.SuppressStdv)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		if opts.Verbosity.ShouldPrintTrial(i) {
			fmt.Fprintln(progress, msg)
		}
		results = append(results, record)

		if monitor != nil && len(record) > 0 {
			_, stop := monitor.Observe(i, record[0].Mean, "")
			if stop {
				_, best, _ := monitor.Best()
				results = results[:best+1]
				if opts.Verbosity.Enabled() {
					last := results[len(results)-1]
					fmt.Fprintf(progress, "Stopping. Best iteration:\n[%d] cv-mean:%s\tcv-std:%s\n",
						best, formatMetric(last[0].Mean), formatMetric(last[0].Std))
				}
				break
			}
		}
	}
	return results, nil
}
