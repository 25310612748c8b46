package boost

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ScheduleFunc computes the learning rate for a round given the total
// round count (e.g. a decay schedule).
type ScheduleFunc func(round, totalRounds int) float64

// TrainOptions configures one training run. Params, Data, NumRounds, and
// NewBooster are required; everything else is optional.
type TrainOptions struct {
	Params    Params
	Data      Dataset // training data
	NumRounds int

	// Evals is the watch list evaluated every round. Labels must be
	// distinct; the last entry is the one early stopping reports on.
	Evals []WatchEntry

	Objective  ObjectiveFunc
	CustomEval EvalFunc
	// Maximize sets the early-stopping direction when CustomEval is set;
	// ignored otherwise (the direction is inferred from the metric name).
	Maximize bool

	// EarlyStoppingRounds activates early stopping when > 0: training stops
	// once that many rounds pass without the monitored score improving.
	EarlyStoppingRounds int

	// EvalsResult, when non-nil, accumulates per-round parsed evaluation
	// values. It is reset at run start.
	EvalsResult History

	Verbosity Verbosity

	// LearningRates is a fixed per-round eta sequence; its length must
	// equal NumRounds. Takes precedence over LearningRateFn when both are
	// set.
	LearningRates  []float64
	LearningRateFn ScheduleFunc

	// PriorModel restores serialized booster state before training
	// (training continuation). The completed round count is inferred from
	// the restored tree count.
	PriorModel []byte

	// Coordinator defaults to a fresh SingleWorker when nil.
	Coordinator Coordinator

	NewBooster BoosterFactory
}

// TrainResult is the finalized outcome of Train.
type TrainResult struct {
	Booster Booster

	// BestIteration is the authoritative best round: the monitor's record
	// when early stopping was configured, otherwise the last completed
	// iteration.
	BestIteration int
	// BestScore is the monitored score at BestIteration. NaN when early
	// stopping was not configured.
	BestScore float64
	// BestTreeLimit bounds prediction to the best round:
	// (BestIteration+1) * num_parallel_tree.
	BestTreeLimit int
	// EarlyStopped reports whether the monitor cut the run short.
	EarlyStopped bool
}

// Train runs the boosting-round loop: parameter normalization, optional
// prior-model restore, checkpoint-recovery-wrapped rounds, per-round
// evaluation feeding the history and the early-stopping monitor, and
// best-state finalization.
func Train(opts TrainOptions) (*TrainResult, error) {
	if opts.NewBooster == nil {
		return nil, fmt.Errorf("%w: NewBooster is required", ErrConfig)
	}
	if opts.Data == nil {
		return nil, fmt.Errorf("%w: training dataset is required", ErrConfig)
	}
	if opts.NumRounds <= 0 {
		return nil, fmt.Errorf("%w: NumRounds must be positive, got %d", ErrConfig, opts.NumRounds)
	}
	labels := make([]string, 0, len(opts.Evals))
	seen := make(map[string]bool, len(opts.Evals))
	for _, e := range opts.Evals {
		if seen[e.Label] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWatchLabel, e.Label)
		}
		seen[e.Label] = true
		labels = append(labels, e.Label)
	}
	if opts.LearningRates != nil && len(opts.LearningRates) != opts.NumRounds {
		return nil, fmt.Errorf("%w: %d rates for %d rounds", ErrLearningRateCount,
			len(opts.LearningRates), opts.NumRounds)
	}

	coord := opts.Coordinator
	if coord == nil {
		coord = NewSingleWorker()
	}
	verbosity := opts.Verbosity
	if coord.Rank() != 0 {
		verbosity = verbosity.silenced()
	}

	params := opts.Params.Clone()
	datasets := make([]Dataset, 0, 1+len(opts.Evals))
	datasets = append(datasets, opts.Data)
	for _, e := range opts.Evals {
		datasets = append(datasets, e.Data)
	}

	bst, err := opts.NewBooster(params, datasets, opts.PriorModel)
	if err != nil {
		return nil, fmt.Errorf("construct booster: %w", err)
	}

	// Completed-iteration count; nonzero only under training continuation,
	// where the restored tree count implies it.
	nboost := 0
	numParallelTree := params.GetInt("num_parallel_tree", 1)
	if numParallelTree < 1 {
		numParallelTree = 1
	}
	if opts.PriorModel != nil {
		nboost = bst.TreeCount()
		nboost /= numParallelTree
		if numClass := params.GetInt("num_class", 0); numClass > 1 {
			nboost /= numClass
		}
	}

	if opts.EvalsResult != nil {
		opts.EvalsResult.Reset(labels)
	}

	var monitor *boosterMonitor
	if opts.EarlyStoppingRounds > 0 {
		if len(opts.Evals) == 0 {
			return nil, ErrNoEvalsForEarlyStopping
		}
		if verbosity.Enabled() {
			coord.TrackerPrint(fmt.Sprintf(
				"Will train until %s error hasn't decreased in %d rounds.\n",
				labels[len(labels)-1], opts.EarlyStoppingRounds))
		}

		direction := Minimize
		if metrics := params.Metrics(); len(metrics) > 0 {
			if len(metrics) > 1 && verbosity.Enabled() {
				coord.TrackerPrint(fmt.Sprintf(
					"Multiple eval metrics have been passed: '%s' will be used for early stopping.\n\n",
					metrics[len(metrics)-1]))
			}
			direction = InferDirection(metrics[len(metrics)-1])
		}
		if opts.CustomEval != nil {
			direction = directionFromFlag(opts.Maximize)
		}
		monitor = newBoosterMonitor(bst, direction, opts.EarlyStoppingRounds)
		monitor.init()
	}

	protocol, err := NewRecoveryProtocol(coord, bst)
	if err != nil {
		return nil, err
	}
	start := protocol.ResumeRound()
	nboost += start
	if start > 0 {
		logrus.Debugf("resuming at round %d (checkpoint version %d)", start, protocol.Version())
	}

	earlyStopped := false
	for i := start; i < opts.NumRounds; i++ {
		if opts.LearningRates != nil {
			bst.SetParam("eta", strconv.FormatFloat(opts.LearningRates[i], 'g', -1, 64))
		} else if opts.LearningRateFn != nil {
			bst.SetParam("eta", strconv.FormatFloat(opts.LearningRateFn(i, opts.NumRounds), 'g', -1, 64))
		}

		// Skipped on the first recovery round when the crash happened
		// between the update and the round-complete checkpoint.
		if protocol.UpdatePending() {
			if err := bst.Update(opts.Data, i, opts.Objective); err != nil {
				return nil, fmt.Errorf("round %d update: %w", i, err)
			}
			if err := protocol.CompleteUpdate(bst); err != nil {
				return nil, err
			}
		}
		if err := protocol.CheckConsistency(); err != nil {
			return nil, err
		}

		nboost++
		if len(opts.Evals) > 0 {
			msg, err := bst.EvalSet(opts.Evals, i, opts.CustomEval)
			if err != nil {
				return nil, fmt.Errorf("round %d eval: %w", i, err)
			}
			if verbosity.ShouldPrintRound(i, opts.NumRounds) {
				coord.TrackerPrint(msg + "\n")
			}
			if opts.EvalsResult != nil {
				_, perLabel, err := ParseEvalMessage(msg, labels)
				if err != nil {
					return nil, fmt.Errorf("round %d: %w", i, err)
				}
				for _, label := range labels {
					for _, rec := range perLabel[label] {
						opts.EvalsResult.Append(label, rec.Metric, rec.Value)
					}
				}
			}
			if monitor != nil {
				score, err := lastScore(msg)
				if err != nil {
					return nil, fmt.Errorf("round %d: %w", i, err)
				}
				stop, err := monitor.observe(nboost-1, score, msg)
				if err != nil {
					return nil, fmt.Errorf("round %d: %w", i, err)
				}
				if stop {
					if verbosity.Enabled() {
						coord.TrackerPrint(fmt.Sprintf(
							"Stopping. Best iteration:\n%s\n\n", monitor.bestMessage()))
					}
					earlyStopped = true
					break
				}
			}
		}

		// Checkpoint after evaluation, in case evaluation also mutated the
		// booster. Skipped on early stop: the round's best record is
		// already persisted.
		if err := protocol.CompleteRound(bst); err != nil {
			return nil, err
		}
	}

	result := &TrainResult{Booster: bst, EarlyStopped: earlyStopped, BestScore: math.NaN()}
	if monitor != nil {
		score, iteration, err := monitor.best()
		if err != nil {
			return nil, err
		}
		result.BestScore = score
		result.BestIteration = iteration
	} else {
		result.BestIteration = nboost - 1
	}
	result.BestTreeLimit = (result.BestIteration + 1) * numParallelTree
	return result, nil
}

func directionFromFlag(maximize bool) Direction {
	if maximize {
		return Maximize
	}
	return Minimize
}
