package boost

import (
	"errors"
	"fmt"
)

// ErrConfig is the root of all configuration errors. Configuration errors
// surface synchronously, before any boosting round executes, and are never
// retried.
var ErrConfig = errors.New("invalid configuration")

var (
	// ErrNoEvalsForEarlyStopping: early stopping needs at least one watch
	// list entry to monitor.
	ErrNoEvalsForEarlyStopping = fmt.Errorf("%w: early stopping requires at least one watch list entry", ErrConfig)

	// ErrEarlyStopMultiMetric: CV early stopping works with a single eval
	// metric only.
	ErrEarlyStopMultiMetric = fmt.Errorf("%w: early stopping works with a single eval metric only", ErrConfig)

	// ErrLearningRateCount: a fixed learning-rate list must have exactly one
	// entry per boosting round.
	ErrLearningRateCount = fmt.Errorf("%w: length of learning-rate list must equal the round count", ErrConfig)

	// ErrStratifiedUnavailable: stratified folds were requested but no
	// StratifiedSplitFunc is configured.
	ErrStratifiedUnavailable = fmt.Errorf("%w: stratified folds requested but no stratified splitter is configured", ErrConfig)

	// ErrDuplicateWatchLabel: watch list labels are aggregation keys and
	// must be distinct.
	ErrDuplicateWatchLabel = fmt.Errorf("%w: watch list labels must be distinct", ErrConfig)
)

// ErrDistributedConsistency reports a version-counter mismatch between a
// worker's local state and the coordination layer. This is a fatal
// distributed-consistency violation; the run must abort and recover via the
// external checkpoint/restart mechanism.
var ErrDistributedConsistency = errors.New("distributed checkpoint version mismatch")

// ErrEvalMessageShape reports an evaluation message whose token count does
// not divide evenly across the watch list labels.
var ErrEvalMessageShape = errors.New("eval message token count does not divide evenly across watch labels")

// ErrFoldRoundMismatch reports per-fold evaluation messages that disagree on
// the leading round token. Folds run in lock-step; disagreement means a
// fold was updated out of order.
var ErrFoldRoundMismatch = errors.New("fold evaluation messages disagree on round index")
