package boost

// Dataset is the minimal view of training data the orchestrator needs.
// Implementations own the feature storage; the loop only partitions rows
// and hands slices to fold boosters.
type Dataset interface {
	// NumRows returns the number of rows.
	NumRows() int
	// Labels returns the per-row target values (used for stratified folds).
	Labels() []float64
	// Slice returns a new Dataset restricted to the given row indices,
	// in the given order.
	Slice(indices []int) Dataset
}

// WatchEntry pairs a dataset with the label under which its evaluation
// results are reported. Labels must be distinct within a watch list; the
// last entry's label is the one named in early-stopping messages.
type WatchEntry struct {
	Data  Dataset
	Label string
}

// ObjectiveFunc is a custom training objective: given the current
// predictions it returns per-row gradient and hessian values.
type ObjectiveFunc func(preds []float64, data Dataset) (grad, hess []float64)

// EvalFunc is a custom evaluation metric: given the current predictions it
// returns the metric name and value. When set, the early-stopping direction
// comes from the caller's Maximize flag instead of metric-name inference.
type EvalFunc func(preds []float64, data Dataset) (name string, value float64)

// Booster is the opaque trainer the loop drives. One instance performs one
// boosting update per round and reports evaluation results as a
// tab-separated message (see ParseEvalMessage for the format).
//
// Implementations MUST persist attributes set via SetAttr inside
// Serialize/Restore so that best-state records survive a checkpoint
// round-trip.
type Booster interface {
	// Update performs one boosting round on the training data.
	Update(train Dataset, round int, obj ObjectiveFunc) error
	// EvalSet evaluates every watch list entry at the given round and
	// returns the combined evaluation message.
	EvalSet(watch []WatchEntry, round int, feval EvalFunc) (string, error)
	// Attr returns a named attribute, or false if unset.
	Attr(name string) (string, bool)
	// SetAttr sets a named attribute. An empty value deletes it.
	SetAttr(name, value string)
	// SetParam overrides a single parameter (used for per-round eta).
	SetParam(key, value string)
	// Serialize returns the booster's full state, attributes included.
	Serialize() ([]byte, error)
	// Restore replaces the booster's state from Serialize output.
	Restore(model []byte) error
	// TreeCount returns the number of trees built so far.
	TreeCount() int
}

// BoosterFactory constructs a Booster from parameters and the datasets it
// will see during training. A non-nil model restores previously serialized
// state (training continuation).
type BoosterFactory func(params Params, data []Dataset, model []byte) (Booster, error)

// Booster attribute keys for the persisted best-state record.
const (
	attrBestScore     = "best_score"
	attrBestIteration = "best_iteration"
	attrBestMsg       = "best_msg"
)
