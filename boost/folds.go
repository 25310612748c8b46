package boost

import "fmt"

// FoldIndices is one train/test row partition.
type FoldIndices struct {
	Train []int
	Test  []int
}

// StratifiedSplitFunc generates nfold test partitions keyed on the dataset
// labels. It is an injection point for an external stratified k-fold
// implementation; requesting stratified folds without one configured is a
// configuration error.
type StratifiedSplitFunc func(labels []float64, nfold int, seed int64) ([]FoldIndices, error)

// PreprocessFunc rewrites a fold's datasets and parameters before its
// booster is constructed. It receives a private copy of the parameters;
// this is the only point where per-fold parameter mutation is permitted.
type PreprocessFunc func(train, test Dataset, params Params) (Dataset, Dataset, Params, error)

// cvFold owns one fold's private booster scoped to its train/test
// partition. Folds share no mutable state, so per-round updates may run
// concurrently across folds.
type cvFold struct {
	train Dataset
	test  Dataset
	watch []WatchEntry
	bst   Booster
}

func (f *cvFold) update(round int, obj ObjectiveFunc) error {
	return f.bst.Update(f.train, round, obj)
}

func (f *cvFold) eval(round int, feval EvalFunc) (string, error) {
	return f.bst.EvalSet(f.watch, round, feval)
}

// foldSpec carries everything makeFolds needs beyond the dataset.
type foldSpec struct {
	nfold      int
	params     Params
	seed       int64
	metrics    []string
	preprocess PreprocessFunc
	stratified bool
	folds      []FoldIndices // explicit partitions; overrides nfold
	split      StratifiedSplitFunc
	factory    BoosterFactory
}

// makeFolds builds the N fold contexts. Test partitions come from one of
// three sources: a seeded pseudo-random permutation cut into contiguous
// blocks, an external stratified splitter, or caller-supplied explicit
// folds. Train partitions are always the union of the other folds' test
// blocks, in block order.
func makeFolds(data Dataset, spec foldSpec) ([]*cvFold, error) {
	testSets, err := testPartitions(data, spec)
	if err != nil {
		return nil, err
	}
	nfold := len(testSets)

	folds := make([]*cvFold, 0, nfold)
	for k := 0; k < nfold; k++ {
		var trainIdx []int
		for i := 0; i < nfold; i++ {
			if i != k {
				trainIdx = append(trainIdx, testSets[i]...)
			}
		}
		dtrain := data.Slice(trainIdx)
		dtest := data.Slice(testSets[k])

		params := spec.params.Clone()
		if spec.preprocess != nil {
			dtrain, dtest, params, err = spec.preprocess(dtrain, dtest, params)
			if err != nil {
				return nil, fmt.Errorf("fold %d preprocess: %w", k, err)
			}
		}
		for _, m := range spec.metrics {
			params = params.Add(EvalMetricKey, m)
		}

		bst, err := spec.factory(params, []Dataset{dtrain, dtest}, nil)
		if err != nil {
			return nil, fmt.Errorf("fold %d booster: %w", k, err)
		}
		folds = append(folds, &cvFold{
			train: dtrain,
			test:  dtest,
			watch: []WatchEntry{{Data: dtrain, Label: "train"}, {Data: dtest, Label: "test"}},
			bst:   bst,
		})
	}
	return folds, nil
}

// testPartitions resolves the per-fold test index sets.
func testPartitions(data Dataset, spec foldSpec) ([][]int, error) {
	switch {
	case spec.folds != nil:
		// Explicit folds: only the test partitions are consulted; the
		// supplied count overrides the requested nfold.
		sets := make([][]int, len(spec.folds))
		for i, f := range spec.folds {
			sets[i] = f.Test
		}
		return sets, nil

	case spec.stratified:
		if spec.split == nil {
			return nil, ErrStratifiedUnavailable
		}
		folds, err := spec.split(data.Labels(), spec.nfold, spec.seed)
		if err != nil {
			return nil, fmt.Errorf("stratified split: %w", err)
		}
		sets := make([][]int, len(folds))
		for i, f := range folds {
			sets[i] = f.Test
		}
		return sets, nil

	default:
		return plainPartitions(data.NumRows(), spec.nfold, spec.seed), nil
	}
}

// plainPartitions permutes the row indices and cuts them into nfold
// contiguous blocks of floor(rows/nfold), the last clipped to the row
// count. Rows past nfold*step are dropped, not rebalanced.
func plainPartitions(rows, nfold int, seed int64) [][]int {
	rng := newPartitionedRNG(RunKey(seed)).forSubsystem(subsystemFolds)
	perm := rng.Perm(rows)

	step := rows / nfold
	sets := make([][]int, 0, nfold)
	for i := 0; i < nfold; i++ {
		hi := (i + 1) * step
		if hi > rows {
			hi = rows
		}
		sets = append(sets, perm[i*step:hi])
	}
	return sets
}
