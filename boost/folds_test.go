package boost

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labeledDataset(n int) *TableDataset {
	labels := make([]float64, n)
	for i := range labels {
		labels[i] = float64(i % 2)
	}
	return NewTableDataset(labels)
}

func TestPlainPartitions_DisjointCoverWhenDivisible(t *testing.T) {
	sets := plainPartitions(10, 5, 42)
	require.Len(t, sets, 5)

	seen := make(map[int]bool)
	for _, set := range sets {
		assert.Len(t, set, 2)
		for _, idx := range set {
			assert.False(t, seen[idx], "index %d assigned twice", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestPlainPartitions_RemainderRowsAreDropped(t *testing.T) {
	// 10 rows over 3 folds: step 3, blocks of 3, one row unassigned.
	sets := plainPartitions(10, 3, 1)
	total := 0
	for _, set := range sets {
		assert.Len(t, set, 3)
		total += len(set)
	}
	assert.Equal(t, 9, total)
}

func TestPlainPartitions_SeedIsDeterministic(t *testing.T) {
	assert.Equal(t, plainPartitions(20, 4, 7), plainPartitions(20, 4, 7))
	assert.NotEqual(t, plainPartitions(20, 4, 7), plainPartitions(20, 4, 8))
}

func TestMakeFolds_TrainIsComplementOfTest(t *testing.T) {
	factory := &scriptedFactory{metric: "rmse"}
	folds, err := makeFolds(labeledDataset(10), foldSpec{
		nfold:   5,
		seed:    42,
		factory: factory.factory,
	})
	require.NoError(t, err)
	require.Len(t, folds, 5)
	assert.Len(t, factory.built, 5)

	for k, fold := range folds {
		assert.Equal(t, 8, fold.train.NumRows(), "fold %d", k)
		assert.Equal(t, 2, fold.test.NumRows(), "fold %d", k)
		require.Len(t, fold.watch, 2)
		assert.Equal(t, "train", fold.watch[0].Label)
		assert.Equal(t, "test", fold.watch[1].Label)
	}
}

func TestMakeFolds_ExplicitFoldsOverrideCount(t *testing.T) {
	factory := &scriptedFactory{metric: "rmse"}
	folds, err := makeFolds(labeledDataset(6), foldSpec{
		nfold: 5, // ignored
		folds: []FoldIndices{
			{Test: []int{0, 1}},
			{Test: []int{2, 3}},
			{Test: []int{4, 5}},
		},
		factory: factory.factory,
	})
	require.NoError(t, err)
	assert.Len(t, folds, 3)
	assert.Equal(t, 4, folds[0].train.NumRows())
	assert.Equal(t, 2, folds[0].test.NumRows())
}

func TestMakeFolds_StratifiedWithoutSplitterIsConfigError(t *testing.T) {
	factory := &scriptedFactory{metric: "rmse"}
	_, err := makeFolds(labeledDataset(10), foldSpec{
		nfold:      5,
		stratified: true,
		factory:    factory.factory,
	})
	assert.ErrorIs(t, err, ErrStratifiedUnavailable)
	assert.Empty(t, factory.built)
}

func TestMakeFolds_StratifiedDelegatesToSplitter(t *testing.T) {
	var gotLabels []float64
	split := func(labels []float64, nfold int, seed int64) ([]FoldIndices, error) {
		gotLabels = labels
		out := make([]FoldIndices, nfold)
		for i := range out {
			out[i] = FoldIndices{Test: []int{2 * i, 2*i + 1}}
		}
		return out, nil
	}

	factory := &scriptedFactory{metric: "rmse"}
	folds, err := makeFolds(labeledDataset(10), foldSpec{
		nfold:      5,
		stratified: true,
		split:      split,
		factory:    factory.factory,
	})
	require.NoError(t, err)
	assert.Len(t, folds, 5)
	assert.Len(t, gotLabels, 10)
}

func TestMakeFolds_PreprocessReceivesParamsCopy(t *testing.T) {
	base := Params{}.Add("eta", "0.1")
	preprocess := func(train, test Dataset, params Params) (Dataset, Dataset, Params, error) {
		return train, test, params.Add("max_depth", "3"), nil
	}

	factory := &scriptedFactory{metric: "rmse"}
	_, err := makeFolds(labeledDataset(10), foldSpec{
		nfold:      5,
		params:     base,
		metrics:    []string{"auc"},
		preprocess: preprocess,
		factory:    factory.factory,
	})
	require.NoError(t, err)

	// The shared params were not mutated by per-fold preprocessing.
	assert.Equal(t, Params{}.Add("eta", "0.1"), base)
}

func TestMakeFolds_MetricsAppendedAfterPreprocess(t *testing.T) {
	var foldParams []Params
	factory := func(params Params, data []Dataset, model []byte) (Booster, error) {
		foldParams = append(foldParams, params)
		return newScriptedBooster("rmse", nil), nil
	}

	_, err := makeFolds(labeledDataset(4), foldSpec{
		nfold:   2,
		params:  Params{}.Add("eta", "0.1"),
		metrics: []string{"auc", "logloss"},
		factory: factory,
	})
	require.NoError(t, err)
	require.Len(t, foldParams, 2)
	for _, params := range foldParams {
		assert.Equal(t, []string{"auc", "logloss"}, params.Metrics())
	}
}

func TestTableDataset_SlicePreservesOrder(t *testing.T) {
	data := NewTableDataset([]float64{10, 11, 12, 13})
	sliced := data.Slice([]int{3, 1})

	assert.Equal(t, 2, sliced.NumRows())
	assert.Equal(t, []float64{13, 11}, sliced.Labels())

	unlabeled := NewUnlabeledDataset(5).Slice([]int{0, 4})
	assert.Equal(t, 2, unlabeled.NumRows())
	assert.Nil(t, unlabeled.Labels())
}

// sortedUnion flattens and sorts index sets, for disjointness checks.
func sortedUnion(sets [][]int) []int {
	var all []int
	for _, s := range sets {
		all = append(all, s...)
	}
	sort.Ints(all)
	return all
}

func TestPlainPartitions_UnionIsFullRange(t *testing.T) {
	union := sortedUnion(plainPartitions(10, 5, 42))
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, want, union)
}
