package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateFoldEvals_MeanAndPopulationStd(t *testing.T) {
	record, msg, err := AggregateFoldEvals([]string{
		"0\ttrain-auc:0.80",
		"0\ttrain-auc:0.90",
	}, true)
	require.NoError(t, err)

	require.Len(t, record, 1)
	assert.Equal(t, "train-auc", record[0].Name)
	assert.InDelta(t, 0.85, record[0].Mean, 1e-12)
	assert.InDelta(t, 0.05, record[0].Std, 1e-12)
	assert.Equal(t, "0\tcv-train-auc:0.85+0.05", msg)
}

func TestAggregateFoldEvals_SuppressedStdKeepsRecordStd(t *testing.T) {
	record, msg, err := AggregateFoldEvals([]string{
		"0\ttrain-auc:0.80",
		"0\ttrain-auc:0.90",
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "0\tcv-train-auc:0.85", msg)
	assert.InDelta(t, 0.05, record[0].Std, 1e-12)
}

func TestAggregateFoldEvals_MetricsSortedByName(t *testing.T) {
	record, msg, err := AggregateFoldEvals([]string{
		"[2]\ttrain-rmse:0.5\ttest-rmse:0.6",
		"[2]\ttrain-rmse:0.5\ttest-rmse:0.6",
	}, true)
	require.NoError(t, err)

	require.Len(t, record, 2)
	assert.Equal(t, "test-rmse", record[0].Name)
	assert.Equal(t, "train-rmse", record[1].Name)
	assert.Equal(t, "[2]\tcv-test-rmse:0.6+0\tcv-train-rmse:0.5+0", msg)
}

func TestAggregateFoldEvals_RoundMismatchIsFatal(t *testing.T) {
	_, _, err := AggregateFoldEvals([]string{
		"[0]\ttrain-auc:0.8",
		"[1]\ttrain-auc:0.9",
	}, true)
	assert.ErrorIs(t, err, ErrFoldRoundMismatch)
}

func TestAggregateFoldEvals_EmptyInput(t *testing.T) {
	_, _, err := AggregateFoldEvals(nil, true)
	assert.ErrorIs(t, err, ErrFoldRoundMismatch)
}

func TestAggregateFoldEvals_MalformedToken(t *testing.T) {
	_, _, err := AggregateFoldEvals([]string{"[0]\ttrain-auc"}, true)
	assert.ErrorIs(t, err, ErrEvalMessageShape)
}

func TestTrialRecord_Columns(t *testing.T) {
	record := TrialRecord{
		{Name: "test-rmse", Mean: 0.5, Std: 0.1},
		{Name: "train-rmse", Mean: 0.4, Std: 0.05},
	}
	assert.Equal(t, []string{
		"test-rmse-mean", "test-rmse-std",
		"train-rmse-mean", "train-rmse-std",
	}, record.Columns())
}
