package boost

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// TrialMetric is one metric aggregated across folds for a single trial.
// Name keeps the label prefix the folds report ("train-rmse"), since both
// the train and test partitions are watched.
type TrialMetric struct {
	Name string
	Mean float64
	Std  float64 // population standard deviation across folds
}

// TrialRecord is one cross-validation trial: every metric appearing in the
// fold messages, in metric-name sorted order.
type TrialRecord []TrialMetric

// Columns returns the tabular column keys "<metric>-mean", "<metric>-std"
// in record order.
func (r TrialRecord) Columns() []string {
	cols := make([]string, 0, 2*len(r))
	for _, m := range r {
		cols = append(cols, m.Name+"-mean", m.Name+"-std")
	}
	return cols
}

// AggregateFoldEvals merges one evaluation message per fold, all for the
// same round, into a TrialRecord plus the formatted progress line
//
//	<round>\tcv-<metric>:<mean>+<std>
//
// (the "+<std>" part omitted when showStdv is false; the record always
// carries the std). All messages must share the same leading round token;
// disagreement returns ErrFoldRoundMismatch.
func AggregateFoldEvals(lines []string, showStdv bool) (TrialRecord, string, error) {
	if len(lines) == 0 {
		return nil, "", fmt.Errorf("%w: no fold messages", ErrFoldRoundMismatch)
	}

	byMetric := make(map[string][]float64)
	round := strings.Fields(lines[0])[0]
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != round {
			return nil, "", fmt.Errorf("%w: %q vs round %s", ErrFoldRoundMismatch, line, round)
		}
		for _, token := range fields[1:] {
			key, raw, found := strings.Cut(token, ":")
			if !found {
				return nil, "", fmt.Errorf("%w: token %q has no value", ErrEvalMessageShape, token)
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, "", fmt.Errorf("%w: token %q: %v", ErrEvalMessageShape, token, err)
			}
			byMetric[key] = append(byMetric[key], value)
		}
	}

	names := make([]string, 0, len(byMetric))
	for name := range byMetric {
		names = append(names, name)
	}
	sort.Strings(names)

	record := make(TrialRecord, 0, len(names))
	msg := round
	for _, name := range names {
		values := byMetric[name]
		mean := stat.Mean(values, nil)
		std := stat.PopStdDev(values, nil)
		record = append(record, TrialMetric{Name: name, Mean: mean, Std: std})
		if showStdv {
			msg += fmt.Sprintf("\tcv-%s:%s+%s", name, formatMetric(mean), formatMetric(std))
		} else {
			msg += fmt.Sprintf("\tcv-%s:%s", name, formatMetric(mean))
		}
	}
	return record, msg, nil
}

// formatMetric renders aggregated values with six significant digits, the
// same width the boosters themselves report.
func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
