package boost

import (
	"fmt"
	"strconv"
	"strings"
)

// MetricValue is one parsed (metric name, value) pair for a watch label.
type MetricValue struct {
	Metric string
	Value  float64
}

// ParseEvalMessage parses a booster evaluation message of the form
//
//	<round>\t<label1>-<metric>:<value>\t<label2>-<metric>:<value>...
//
// into the round token and, per watch label, the ordered metric values.
// Tokens are grouped contiguously by label in watch-list order, so the
// token list is partitioned into len(labels) equal contiguous chunks and
// chunk k is assigned to label k. A token count that does not divide evenly
// across the labels returns ErrEvalMessageShape.
func ParseEvalMessage(msg string, labels []string) (round string, perLabel map[string][]MetricValue, err error) {
	fields := strings.Split(strings.TrimSpace(msg), "\t")
	if len(fields) < 1 || fields[0] == "" {
		return "", nil, fmt.Errorf("%w: empty message", ErrEvalMessageShape)
	}
	round = fields[0]
	tokens := fields[1:]

	if len(labels) == 0 {
		return round, map[string][]MetricValue{}, nil
	}
	if len(tokens)%len(labels) != 0 {
		return "", nil, fmt.Errorf("%w: %d tokens across %d labels in %q",
			ErrEvalMessageShape, len(tokens), len(labels), msg)
	}

	perLabel = make(map[string][]MetricValue, len(labels))
	chunk := len(tokens) / len(labels)
	for k, label := range labels {
		records := make([]MetricValue, 0, chunk)
		for _, token := range tokens[k*chunk : (k+1)*chunk] {
			rec, err := parseEvalToken(token, label)
			if err != nil {
				return "", nil, err
			}
			records = append(records, rec)
		}
		perLabel[label] = records
	}
	return round, perLabel, nil
}

// parseEvalToken splits one "<label>-<metric>:<value>" token, stripping the
// label prefix the positional chunking assigned to it.
func parseEvalToken(token, label string) (MetricValue, error) {
	key, raw, found := strings.Cut(token, ":")
	if !found {
		return MetricValue{}, fmt.Errorf("%w: token %q has no value", ErrEvalMessageShape, token)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return MetricValue{}, fmt.Errorf("%w: token %q: %v", ErrEvalMessageShape, token, err)
	}
	metric := strings.TrimPrefix(key, label+"-")
	return MetricValue{Metric: metric, Value: value}, nil
}

// lastScore extracts the trailing metric value of an evaluation message —
// the score of the last watch list entry's last metric, which is the one
// early stopping monitors.
func lastScore(msg string) (float64, error) {
	idx := strings.LastIndex(msg, ":")
	if idx < 0 || idx == len(msg)-1 {
		return 0, fmt.Errorf("%w: no trailing score in %q", ErrEvalMessageShape, msg)
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(msg[idx+1:]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: trailing score in %q: %v", ErrEvalMessageShape, msg, err)
	}
	return score, nil
}
