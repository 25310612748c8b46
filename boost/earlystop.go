package boost

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Direction says whether a monitored metric improves by growing or
// shrinking.
type Direction int

const (
	// Minimize: lower scores are better (losses, error rates).
	Minimize Direction = iota
	// Maximize: higher scores are better (ranking/classification quality).
	Maximize
)

// maximizeMetricPrefixes lists the metric-name prefixes that default to
// Maximize. Anything else minimizes unless a custom EvalFunc overrides the
// direction.
var maximizeMetricPrefixes = []string{"auc", "map", "ndcg"}

// InferDirection resolves the early-stopping direction from a metric name.
// The prefix match is intentionally the historical behavior; callers with a
// custom evaluation function bypass it entirely.
func InferDirection(metric string) Direction {
	for _, prefix := range maximizeMetricPrefixes {
		if strings.HasPrefix(metric, prefix) {
			return Maximize
		}
	}
	return Minimize
}

// Monitor is the early-stopping state machine. It tracks the best score
// seen so far and signals a stop once patience rounds pass without strict
// improvement. The zero value is not usable; construct with NewMonitor.
type Monitor struct {
	direction Direction
	patience  int

	bestScore     float64
	bestIteration int
	bestMessage   string
}

// NewMonitor creates a Monitor. patience is the number of rounds without
// improvement tolerated before stopping.
func NewMonitor(direction Direction, patience int) *Monitor {
	return &Monitor{
		direction:     direction,
		patience:      patience,
		bestScore:     initialBest(direction),
		bestIteration: 0,
	}
}

func initialBest(direction Direction) float64 {
	if direction == Maximize {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// improves reports whether score strictly beats best per the direction.
func (d Direction) improves(score, best float64) bool {
	if d == Maximize {
		return score > best
	}
	return score < best
}

// Observe feeds the score observed at the given index (round for training,
// trial for CV). It returns whether the score improved the best record and
// whether the run should stop now. On improvement the best record is
// replaced; otherwise it is untouched.
func (m *Monitor) Observe(index int, score float64, msg string) (improved, stop bool) {
	if m.direction.improves(score, m.bestScore) {
		m.bestScore = score
		m.bestIteration = index
		m.bestMessage = msg
		return true, false
	}
	if index-m.bestIteration >= m.patience {
		return false, true
	}
	return false, false
}

// Best returns the recorded best score, index, and message.
func (m *Monitor) Best() (score float64, iteration int, msg string) {
	return m.bestScore, m.bestIteration, m.bestMessage
}

// boosterMonitor persists the best-state record as booster attributes, so
// it survives a checkpoint round-trip: a recovered worker reads the record
// back out of the restored booster instead of local memory.
type boosterMonitor struct {
	bst       Booster
	direction Direction
	patience  int
}

func newBoosterMonitor(bst Booster, direction Direction, patience int) *boosterMonitor {
	return &boosterMonitor{bst: bst, direction: direction, patience: patience}
}

// init seeds the persisted record. Runs before the checkpoint load, so a
// recovered worker gets the checkpointed record back on top of this.
func (bm *boosterMonitor) init() {
	bm.bst.SetAttr(attrBestScore, formatScore(initialBest(bm.direction)))
	bm.bst.SetAttr(attrBestIteration, "0")
}

// observe compares the iteration's score against the persisted record.
// iteration is the absolute boosting iteration, so patience arithmetic stays
// coherent across checkpoint recovery and training continuation. Improvement
// rewrites the record immediately so the next checkpoint captures it.
func (bm *boosterMonitor) observe(iteration int, score float64, msg string) (stop bool, err error) {
	best, bestIteration, err := bm.best()
	if err != nil {
		return false, err
	}
	if bm.direction.improves(score, best) {
		bm.bst.SetAttr(attrBestScore, formatScore(score))
		bm.bst.SetAttr(attrBestIteration, strconv.Itoa(iteration))
		bm.bst.SetAttr(attrBestMsg, msg)
		return false, nil
	}
	if iteration-bestIteration >= bm.patience {
		return true, nil
	}
	return false, nil
}

// best reads the persisted record back from the booster.
func (bm *boosterMonitor) best() (score float64, iteration int, err error) {
	rawScore, ok := bm.bst.Attr(attrBestScore)
	if !ok {
		return 0, 0, fmt.Errorf("booster attribute %q missing", attrBestScore)
	}
	score, err = strconv.ParseFloat(rawScore, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("booster attribute %q: %v", attrBestScore, err)
	}
	rawIter, ok := bm.bst.Attr(attrBestIteration)
	if !ok {
		return 0, 0, fmt.Errorf("booster attribute %q missing", attrBestIteration)
	}
	iteration, err = strconv.Atoi(rawIter)
	if err != nil {
		return 0, 0, fmt.Errorf("booster attribute %q: %v", attrBestIteration, err)
	}
	return score, iteration, nil
}

func (bm *boosterMonitor) bestMessage() string {
	msg, _ := bm.bst.Attr(attrBestMsg)
	return msg
}

// formatScore renders scores for attribute storage. ParseFloat accepts the
// "+Inf"/"-Inf" forms produced for the initial record.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
