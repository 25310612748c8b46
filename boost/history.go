package boost

// History accumulates evaluation results across rounds:
// watch label → metric name → one recorded value per round in which that
// (label, metric) pair appeared. Created empty at run start, appended once
// per completed round, never shrunk.
type History map[string]map[string][]float64

// Reset clears the history and creates one empty entry per watch label.
func (h History) Reset(labels []string) {
	for k := range h {
		delete(h, k)
	}
	for _, label := range labels {
		h[label] = make(map[string][]float64)
	}
}

// Append records one value for (label, metric).
func (h History) Append(label, metric string, value float64) {
	byMetric, ok := h[label]
	if !ok {
		byMetric = make(map[string][]float64)
		h[label] = byMetric
	}
	byMetric[metric] = append(byMetric[metric], value)
}
