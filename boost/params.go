package boost

import (
	"sort"
	"strconv"
)

// EvalMetricKey is the parameter key that may legitimately appear multiple
// times: once per requested evaluation metric.
const EvalMetricKey = "eval_metric"

// ParamPair is a single (key, value) booster parameter.
type ParamPair struct {
	Key   string
	Value string
}

// Params is an ordered parameter sequence with multiplicity allowed.
// Duplicate keys are permitted only so that multiple eval_metric entries
// survive; all other lookups go through the derived unique-key View, where
// the last occurrence of a key wins.
type Params []ParamPair

// ParamsFromMap builds Params from a plain map. Keys are sorted so the
// resulting order is deterministic.
func ParamsFromMap(m map[string]string) Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p := make(Params, 0, len(m))
	for _, k := range keys {
		p = append(p, ParamPair{Key: k, Value: m[k]})
	}
	return p
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Add appends one pair, returning the extended Params.
func (p Params) Add(key, value string) Params {
	return append(p, ParamPair{Key: key, Value: value})
}

// Get returns the effective value for key (last occurrence wins).
func (p Params) Get(key string) (string, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return "", false
}

// GetInt returns the effective integer value for key, or fallback if the
// key is unset or unparsable.
func (p Params) GetInt(key string, fallback int) int {
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetFloat returns the effective float value for key, or fallback.
func (p Params) GetFloat(key string, fallback float64) float64 {
	v, ok := p.Get(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Values returns every value recorded for key, in order.
func (p Params) Values(key string) []string {
	var out []string
	for _, pair := range p {
		if pair.Key == key {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Metrics returns all eval_metric entries, in order.
func (p Params) Metrics() []string {
	return p.Values(EvalMetricKey)
}

// Without returns a copy with every occurrence of key removed.
func (p Params) Without(key string) Params {
	out := make(Params, 0, len(p))
	for _, pair := range p {
		if pair.Key != key {
			out = append(out, pair)
		}
	}
	return out
}

// WithEvalMetrics returns a copy with existing eval_metric entries removed
// and one appended per requested metric, preserving the given order.
func (p Params) WithEvalMetrics(metrics []string) Params {
	out := p.Without(EvalMetricKey)
	for _, m := range metrics {
		out = out.Add(EvalMetricKey, m)
	}
	return out
}

// View returns the derived unique-key map (last occurrence wins). The view
// is a copy; mutating it does not affect the Params.
func (p Params) View() map[string]string {
	m := make(map[string]string, len(p))
	for _, pair := range p {
		m[pair.Key] = pair.Value
	}
	return m
}
