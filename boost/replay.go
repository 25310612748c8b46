package boost

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CurveSpec describes the simulated trajectory of one evaluation metric:
// an exponential approach from Start toward Floor as training progresses,
// plus bounded uniform noise. An empty Label matches every watch label.
type CurveSpec struct {
	Label  string  `yaml:"label,omitempty"`
	Metric string  `yaml:"metric"`
	Start  float64 `yaml:"start"`
	Decay  float64 `yaml:"decay"`
	Floor  float64 `yaml:"floor,omitempty"`
	Noise  float64 `yaml:"noise,omitempty"`
}

// defaultCurve backs any (label, metric) pair without a configured curve.
var defaultCurve = CurveSpec{Start: 1.0, Decay: 0.05, Floor: 0.05, Noise: 0.01}

// ReplayBooster is a Booster whose evaluation messages come from curve
// specs instead of real boosting. It exists so the full loop — learning
// rate schedules, early stopping, checkpoint recovery, CV aggregation —
// can be exercised and tested without boosting math. Evaluation is a pure
// function of (state, round), so redoing an evaluation after recovery
// yields the identical message.
type ReplayBooster struct {
	curves  []CurveSpec
	seed    int64
	metrics []string // ordered eval_metric entries; multiplicity preserved

	state  replayState
	attrs  map[string]string
	params map[string]string
}

// replayState is the checkpointed portion of a ReplayBooster.
type replayState struct {
	Trees    int               `yaml:"trees"`
	Progress float64           `yaml:"progress"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
	Metrics  []string          `yaml:"metrics,omitempty"`
}

// ReplayFactory returns a BoosterFactory producing ReplayBoosters that
// share the given curves and seed. Each call yields an independent
// instance, so CV folds stay isolated.
func ReplayFactory(curves []CurveSpec, seed int64) BoosterFactory {
	return func(params Params, _ []Dataset, model []byte) (Booster, error) {
		b := &ReplayBooster{
			curves:  curves,
			seed:    seed,
			metrics: params.Metrics(),
			attrs:   make(map[string]string),
			params:  params.View(),
		}
		if len(b.metrics) == 0 {
			b.metrics = []string{"rmse"}
		}
		if model != nil {
			if err := b.Restore(model); err != nil {
				return nil, err
			}
		}
		return b, nil
	}
}

// Update advances the simulated training state by one round. Progress
// moves by eta, so learning-rate schedules visibly change convergence.
func (r *ReplayBooster) Update(_ Dataset, _ int, _ ObjectiveFunc) error {
	eta := 0.3
	if raw, ok := r.params["eta"]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			eta = v
		}
	}
	r.state.Progress += eta

	perRound := intParam(r.params, "num_parallel_tree", 1)
	if numClass := intParam(r.params, "num_class", 0); numClass > 1 {
		perRound *= numClass
	}
	r.state.Trees += perRound
	return nil
}

// EvalSet emits one token per (label, metric), grouped contiguously by
// label in watch-list order. A custom EvalFunc appends one extra token per
// label.
func (r *ReplayBooster) EvalSet(watch []WatchEntry, round int, feval EvalFunc) (string, error) {
	msg := fmt.Sprintf("[%d]", round)
	for _, entry := range watch {
		for _, metric := range r.metrics {
			value := r.curveValue(entry.Label, metric, round)
			msg += fmt.Sprintf("\t%s-%s:%s", entry.Label, metric, strconv.FormatFloat(value, 'f', 6, 64))
		}
		if feval != nil {
			name, value := feval(nil, entry.Data)
			msg += fmt.Sprintf("\t%s-%s:%s", entry.Label, name, strconv.FormatFloat(value, 'f', 6, 64))
		}
	}
	return msg, nil
}

// curveValue evaluates the matching curve at the current progress. Noise is
// seeded per (seed, label, metric, round) so re-evaluating a round is
// deterministic.
func (r *ReplayBooster) curveValue(label, metric string, round int) float64 {
	curve := defaultCurve
	for _, c := range r.curves {
		if c.Metric == metric && (c.Label == "" || c.Label == label) {
			curve = c
			break
		}
	}
	value := curve.Floor + (curve.Start-curve.Floor)*math.Exp(-curve.Decay*r.state.Progress)
	if curve.Noise > 0 {
		src := r.seed ^ fnv1a64(subsystemCurve(label, metric)) ^ (int64(round)+1)*2654435761
		rng := rand.New(rand.NewSource(src))
		value += (rng.Float64()*2 - 1) * curve.Noise
	}
	return value
}

func (r *ReplayBooster) Attr(name string) (string, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

func (r *ReplayBooster) SetAttr(name, value string) {
	if value == "" {
		delete(r.attrs, name)
		return
	}
	r.attrs[name] = value
}

func (r *ReplayBooster) SetParam(key, value string) {
	r.params[key] = value
}

// Serialize captures trees, progress, attributes, and parameters. The
// attributes matter: the persisted best-state record must survive a
// checkpoint round-trip.
func (r *ReplayBooster) Serialize() ([]byte, error) {
	return yaml.Marshal(replayState{
		Trees:    r.state.Trees,
		Progress: r.state.Progress,
		Attrs:    r.attrs,
		Params:   r.params,
		Metrics:  r.metrics,
	})
}

func (r *ReplayBooster) Restore(model []byte) error {
	var snap replayState
	if err := yaml.Unmarshal(model, &snap); err != nil {
		return fmt.Errorf("restore replay booster: %w", err)
	}
	r.state.Trees = snap.Trees
	r.state.Progress = snap.Progress
	r.attrs = snap.Attrs
	if r.attrs == nil {
		r.attrs = make(map[string]string)
	}
	if snap.Params != nil {
		r.params = snap.Params
	}
	if len(snap.Metrics) > 0 {
		r.metrics = snap.Metrics
	}
	return nil
}

func (r *ReplayBooster) TreeCount() int { return r.state.Trees }

func intParam(params map[string]string, key string, fallback int) int {
	raw, ok := params[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
