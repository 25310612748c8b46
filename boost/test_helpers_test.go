package boost

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// scriptedBooster replays a fixed per-round score sequence for loop and
// early-stopping tests. Every watch entry reports the same score for the
// round, except entries whose label has an override in labelScores.
type scriptedBooster struct {
	metric      string
	scores      []float64
	labelScores map[string][]float64

	updates []int // rounds Update was called with
	etas    []string
	attrs   map[string]string
	trees   int
}

func newScriptedBooster(metric string, scores []float64) *scriptedBooster {
	return &scriptedBooster{
		metric: metric,
		scores: scores,
		attrs:  make(map[string]string),
	}
}

// scriptedFactory builds independent scriptedBoosters and remembers them
// for inspection.
type scriptedFactory struct {
	metric      string
	scores      []float64
	labelScores map[string][]float64
	built       []*scriptedBooster
}

func (f *scriptedFactory) factory(params Params, data []Dataset, model []byte) (Booster, error) {
	b := newScriptedBooster(f.metric, f.scores)
	b.labelScores = f.labelScores
	if model != nil {
		if err := b.Restore(model); err != nil {
			return nil, err
		}
	}
	f.built = append(f.built, b)
	return b, nil
}

func (b *scriptedBooster) scoreFor(label string, round int) float64 {
	if overrides, ok := b.labelScores[label]; ok {
		return overrides[round]
	}
	return b.scores[round]
}

func (b *scriptedBooster) Update(_ Dataset, round int, _ ObjectiveFunc) error {
	b.updates = append(b.updates, round)
	b.trees++
	return nil
}

func (b *scriptedBooster) EvalSet(watch []WatchEntry, round int, feval EvalFunc) (string, error) {
	msg := fmt.Sprintf("[%d]", round)
	for _, entry := range watch {
		msg += fmt.Sprintf("\t%s-%s:%s", entry.Label, b.metric,
			strconv.FormatFloat(b.scoreFor(entry.Label, round), 'g', -1, 64))
		if feval != nil {
			name, value := feval(nil, entry.Data)
			msg += fmt.Sprintf("\t%s-%s:%s", entry.Label, name, strconv.FormatFloat(value, 'g', -1, 64))
		}
	}
	return msg, nil
}

func (b *scriptedBooster) Attr(name string) (string, bool) {
	v, ok := b.attrs[name]
	return v, ok
}

func (b *scriptedBooster) SetAttr(name, value string) {
	if value == "" {
		delete(b.attrs, name)
		return
	}
	b.attrs[name] = value
}

func (b *scriptedBooster) SetParam(key, value string) {
	if key == "eta" {
		b.etas = append(b.etas, value)
	}
}

type scriptedSnapshot struct {
	Trees int               `yaml:"trees"`
	Attrs map[string]string `yaml:"attrs"`
}

func (b *scriptedBooster) Serialize() ([]byte, error) {
	return yaml.Marshal(scriptedSnapshot{Trees: b.trees, Attrs: b.attrs})
}

func (b *scriptedBooster) Restore(model []byte) error {
	var snap scriptedSnapshot
	if err := yaml.Unmarshal(model, &snap); err != nil {
		return err
	}
	b.trees = snap.Trees
	if snap.Attrs != nil {
		b.attrs = snap.Attrs
	}
	return nil
}

func (b *scriptedBooster) TreeCount() int { return b.trees }

// fakeCoordinator is a scriptable Coordinator. loadVersion is the version
// LoadCheckpoint reports, simulating a worker that restarts mid-run.
type fakeCoordinator struct {
	rank        int
	world       int
	loadVersion int
	snapshot    []byte

	version int
	saves   int
	printed []string
}

func (f *fakeCoordinator) Rank() int { return f.rank }

func (f *fakeCoordinator) WorldSize() int { return f.world }

func (f *fakeCoordinator) VersionNumber() int { return f.version }

func (f *fakeCoordinator) TrackerPrint(msg string) {
	f.printed = append(f.printed, msg)
}

func (f *fakeCoordinator) SaveCheckpoint(bst Booster) error {
	data, err := bst.Serialize()
	if err != nil {
		return err
	}
	f.snapshot = data
	f.saves++
	f.version++
	return nil
}

func (f *fakeCoordinator) LoadCheckpoint(bst Booster) (int, error) {
	if f.snapshot != nil {
		if err := bst.Restore(f.snapshot); err != nil {
			return 0, err
		}
	}
	f.version = f.loadVersion
	return f.loadVersion, nil
}
