package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gradboost/gradboost/boost"
)

// RunSpec is the YAML description of a training or CV run: dataset size,
// booster parameters (ordered, so duplicate eval_metric entries survive),
// watch labels, replay curves, and loop settings.
type RunSpec struct {
	Seed   int64       `yaml:"seed"`
	Rows   int         `yaml:"rows"`
	Labels []float64   `yaml:"labels,omitempty"` // per-row targets; optional
	Rounds int         `yaml:"rounds"`
	Params []ParamSpec `yaml:"params,omitempty"`

	// Watch lists the evaluation labels for training runs. Each label gets
	// its own slice of the dataset rows (the orchestrator only needs
	// distinct Dataset handles).
	Watch []string `yaml:"watch,omitempty"`

	// Curves drive the replay booster's evaluation trajectories.
	Curves []boost.CurveSpec `yaml:"curves,omitempty"`

	EarlyStoppingRounds int       `yaml:"early_stopping_rounds,omitempty"`
	LearningRates       []float64 `yaml:"learning_rates,omitempty"`

	// Verbose prints every round; VerboseEvery prints every n-th round and
	// takes precedence when set.
	Verbose      bool `yaml:"verbose,omitempty"`
	VerboseEvery int  `yaml:"verbose_every,omitempty"`

	CV CVSpec `yaml:"cv,omitempty"`
}

// ParamSpec is one ordered booster parameter.
type ParamSpec struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// CVSpec holds the cross-validation portion of a RunSpec.
type CVSpec struct {
	NFold        int      `yaml:"nfold,omitempty"`
	Metrics      []string `yaml:"metrics,omitempty"`
	SuppressStdv bool     `yaml:"suppress_stdv,omitempty"`
}

// LoadRunSpec reads and validates a RunSpec from a YAML file.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run spec: %w", err)
	}
	var spec RunSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse run spec %s: %w", path, err)
	}
	if spec.Rounds <= 0 {
		spec.Rounds = 10
	}
	if spec.Rows <= 0 && len(spec.Labels) == 0 {
		spec.Rows = 100
	}
	return &spec, nil
}

// Dataset builds the in-memory dataset the spec describes.
func (s *RunSpec) Dataset() boost.Dataset {
	if len(s.Labels) > 0 {
		return boost.NewTableDataset(s.Labels)
	}
	return boost.NewUnlabeledDataset(s.Rows)
}

// BoosterParams converts the ordered param specs to boost.Params.
func (s *RunSpec) BoosterParams() boost.Params {
	params := make(boost.Params, 0, len(s.Params))
	for _, p := range s.Params {
		params = params.Add(p.Key, p.Value)
	}
	return params
}

// Verbosity resolves the spec's verbosity policy.
func (s *RunSpec) Verbosity() boost.Verbosity {
	if s.VerboseEvery > 0 {
		return boost.VerboseEvery(s.VerboseEvery)
	}
	if s.Verbose {
		return boost.VerboseOn()
	}
	return boost.VerboseOff()
}
