package boost

import (
	"fmt"
	"io"
	"os"
)

// Coordinator is the distributed coordination layer the training loop runs
// against. In a multi-worker run every method backed by a collective
// (SaveCheckpoint, LoadCheckpoint) blocks until the operation completes on
// all workers; these are the loop's only suspension points.
//
// Passing the coordinator explicitly (rather than reaching for ambient
// global state) keeps the loop unit-testable against a fake.
type Coordinator interface {
	// Rank returns this worker's index, 0-based. Progress printing is
	// suppressed on every rank but 0.
	Rank() int
	// WorldSize returns the number of workers.
	WorldSize() int
	// VersionNumber returns the coordination layer's view of the shared
	// checkpoint version counter.
	VersionNumber() int
	// TrackerPrint emits a progress message. No-op unless rank 0.
	TrackerPrint(msg string)
	// SaveCheckpoint persists the booster state under the next version.
	SaveCheckpoint(bst Booster) error
	// LoadCheckpoint restores the latest checkpointed state into bst and
	// returns its version, or 0 with bst untouched when none exists.
	LoadCheckpoint(bst Booster) (version int, err error)
}

// SingleWorker is the Coordinator for non-distributed runs: rank 0, world
// size 1, checkpoints held in memory. It gives a standalone process the
// exact same loop structure a distributed worker runs.
type SingleWorker struct {
	// Out receives TrackerPrint messages. Defaults to os.Stderr.
	Out io.Writer

	version  int
	snapshot []byte
}

// NewSingleWorker creates a SingleWorker printing to os.Stderr.
func NewSingleWorker() *SingleWorker {
	return &SingleWorker{Out: os.Stderr}
}

func (s *SingleWorker) Rank() int { return 0 }

func (s *SingleWorker) WorldSize() int { return 1 }

func (s *SingleWorker) VersionNumber() int { return s.version }

func (s *SingleWorker) TrackerPrint(msg string) {
	out := s.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprint(out, msg)
}

// SaveCheckpoint snapshots the booster and advances the version counter.
func (s *SingleWorker) SaveCheckpoint(bst Booster) error {
	data, err := bst.Serialize()
	if err != nil {
		return fmt.Errorf("checkpoint save: %w", err)
	}
	s.snapshot = data
	s.version++
	return nil
}

// LoadCheckpoint restores the last snapshot, if any. A fresh SingleWorker
// reports version 0, the required starting state for world size 1.
func (s *SingleWorker) LoadCheckpoint(bst Booster) (int, error) {
	if s.snapshot == nil {
		return s.version, nil
	}
	if err := bst.Restore(s.snapshot); err != nil {
		return 0, fmt.Errorf("checkpoint load: %w", err)
	}
	return s.version, nil
}
