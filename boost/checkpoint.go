package boost

import "fmt"

// RecoveryProtocol drives checkpoint save/load around each boosting round
// so that a full restart of all workers resumes at a consistent round
// without redoing a completed update or skipping an evaluation.
//
// The shared version counter advances twice per round:
//
//	even → update step pending
//	odd  → update done, evaluation/checkpoint pending
//
// so a run restored at version v resumes at round v/2, and an odd v means
// the update of that round already happened before the crash. Evaluation is
// redone unconditionally on recovery; it is idempotent.
type RecoveryProtocol struct {
	coord   Coordinator
	version int
}

// NewRecoveryProtocol loads the latest checkpoint into bst and validates
// the starting state: a single-worker world must start at version 0.
// Violations are distributed-consistency errors, fatal to the run.
func NewRecoveryProtocol(coord Coordinator, bst Booster) (*RecoveryProtocol, error) {
	version, err := coord.LoadCheckpoint(bst)
	if err != nil {
		return nil, err
	}
	if coord.WorldSize() == 1 && version != 0 {
		return nil, fmt.Errorf("%w: world size 1 must start at version 0, got %d",
			ErrDistributedConsistency, version)
	}
	return &RecoveryProtocol{coord: coord, version: version}, nil
}

// Version returns the worker's local view of the shared counter.
func (rp *RecoveryProtocol) Version() int { return rp.version }

// ResumeRound returns the round index the loop starts from.
func (rp *RecoveryProtocol) ResumeRound() int { return rp.version / 2 }

// UpdatePending reports whether the current round's update step still has
// to run. False means this is a recovery round whose update completed
// before the restart.
func (rp *RecoveryProtocol) UpdatePending() bool { return rp.version%2 == 0 }

// CompleteUpdate checkpoints the post-update state and moves the counter to
// odd (update done, evaluation pending).
func (rp *RecoveryProtocol) CompleteUpdate(bst Booster) error {
	if err := rp.coord.SaveCheckpoint(bst); err != nil {
		return err
	}
	rp.version++
	return nil
}

// CheckConsistency verifies, in a multi-worker run, that the local counter
// agrees with the coordination layer. Disagreement means the workers are no
// longer in lock-step; the run must abort, not retry.
func (rp *RecoveryProtocol) CheckConsistency() error {
	if rp.coord.WorldSize() == 1 {
		return nil
	}
	if got := rp.coord.VersionNumber(); got != rp.version {
		return fmt.Errorf("%w: local version %d, coordinator reports %d",
			ErrDistributedConsistency, rp.version, got)
	}
	return nil
}

// CompleteRound checkpoints after evaluation (evaluation may also mutate
// the booster) and moves the counter to even: round fully complete.
func (rp *RecoveryProtocol) CompleteRound(bst Booster) error {
	if err := rp.coord.SaveCheckpoint(bst); err != nil {
		return err
	}
	rp.version++
	return nil
}
