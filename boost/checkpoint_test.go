package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryProtocol_FreshStart(t *testing.T) {
	coord := &fakeCoordinator{world: 1}
	bst := newScriptedBooster("rmse", nil)

	protocol, err := NewRecoveryProtocol(coord, bst)
	require.NoError(t, err)

	assert.Equal(t, 0, protocol.ResumeRound())
	assert.True(t, protocol.UpdatePending())
}

func TestRecoveryProtocol_ResumeFromOddVersionSkipsUpdate(t *testing.T) {
	// Loaded version 5: round 2 completed its update before the restart,
	// so the loop resumes at round 2 going straight to evaluation.
	coord := &fakeCoordinator{world: 2, loadVersion: 5}
	bst := newScriptedBooster("rmse", nil)

	protocol, err := NewRecoveryProtocol(coord, bst)
	require.NoError(t, err)

	assert.Equal(t, 2, protocol.ResumeRound())
	assert.False(t, protocol.UpdatePending())
	require.NoError(t, protocol.CheckConsistency())

	// Completing the round makes the next round's update pending again.
	require.NoError(t, protocol.CompleteRound(bst))
	assert.Equal(t, 6, protocol.Version())
	assert.True(t, protocol.UpdatePending())
}

func TestRecoveryProtocol_SingleWorkerMustStartAtVersionZero(t *testing.T) {
	coord := &fakeCoordinator{world: 1, loadVersion: 2}
	_, err := NewRecoveryProtocol(coord, newScriptedBooster("rmse", nil))
	assert.ErrorIs(t, err, ErrDistributedConsistency)
}

func TestRecoveryProtocol_VersionParityAcrossRound(t *testing.T) {
	coord := &fakeCoordinator{world: 2}
	bst := newScriptedBooster("rmse", nil)
	protocol, err := NewRecoveryProtocol(coord, bst)
	require.NoError(t, err)

	require.True(t, protocol.UpdatePending())
	require.NoError(t, protocol.CompleteUpdate(bst))
	assert.Equal(t, 1, protocol.Version())
	assert.False(t, protocol.UpdatePending())
	require.NoError(t, protocol.CheckConsistency())

	require.NoError(t, protocol.CompleteRound(bst))
	assert.Equal(t, 2, protocol.Version())
	assert.True(t, protocol.UpdatePending())
	assert.Equal(t, 2, coord.saves)
}

func TestRecoveryProtocol_ConsistencyMismatchIsFatal(t *testing.T) {
	coord := &fakeCoordinator{world: 2}
	bst := newScriptedBooster("rmse", nil)
	protocol, err := NewRecoveryProtocol(coord, bst)
	require.NoError(t, err)

	// Another worker advanced the shared counter without us.
	coord.version = 3
	assert.ErrorIs(t, protocol.CheckConsistency(), ErrDistributedConsistency)
}

func TestRecoveryProtocol_SingleWorkerSkipsConsistencyCheck(t *testing.T) {
	coord := &fakeCoordinator{world: 1}
	bst := newScriptedBooster("rmse", nil)
	protocol, err := NewRecoveryProtocol(coord, bst)
	require.NoError(t, err)

	// A single worker never compares against the coordination layer.
	coord.version = 7
	assert.NoError(t, protocol.CheckConsistency())
}

func TestSingleWorker_CheckpointRoundTrip(t *testing.T) {
	coord := NewSingleWorker()
	bst := newScriptedBooster("rmse", nil)
	bst.trees = 3
	bst.SetAttr("best_score", "0.5")

	require.NoError(t, coord.SaveCheckpoint(bst))
	assert.Equal(t, 1, coord.VersionNumber())

	restored := newScriptedBooster("rmse", nil)
	version, err := coord.LoadCheckpoint(restored)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, 3, restored.TreeCount())
	score, ok := restored.Attr("best_score")
	assert.True(t, ok)
	assert.Equal(t, "0.5", score)
}
