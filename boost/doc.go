// Package boost provides the boosting-round training and cross-validation
// orchestrators for gradboost.
//
// # Reading Guide
//
// Start with these files to understand the training kernel:
//   - booster.go, coordinator.go: the interfaces the loop consumes
//   - train.go: the per-round loop, learning-rate schedule, and early stopping
//   - checkpoint.go: the distributed checkpoint/recovery version protocol
//
// # Architecture
//
// The package drives an opaque Booster one round at a time. Each round the
// booster emits a tab-separated evaluation message; evalparse.go turns that
// into structured per-label metric records which feed the evaluation History
// and the early-stopping Monitor.
//
// Cross-validation (cv.go) reuses the same building blocks: folds.go builds
// N isolated fold boosters, aggcv.go merges the N per-round evaluation
// messages into one TrialRecord, and the Monitor tracks the best trial.
//
// Distributed runs are coordinated exclusively through the Coordinator
// interface (checkpoint save/load and a shared version counter). A run that
// crashes resumes from the last checkpointed version; RecoveryProtocol
// decides per round whether the update step was already performed.
//
// # Key Interfaces
//
// The extension points are small interfaces and function types:
//   - Booster: one boosting update + evaluation per round
//   - Dataset: row count, labels, and index slicing
//   - Coordinator: rank/world-size/version plus checkpoint collectives
//   - StratifiedSplitFunc: external stratified k-fold generation
//   - PreprocessFunc: per-fold dataset/parameter rewriting
package boost
