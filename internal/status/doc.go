// Package status reconciles raw repository state into one canonical,
// immutable status model.
//
// The pipeline is a chain of pure stages:
//
//	Reconcile      HEAD + index + worktree + ignore rules -> []StatusEntry
//	DetectRenames  pairs deleted/added entries into renamed/copied entries
//	Build          sorts, counts and freezes the result into a StatusReport
//
// Every stage consumes its input without mutating it and returns a new value,
// so a StatusReport can be rendered from several goroutines at once.
package status
