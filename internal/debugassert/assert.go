// Package debugassert gates coordinator invariant checks behind a build
// tag: a debug build (-tags syncjam_debug) aborts the process on
// violation so the failure is caught where it happened; a production
// build logs and lets the caller fall back to restoring from a
// snapshot, per the Fatal error class in SPEC_FULL.md §7.
package debugassert

import "github.com/xGuatx/youtube-sync-multi-client/internal/syncjamerr"

// Invariant aborts the process (os.Exit(1)) in a debug build when ok is
// false, otherwise logs at Error level and returns ok unchanged so the caller can decide how to
// degrade (e.g. restore from snapshot).
func Invariant(ok bool, msg string, args ...any) bool {
	if ok {
		return true
	}
	invariantViolated(msg, append(args, "err", syncjamerr.ErrInvariant)...)
	return false
}
