//go:build !syncjam_debug

package debugassert

import "log/slog"

func invariantViolated(msg string, args ...any) {
	slog.Error(msg, args...)
}
