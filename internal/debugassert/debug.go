//go:build syncjam_debug

package debugassert

import (
	"fmt"
	"log/slog"
	"os"
)

func invariantViolated(msg string, args ...any) {
	slog.Error(msg, args...)
	fmt.Fprintln(os.Stderr, "syncjam: aborting on invariant violation (debug build)")
	os.Exit(1)
}
