package diag

import "github.com/pkg/errors"

// wrapInternal attaches a stack trace to an invariant-violation cause, the
// way the teacher's error package annotates runtime failures before they
// reach the top-level reporter.
func wrapInternal(cause error) error {
	return errors.Wrap(cause, "internal invariant violated")
}
