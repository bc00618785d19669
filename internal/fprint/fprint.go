// Package fprint wraps the fprintd fingerprint daemon. Verification is
// one bounded external call; everything about readers, enrollment, and
// matching lives in the daemon.
package fprint

import (
	"context"
	"os/exec"
	"time"
)

const verifyTool = "fprintd-verify"

// Available reports whether the fingerprint verify tool is on PATH.
func Available() bool {
	_, err := exec.LookPath(verifyTool)
	return err == nil
}

// Verify asks the fingerprint daemon to verify the given user, waiting at
// most timeout for a finger. It fails closed: a missing tool, a daemon
// error, or a timeout all report false.
func Verify(ctx context.Context, username string, timeout time.Duration) bool {
	path, err := exec.LookPath(verifyTool)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return exec.CommandContext(ctx, path, username).Run() == nil
}
