package sweetmark

import (
	"context"
	"strings"
)

// firefoxRunning reports whether a Firefox process is visible in the OS
// process list. Callers treat a probe error the same as "running": deleting
// rows under a possibly-open live store is never worth the ambiguity.
func firefoxRunning(ctx context.Context) (bool, error) {
	name, args := processListCommand()
	stdout, _, err := execCapture(ctx, name, args)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(stdout), firefoxProcessName), nil
}
