// Package process stops the browser a renderer launched together with the
// GPU, network and renderer helpers Chrome forks next to it.
package process

import "errors"

// ErrInvalidPID is returned for pids that would address the caller's own
// process group.
var ErrInvalidPID = errors.New("process: pid must be positive")
