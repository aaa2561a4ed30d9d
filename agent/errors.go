package agent

import "errors"

// ErrAgentAlreadyRunning is returned by Serve when a live process already
// owns the pid file (spec.md §8 invariant 10, §9 open question b).
var ErrAgentAlreadyRunning = errors.New("agent already running")

// ErrNotRunning reports that no agent is reachable. Client methods do not
// return it: a failed connection surfaces as the wrapped transport error.
var ErrNotRunning = errors.New("agent not running")
