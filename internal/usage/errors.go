package usage

import "errors"

// ErrLimitReached indicates the free allowance is spent and no subscription is active.
var ErrLimitReached = errors.New("limit reached")

// ErrMissingSession is returned for an empty session id.
var ErrMissingSession = errors.New("session id is required")
