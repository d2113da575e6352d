package config

import "errors"

// ErrMissingConfig indicates a required identifier is absent entirely.
// This is the only error class that aborts pipeline startup.
var ErrMissingConfig = errors.New("missing required configuration")
