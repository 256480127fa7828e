package commands

import "errors"

// Static errors used throughout the commands package.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
)
