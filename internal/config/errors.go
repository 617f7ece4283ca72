package config

import "errors"

// ErrInvalid is returned by Validate, wrapping every violation found so a
// caller sees every problem at once instead of stopping at the first one.
var ErrInvalid = errors.New("config: invalid settings")
