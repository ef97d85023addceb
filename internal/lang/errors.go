package lang

import "errors"

// ErrInvalid indicates an invalid language code was configured.
var ErrInvalid = errors.New("invalid language code")
