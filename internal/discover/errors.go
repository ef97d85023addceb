package discover

import "errors"

// ErrInputDir indicates the input directory could not be listed.
var ErrInputDir = errors.New("cannot read input directory")
