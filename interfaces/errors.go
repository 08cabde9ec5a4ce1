package interfaces

import "errors"

var ErrNotFound = errors.New("not found")
