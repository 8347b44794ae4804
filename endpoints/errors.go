package endpoints

import "errors"

// ErrUnknownEndpoint is returned by Lookup for a family or name that does not exist
var ErrUnknownEndpoint = errors.New("unknown endpoint")
