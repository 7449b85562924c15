package views

import "errors"

// Sentinel kinds for view errors.
var (
	ErrInvalidTableID = errors.New("invalid table id")
	ErrUpstream       = errors.New("tables backend failed")
)
