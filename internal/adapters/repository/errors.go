package repository

import "errors"

// Sentinel kinds for archive store errors.
var (
	ErrNotFound = errors.New("archive not found")
	ErrStore    = errors.New("archive store failed")
)
