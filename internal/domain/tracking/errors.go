package tracking

import "errors"

// Sentinel kinds for tracking rejections. All of these are non-fatal
// "rejected input" results: the workflow state is untouched and the UI
// is expected to show a transient message.
var (
	ErrAlreadyBoxed   = errors.New("a box is already in progress")
	ErrNoBox          = errors.New("no box drawn")
	ErrBadInterval    = errors.New("tracking interval must be positive")
	ErrMediaEnd       = errors.New("target frame is past the end of media")
	ErrNoHistory      = errors.New("no keyframe history to roll back")
	ErrBeforeFirstKey = errors.New("target frame precedes the first keyframe")
	ErrNothingToSave  = errors.New("nothing to save")
	ErrEmptySequence  = errors.New("empty keyframe sequence")
)
