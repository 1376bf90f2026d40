package service

import "errors"

// Sentinel kinds for session-level rejections.
var (
	ErrLayerLimit     = errors.New("layer limit exceeded")
	ErrNoMedia        = errors.New("no media opened")
	ErrNoSegments     = errors.New("no segments registered")
	ErrNoStore        = errors.New("no archive store configured")
	ErrSpanNotFound   = errors.New("span not found")
	ErrBadWindow      = errors.New("invalid label window")
	ErrWindowTooWide  = errors.New("label window too wide")
	ErrIngestRejected = errors.New("ingest queue is full")
	ErrNotStarted     = errors.New("service not started")
)
