package errors

import "errors"

// Common errors
var (
	ErrNotFound = errors.New("resource not found")
)

// Aligner errors
var (
	ErrEmptyTranscript = errors.New("empty transcript: no timed tokens")
	ErrEmptyOutline    = errors.New("empty outline: no content blocks")
)

// Job errors
var (
	ErrConcurrentJobConflict = errors.New("slide pack already has a job in flight")
)

// Merge errors
var (
	ErrInvalidMergeInput = errors.New("invalid merge input")
)

// Catalog errors
var (
	ErrReorderSetMismatch = errors.New("reorder id set does not match course packs")
	ErrPackNotCompleted   = errors.New("slide pack is not completed")
)
