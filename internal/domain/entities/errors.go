package entities

import "errors"

// Domain errors
var (
	// Card errors
	ErrCardMissingQuestion        = errors.New("card question is required")
	ErrCardMissingAnswer          = errors.New("standard card answer is required")
	ErrCardTooFewOptions          = errors.New("quiz card needs at least 2 options")
	ErrCardCorrectIndexOutOfRange = errors.New("quiz card correct index out of range")
	ErrCardUnknownKind            = errors.New("unknown card kind")
	ErrCardDuplicateID            = errors.New("duplicate card id within pack")

	// Manifest errors
	ErrManifestNoSlides = errors.New("manifest contains no slides")

	// Pack errors
	ErrSlidePackNotFound = errors.New("slide pack not found")
	ErrCourseNotFound    = errors.New("course not found")
)
