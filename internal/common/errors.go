package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound     = errors.New("post not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrRevisionNotFound = errors.New("revision not found")

	// Revise errors
	ErrNoChanges   = errors.New("no changes to apply")
	ErrSlowMode    = errors.New("slow mode forbids creating a new version")
	ErrRateLimited = errors.New("edit rate limit exceeded")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
