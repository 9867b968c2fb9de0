package domain

import "errors"

var (
	// ErrNotFound indicates a requested record or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAllProfilesFailed indicates every extraction client profile failed.
	ErrAllProfilesFailed = errors.New("all extraction methods failed")
	// ErrOutputMissing indicates the extractor reported success but produced no file.
	ErrOutputMissing = errors.New("extractor output file missing")
)
