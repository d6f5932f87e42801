package domain

import "errors"

var (
	// ErrNotConfigured indicates no backend base URL is configured
	ErrNotConfigured = errors.New("backend URL is not configured")
	// ErrNoProject indicates no project is selected
	ErrNoProject = errors.New("no project selected")
	// ErrNoActiveFile indicates no ingested file is selected
	ErrNoActiveFile = errors.New("no file selected")
	// ErrEmptyQuestion indicates an empty or whitespace-only question
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrBusy indicates a request is already in flight
	ErrBusy = errors.New("a request is already in progress")
	// ErrUnknownProject indicates a project id outside the configured catalog
	ErrUnknownProject = errors.New("unknown project")
)
