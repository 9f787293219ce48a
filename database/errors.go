package database

import "errors"

// Validation and lookup errors surfaced to handlers. Write failures from
// the driver are wrapped with context instead.
var (
	ErrNotFound            = errors.New("record not found")
	ErrCompanyNameRequired = errors.New("company name cannot be empty")
	ErrTitleRequired       = errors.New("task title cannot be empty")
	ErrInvalidPriority     = errors.New("invalid task priority")
	ErrInvalidStatus       = errors.New("invalid task status")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
