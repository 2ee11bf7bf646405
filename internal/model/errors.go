package model

import "strings"

// ValidationError carries every message produced by Task.Validate.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
