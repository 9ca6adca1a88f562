package utils

import (
	"github.com/google/uuid"
)

// NewSessionID returns a random identifier for a recording session
func NewSessionID() string {
	return uuid.NewString()
}

// ShortID returns the first eight characters of an ID for display
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
