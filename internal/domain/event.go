package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultEventDescription is stored when an event is created without details
const DefaultEventDescription = "No description"

// Event represents a free-form calendar entry, unrelated to stock
type Event struct {
	ID          uuid.UUID
	Title       string
	Date        time.Time // business date, UTC midnight
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate ensures the event adheres to domain rules
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return NewValidationError("event title cannot be empty")
	}
	if e.Date.IsZero() {
		return NewValidationError("event date is required")
	}
	return nil
}
