package postgres

import (
	"context"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// eventRepository implements domain.EventRepository
type eventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) domain.EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, title, date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		domain.FormatBusinessDate(event.Date),
		event.Description,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to create event", err)
	}

	return nil
}

// List retrieves all events ordered by date
func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT id, title, date, description, created_at, updated_at
		FROM events
		ORDER BY date, created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("failed to list events", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, domain.NewStorageError("failed to scan event", err)
		}
		e.Date = domain.BusinessDay(e.Date)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("failed to iterate events", err)
	}

	return events, nil
}
