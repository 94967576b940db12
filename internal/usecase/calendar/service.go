package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// HistoryQuery narrows the calendar feed. Dates are YYYY-MM-DD and inclusive.
type HistoryQuery struct {
	ItemID *uuid.UUID
	From   string
	To     string
}

// DaySummary aggregates one calendar day of the ledger
type DaySummary struct {
	Date    time.Time
	In      decimal.Decimal // total received
	Out     decimal.Decimal // total shipped, positive
	Prod    decimal.Decimal // total produced
	Entries []*domain.History
}

// CreateEventInput represents the input for creating a calendar event
type CreateEventInput struct {
	Title       string
	Date        string
	Description string
}

// CalendarService serves the ledger as a calendar feed, plus free-form events
type CalendarService struct {
	HistoryRepo domain.HistoryRepository
	EventRepo   domain.EventRepository
	Logger      logrus.FieldLogger
}

// NewCalendarService creates a new CalendarService instance
func NewCalendarService(historyRepo domain.HistoryRepository, eventRepo domain.EventRepository, logger logrus.FieldLogger) *CalendarService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &CalendarService{HistoryRepo: historyRepo, EventRepo: eventRepo, Logger: logger}
}

// ListHistory returns ledger entries ordered by date, then by the order they were recorded
func (s *CalendarService) ListHistory(ctx context.Context, query HistoryQuery) ([]*domain.History, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}

	entries, err := s.HistoryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.History{}
	}
	return entries, nil
}

// ListDays groups the feed per business date with per-type totals
func (s *CalendarService) ListDays(ctx context.Context, query HistoryQuery) ([]DaySummary, error) {
	entries, err := s.ListHistory(ctx, query)
	if err != nil {
		return nil, err
	}

	days := []DaySummary{}
	for _, e := range entries {
		if len(days) == 0 || !days[len(days)-1].Date.Equal(e.Date) {
			days = append(days, DaySummary{
				Date: e.Date,
				In:   decimal.Zero,
				Out:  decimal.Zero,
				Prod: decimal.Zero,
			})
		}
		day := &days[len(days)-1]
		switch e.Type {
		case domain.TransactionTypeIn:
			day.In = day.In.Add(e.ChangeAmount)
		case domain.TransactionTypeOut:
			day.Out = day.Out.Sub(e.ChangeAmount)
		case domain.TransactionTypeProd:
			day.Prod = day.Prod.Add(e.ChangeAmount)
		}
		day.Entries = append(day.Entries, e)
	}
	return days, nil
}

// CreateEvent stores a calendar event. The description defaults to "No description".
func (s *CalendarService) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	date, err := domain.ParseBusinessDate(input.Date)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = domain.DefaultEventDescription
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Date:        date,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.EventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"date":     domain.FormatBusinessDate(event.Date),
	}).Info("event created")

	return event, nil
}

// ListEvents returns all events ordered by date
func (s *CalendarService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.EventRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (q HistoryQuery) filter() (domain.HistoryFilter, error) {
	var filter domain.HistoryFilter
	if q.ItemID != nil && *q.ItemID != uuid.Nil {
		id := *q.ItemID
		filter.ItemID = &id
	}
	if strings.TrimSpace(q.From) != "" {
		from, err := domain.ParseBusinessDate(q.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if strings.TrimSpace(q.To) != "" {
		to, err := domain.ParseBusinessDate(q.To)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, domain.NewValidationError("from date must not be after to date")
	}
	return filter, nil
}
