package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"eaglekidz/internal/domain/week"
)

// WeekStoreForCreate defines the store interface needed by CreateWeek.
type WeekStoreForCreate interface {
	ListWeeks(ctx context.Context) ([]week.Week, error)
	CreateWeek(ctx context.Context, w week.Window, services []week.Service) (week.Week, error)
}

// CreateWeekInput carries input for the create-week orchestrator.
type CreateWeekInput struct {
	Date time.Time // any instant inside the desired week; zero means not chosen
}

// CreateWeekDeps holds dependencies for CreateWeek.
type CreateWeekDeps struct {
	WeekStore WeekStoreForCreate
}

// ExecuteCreateWeek creates the Sunday-to-Saturday week containing Date.
// PRE: Date is non-zero and carries the display location
// POST: Week created on the backend, or ErrAlreadyExists with no write
// INVARIANT: Duplicates are detected by calendar day, not instant
func ExecuteCreateWeek(ctx context.Context, input CreateWeekInput, deps CreateWeekDeps) (week.Week, error) {
	if input.Date.IsZero() {
		return week.Week{}, week.ErrNoDate
	}
	win := week.WindowFor(input.Date)

	existing, err := deps.WeekStore.ListWeeks(ctx)
	if err != nil {
		return week.Week{}, err
	}
	if week.Exists(existing, win) {
		return week.Week{}, week.ErrAlreadyExists
	}

	created, err := deps.WeekStore.CreateWeek(ctx, win, nil)
	if err != nil {
		return week.Week{}, err
	}

	slog.Info("week_event", "event", "week_created", "week_id", created.ID, "start", win.StartKey())
	return created, nil
}

// WeekStoreForDelete defines the store interface needed by DeleteWeek.
type WeekStoreForDelete interface {
	DeleteWeek(ctx context.Context, id string) error
}

// DeleteWeekInput carries input for the delete-week orchestrator.
type DeleteWeekInput struct {
	WeekID string
}

// DeleteWeekDeps holds dependencies for DeleteWeek.
type DeleteWeekDeps struct {
	WeekStore WeekStoreForDelete
}

// ExecuteDeleteWeek permanently deletes a week.
// PRE: WeekID is non-empty
func ExecuteDeleteWeek(ctx context.Context, input DeleteWeekInput, deps DeleteWeekDeps) error {
	if input.WeekID == "" {
		return errors.New("week ID is required")
	}
	if err := deps.WeekStore.DeleteWeek(ctx, input.WeekID); err != nil {
		return err
	}
	slog.Info("week_event", "event", "week_deleted", "week_id", input.WeekID)
	return nil
}

// WeekStoreForServices defines the store interface needed by SaveServices.
type WeekStoreForServices interface {
	UpdateWeekServices(ctx context.Context, id string, services []week.Service) (week.Week, error)
}

// SaveServicesInput carries input for the save-services orchestrator.
type SaveServicesInput struct {
	WeekID   string
	Services []week.Service
}

// SaveServicesDeps holds dependencies for SaveServices.
type SaveServicesDeps struct {
	WeekStore WeekStoreForServices
}

// ExecuteSaveServices replaces a week's service schedule.
// PRE: WeekID is non-empty; every service has a name and time
// POST: Backend holds exactly Services for the week
func ExecuteSaveServices(ctx context.Context, input SaveServicesInput, deps SaveServicesDeps) (week.Week, error) {
	if input.WeekID == "" {
		return week.Week{}, errors.New("week ID is required")
	}
	if err := week.ValidateServices(input.Services); err != nil {
		return week.Week{}, err
	}
	updated, err := deps.WeekStore.UpdateWeekServices(ctx, input.WeekID, input.Services)
	if err != nil {
		return week.Week{}, err
	}
	slog.Info("week_event", "event", "week_services_saved", "week_id", input.WeekID, "services", len(input.Services))
	return updated, nil
}
