package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"eaglekidz/internal/application/lifecycle"
	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/application/projections"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
)

// Transition names a soft-delete lifecycle step.
type Transition string

const (
	TransitionDelete  Transition = "delete"
	TransitionRestore Transition = "restore"
	TransitionPurge   Transition = "purge"
)

// ErrUnknownTransition is returned for anything but delete, restore and purge.
var ErrUnknownTransition = errors.New("unknown transition")

// ParseTransition maps a route segment to a Transition.
func ParseTransition(s string) (Transition, error) {
	switch t := Transition(s); t {
	case TransitionDelete, TransitionRestore, TransitionPurge:
		return t, nil
	}
	return "", ErrUnknownTransition
}

func apply[T lifecycle.Entity[T]](ctx context.Context, m *lifecycle.Manager[T], p lifecycle.Partition[T], t Transition, id string) (lifecycle.Partition[T], error) {
	switch t {
	case TransitionDelete:
		return m.Delete(ctx, p, id)
	case TransitionRestore:
		return m.Restore(ctx, p, id)
	case TransitionPurge:
		return m.HardDelete(ctx, p, id)
	}
	return p, ErrUnknownTransition
}

// --- Reviews ---

// ReviewStoreForLifecycle defines the store interface needed by TransitionReview.
type ReviewStoreForLifecycle interface {
	projections.ReviewStore
	DeleteReview(ctx context.Context, id string) error
	RestoreReview(ctx context.Context, id string) (review.Review, error)
	HardDeleteReview(ctx context.Context, id string) error
}

type reviewBackend struct{ store ReviewStoreForLifecycle }

func (b reviewBackend) SoftDelete(ctx context.Context, id string) error { return b.store.DeleteReview(ctx, id) }
func (b reviewBackend) Restore(ctx context.Context, id string) (review.Review, error) {
	return b.store.RestoreReview(ctx, id)
}
func (b reviewBackend) Purge(ctx context.Context, id string) error { return b.store.HardDeleteReview(ctx, id) }

// TransitionReviewInput carries input for TransitionReview.
type TransitionReviewInput struct {
	WeekID     string
	ReviewID   string
	Transition Transition
}

// TransitionReviewDeps holds dependencies for TransitionReview.
type TransitionReviewDeps struct {
	WeekStore   projections.WeekStore
	ReviewStore ReviewStoreForLifecycle
}

// ExecuteTransitionReview loads a week's reviews and applies one lifecycle step.
// PRE: WeekID and ReviewID non-empty
// POST: Success → result reflects the step without a further page load
// POST: Step failure → result holds the unchanged partition alongside the error
func ExecuteTransitionReview(ctx context.Context, input TransitionReviewInput, deps TransitionReviewDeps) (projections.GetWeekReviewsResult, error) {
	if input.WeekID == "" || input.ReviewID == "" {
		return projections.GetWeekReviewsResult{}, errors.New("week and review IDs are required")
	}
	page, err := projections.QueryGetWeekReviews(ctx, projections.GetWeekReviewsQuery{WeekID: input.WeekID},
		projections.GetWeekReviewsDeps{WeekStore: deps.WeekStore, ReviewStore: deps.ReviewStore})
	if err != nil {
		return projections.GetWeekReviewsResult{}, err
	}

	reload := func(ctx context.Context) ([]review.Review, error) {
		return deps.ReviewStore.ListDeletedReviewsByWeek(ctx, input.WeekID)
	}
	m := lifecycle.NewManager[review.Review](reviewBackend{deps.ReviewStore}, reload)

	next, err := apply(ctx, m, page.Partition, input.Transition, input.ReviewID)
	if err != nil {
		slog.Warn("review_transition_failed", "transition", input.Transition, "review_id", input.ReviewID, "error", err)
		return page, err
	}
	page.Partition = next
	slog.Info("review_event", "event", "review_"+string(input.Transition), "review_id", input.ReviewID, "week_id", input.WeekID)
	return page, nil
}

// --- People ---

// PersonStoreForLifecycle defines the store interface needed by TransitionPerson.
type PersonStoreForLifecycle interface {
	projections.PersonStore
	DeletePerson(ctx context.Context, id string) error
	RestorePerson(ctx context.Context, id string) (person.Person, error)
	HardDeletePerson(ctx context.Context, id string) error
}

type personBackend struct{ store PersonStoreForLifecycle }

func (b personBackend) SoftDelete(ctx context.Context, id string) error { return b.store.DeletePerson(ctx, id) }
func (b personBackend) Restore(ctx context.Context, id string) (person.Person, error) {
	return b.store.RestorePerson(ctx, id)
}
func (b personBackend) Purge(ctx context.Context, id string) error { return b.store.HardDeletePerson(ctx, id) }

// TransitionPersonInput carries input for TransitionPerson.
type TransitionPersonInput struct {
	Type       string
	PersonID   string
	Transition Transition
	Criteria   listutil.PersonCriteria
}

// TransitionPersonDeps holds dependencies for TransitionPerson.
type TransitionPersonDeps struct {
	PersonStore PersonStoreForLifecycle
}

// ExecuteTransitionPerson loads a roster and applies one lifecycle step.
// PRE: Type is a valid person type; PersonID non-empty
// POST: Same result contract as ExecuteTransitionReview
func ExecuteTransitionPerson(ctx context.Context, input TransitionPersonInput, deps TransitionPersonDeps) (projections.GetRosterResult, error) {
	if input.PersonID == "" {
		return projections.GetRosterResult{}, errors.New("person ID is required")
	}
	roster, err := projections.QueryGetRoster(ctx, projections.GetRosterQuery{Type: input.Type, Criteria: input.Criteria},
		projections.GetRosterDeps{PersonStore: deps.PersonStore})
	if err != nil {
		return projections.GetRosterResult{}, err
	}

	reload := func(ctx context.Context) ([]person.Person, error) {
		return projections.DeletedOfType(ctx, deps.PersonStore, input.Type)
	}
	m := lifecycle.NewManager[person.Person](personBackend{deps.PersonStore}, reload)

	next, err := apply(ctx, m, roster.Partition, input.Transition, input.PersonID)
	if err != nil {
		slog.Warn("person_transition_failed", "transition", input.Transition, "person_id", input.PersonID, "error", err)
		return roster, err
	}
	slog.Info("person_event", "event", "person_"+string(input.Transition), "person_id", input.PersonID, "type", input.Type)
	return projections.NewRosterResult(input.Type, next, input.Criteria), nil
}
