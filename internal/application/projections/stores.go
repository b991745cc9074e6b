package projections

import (
	"context"

	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// WeekStore reads weeks from the backend.
type WeekStore interface {
	ListWeeks(ctx context.Context) ([]week.Week, error)
	GetWeek(ctx context.Context, id string) (week.Week, error)
}

// ReviewStore reads reviews from the backend.
type ReviewStore interface {
	ListReviews(ctx context.Context) ([]review.Review, error)
	ListReviewsByWeek(ctx context.Context, weekID string) ([]review.Review, error)
	ListDeletedReviewsByWeek(ctx context.Context, weekID string) ([]review.Review, error)
}

// PersonStore reads roster entries from the backend.
type PersonStore interface {
	ListPeopleByType(ctx context.Context, personType string) ([]person.Person, error)
	ListDeletedPeople(ctx context.Context) ([]person.Person, error)
}
