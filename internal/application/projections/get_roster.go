package projections

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"eaglekidz/internal/application/lifecycle"
	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/domain/person"
)

// GetRosterQuery carries query parameters.
type GetRosterQuery struct {
	Type     string
	Criteria listutil.PersonCriteria
}

// GetRosterResult carries the query result.
type GetRosterResult struct {
	Type      string
	Partition lifecycle.Partition[person.Person]
	Visible   []person.Person // Partition.Active after Criteria
}

// GetRosterDeps holds dependencies for QueryGetRoster.
type GetRosterDeps struct {
	PersonStore PersonStore
}

// QueryGetRoster loads one roster type with its deleted side-list.
// PRE: Type is a valid person type
// POST: Deleted holds only people of Type
// INVARIANT: A failed deleted-list fetch yields an empty deleted list, not an error
func QueryGetRoster(ctx context.Context, query GetRosterQuery, deps GetRosterDeps) (GetRosterResult, error) {
	if !person.IsValidType(query.Type) {
		return GetRosterResult{}, person.ErrInvalidType
	}

	var active, deleted []person.Person
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = deps.PersonStore.ListPeopleByType(gctx, query.Type)
		return err
	})
	g.Go(func() error {
		var err error
		deleted, err = DeletedOfType(gctx, deps.PersonStore, query.Type)
		if err != nil {
			slog.Warn("deleted_people_unavailable", "type", query.Type, "error", err)
			deleted = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return GetRosterResult{}, err
	}

	return NewRosterResult(query.Type, lifecycle.NewPartition(active, deleted), query.Criteria), nil
}

// NewRosterResult packages a partition for rendering.
func NewRosterResult(personType string, p lifecycle.Partition[person.Person], c listutil.PersonCriteria) GetRosterResult {
	return GetRosterResult{Type: personType, Partition: p, Visible: FilterPeople(p.Active, c)}
}

// DeletedOfType fetches all deleted people and keeps those of personType.
func DeletedOfType(ctx context.Context, store PersonStore, personType string) ([]person.Person, error) {
	all, err := store.ListDeletedPeople(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]person.Person, 0, len(all))
	for _, p := range all {
		if p.Type == personType {
			out = append(out, p)
		}
	}
	return out, nil
}
