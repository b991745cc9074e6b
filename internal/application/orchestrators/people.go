package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"eaglekidz/internal/domain/person"
)

func trim(s string) string { return strings.TrimSpace(s) }

// PersonStoreForSave defines the store interface needed by SavePerson.
type PersonStoreForSave interface {
	CreatePerson(ctx context.Context, d person.Draft) (person.Person, error)
	UpdatePerson(ctx context.Context, id string, d person.Draft) (person.Person, error)
}

// SavePersonInput carries input for the save-person orchestrator.
type SavePersonInput struct {
	PersonID string // empty on create
	Draft    person.Draft
}

// SavePersonDeps holds dependencies for SavePerson.
type SavePersonDeps struct {
	PersonStore PersonStoreForSave
}

// ExecuteSavePerson creates or updates a roster entry.
// PRE: Draft passes person validation after normalising
// POST: Person persisted on the backend; server copy returned
func ExecuteSavePerson(ctx context.Context, input SavePersonInput, deps SavePersonDeps) (person.Person, error) {
	d := input.Draft.Normalize()
	if err := d.Validate(); err != nil {
		return person.Person{}, err
	}

	if input.PersonID == "" {
		p, err := deps.PersonStore.CreatePerson(ctx, d)
		if err != nil {
			return person.Person{}, err
		}
		slog.Info("person_event", "event", "person_created", "person_id", p.ID, "type", d.Type)
		return p, nil
	}

	p, err := deps.PersonStore.UpdatePerson(ctx, input.PersonID, d)
	if err != nil {
		return person.Person{}, err
	}
	slog.Info("person_event", "event", "person_updated", "person_id", input.PersonID, "type", d.Type)
	return p, nil
}
