// Package lifecycle moves soft-deletable entities between an active and a
// deleted list, mirroring each transition on the backend.
//
// A transition either succeeds on the backend and updates the partition, or
// fails and leaves the partition exactly as it was.
package lifecycle

import (
	"context"
	"errors"
	"slices"
)

var (
	ErrNotActive  = errors.New("item is not in the active list")
	ErrNotDeleted = errors.New("item is not in the deleted list")
	ErrPurged     = errors.New("item has been permanently deleted")
)

// Entity is a soft-deletable record identified by Key.
type Entity[T any] interface {
	Key() string
	WithDeleted(deleted bool) T
}

// Backend performs the remote side of each transition.
type Backend[T any] interface {
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (T, error)
	Purge(ctx context.Context, id string) error
}

// Reloader refreshes the deleted list from the server after a delete.
type Reloader[T any] func(ctx context.Context) ([]T, error)

// Partition holds the two disjoint lists shown on a review or roster page.
// INVARIANT: no key appears in both Active and Deleted
type Partition[T Entity[T]] struct {
	Active  []T
	Deleted []T
	purged  map[string]bool
}

// NewPartition builds a partition from server lists. Keys present in both
// lists are kept only on the active side.
func NewPartition[T Entity[T]](active, deleted []T) Partition[T] {
	seen := make(map[string]bool, len(active))
	p := Partition[T]{Active: make([]T, 0, len(active)), Deleted: make([]T, 0, len(deleted))}
	for _, e := range active {
		if !seen[e.Key()] {
			seen[e.Key()] = true
			p.Active = append(p.Active, e)
		}
	}
	for _, e := range deleted {
		if !seen[e.Key()] {
			seen[e.Key()] = true
			p.Deleted = append(p.Deleted, e)
		}
	}
	return p
}

// Purged reports whether id was hard-deleted through this partition.
func (p Partition[T]) Purged(id string) bool { return p.purged[id] }

// MarkPurged records ids already purged, e.g. carried over from a prior request.
func (p *Partition[T]) MarkPurged(ids ...string) {
	if p.purged == nil {
		p.purged = make(map[string]bool)
	}
	for _, id := range ids {
		p.purged[id] = true
	}
}

func indexOf[T Entity[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(e T) bool { return e.Key() == id })
}

func (p Partition[T]) clone() Partition[T] {
	out := Partition[T]{Active: slices.Clone(p.Active), Deleted: slices.Clone(p.Deleted)}
	if len(p.purged) > 0 {
		out.purged = make(map[string]bool, len(p.purged))
		for k := range p.purged {
			out.purged[k] = true
		}
	}
	return out
}

// Manager applies transitions to partitions.
type Manager[T Entity[T]] struct {
	backend Backend[T]
	reload  Reloader[T]
}

// NewManager creates a manager. reload may be nil.
func NewManager[T Entity[T]](backend Backend[T], reload Reloader[T]) *Manager[T] {
	return &Manager[T]{backend: backend, reload: reload}
}

// Delete soft-deletes an active item.
// PRE: id is in p.Active
// POST: Success → id removed from Active and present in Deleted with deleted=true
// POST: Failure → error returned, p unchanged
func (m *Manager[T]) Delete(ctx context.Context, p Partition[T], id string) (Partition[T], error) {
	i := indexOf(p.Active, id)
	if i < 0 {
		return p, ErrNotActive
	}
	if err := m.backend.SoftDelete(ctx, id); err != nil {
		return p, err
	}

	next := p.clone()
	item := next.Active[i]
	next.Active = slices.Delete(next.Active, i, i+1)

	if m.reload != nil {
		if deleted, err := m.reload(ctx); err == nil {
			next.Deleted = reconcile(deleted, next.Active, item)
			return next, nil
		}
	}
	next.Deleted = append(next.Deleted, item.WithDeleted(true))
	return next, nil
}

// reconcile replaces the deleted list with the server's, dropping anything
// still active and guaranteeing the just-deleted item is present.
func reconcile[T Entity[T]](server, active []T, item T) []T {
	out := make([]T, 0, len(server)+1)
	found := false
	for _, e := range server {
		if indexOf(active, e.Key()) >= 0 {
			continue
		}
		if e.Key() == item.Key() {
			found = true
		}
		out = append(out, e.WithDeleted(true))
	}
	if !found {
		out = append(out, item.WithDeleted(true))
	}
	return out
}

// Restore returns a deleted item to the active list using the server's copy.
// PRE: id is in p.Deleted and not purged
// POST: Success → id removed from Deleted; server entity with deleted=false appended to Active
func (m *Manager[T]) Restore(ctx context.Context, p Partition[T], id string) (Partition[T], error) {
	if p.Purged(id) {
		return p, ErrPurged
	}
	i := indexOf(p.Deleted, id)
	if i < 0 {
		return p, ErrNotDeleted
	}
	restored, err := m.backend.Restore(ctx, id)
	if err != nil {
		return p, err
	}

	next := p.clone()
	next.Deleted = slices.Delete(next.Deleted, i, i+1)
	if restored.Key() == "" {
		restored = p.Deleted[i]
	}
	next.Active = append(next.Active, restored.WithDeleted(false))
	return next, nil
}

// HardDelete permanently removes a deleted item.
// PRE: id is in p.Deleted
// POST: Success → id absent from both lists and recorded as purged
// INVARIANT: An active item is never purged
func (m *Manager[T]) HardDelete(ctx context.Context, p Partition[T], id string) (Partition[T], error) {
	if p.Purged(id) {
		return p, ErrPurged
	}
	i := indexOf(p.Deleted, id)
	if i < 0 {
		return p, ErrNotDeleted
	}
	if err := m.backend.Purge(ctx, id); err != nil {
		return p, err
	}

	next := p.clone()
	next.Deleted = slices.Delete(next.Deleted, i, i+1)
	next.MarkPurged(id)
	return next, nil
}
