// internal/records/resolver.go
package records

import (
	"context"

	cerrors "academy-bot/internal/common/errors"
)

// Actor identifies who is driving an operation: their platform account id,
// a display name for audit notes, and whether they hold a staff role.
type Actor struct {
	ID    string
	Name  string
	Staff bool
}

// Resolver locates records and enforces the linked-account access gate.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveByHandle finds the record for a handle and applies the access
// gate: once a record is bound to an account, only that account or staff
// may resolve it. A blocked lookup returns an AccessBlocked error, distinct
// from not-found, so callers can offer a ticket instead of pretending the
// record does not exist.
func (r *Resolver) ResolveByHandle(ctx context.Context, storeID StoreID, handle string, actor Actor) (*Record, error) {
	rec, err := r.store.FindByHandle(ctx, storeID, handle)
	if err != nil {
		return nil, err
	}

	if rec.LinkedAccountID != "" && rec.LinkedAccountID != actor.ID && !actor.Staff {
		return nil, cerrors.NewAccessBlockedError(string(storeID), handle)
	}

	return rec, nil
}

// ResolveByLinkedID finds the record bound to the given account id. No gate
// applies: the binding itself is the proof of access.
func (r *Resolver) ResolveByLinkedID(ctx context.Context, storeID StoreID, linkedID string) (*Record, error) {
	return r.store.FindByLinkedID(ctx, storeID, linkedID)
}
