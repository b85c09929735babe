package core

// resolve.go confirms foreign-key references against the store.
//
// Only listing rows carry a reference (realtor_id), and resolution runs
// only after the row validator has accepted the row on all other grounds,
// so no lookups are wasted on rows that will be rejected anyway.

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownReference marks a foreign key that does not resolve to a
// stored record. It is row-scoped: the row is skipped and the run
// continues. Store errors are never folded into it.
var ErrUnknownReference = errors.New("unknown reference")

// ExistsFunc reports whether a realtor with the given identity exists.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// RealtorResolver checks realtor existence with a per-run memo.
//
// The memo is safe because an import is a single-writer, short-lived
// batch: a realtor cannot be deleted mid-run by anything but the run
// itself, and the run never deletes.
type RealtorResolver struct {
	exists ExistsFunc
	memo   map[int64]bool
}

// NewRealtorResolver creates a resolver backed by the given exists query.
// One resolver is created per run; the memo does not outlive it.
func NewRealtorResolver(exists ExistsFunc) *RealtorResolver {
	return &RealtorResolver{
		exists: exists,
		memo:   make(map[int64]bool),
	}
}

// Resolve returns nil when the realtor exists, an error wrapping
// ErrUnknownReference when it does not, and the store error unchanged
// when the lookup itself fails. Lookup failures are never memoized.
func (r *RealtorResolver) Resolve(ctx context.Context, realtorID int64) error {
	found, ok := r.memo[realtorID]
	if !ok {
		var err error
		found, err = r.exists(ctx, realtorID)
		if err != nil {
			return fmt.Errorf("realtor lookup: %w", err)
		}
		r.memo[realtorID] = found
	}

	if !found {
		return fmt.Errorf("%w: realtor_id %d", ErrUnknownReference, realtorID)
	}
	return nil
}
