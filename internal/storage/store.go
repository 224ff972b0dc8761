// Package storage implements the persistence collaborator: whole-snapshot
// load and save of the ledger. The in-memory ledger stays authoritative for
// the session even when a save fails; callers surface such failures without
// discarding state.
package storage

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/pkg/validation"
)

// SnapshotStore loads and saves the full ledger snapshot. No incremental or
// partial persistence exists: the whole ledger is reloaded once at process
// start and rewritten after every successful mutation.
type SnapshotStore interface {
	// LoadAll returns the persisted ledger, possibly empty, in ledger order.
	LoadAll(ctx context.Context) ([]*domain.Borrower, error)

	// SaveAll replaces the persisted ledger with the given snapshot.
	SaveAll(ctx context.Context, snapshot []*domain.Borrower) error
}

// quarantine validates loaded records against the explicit schema and drops
// the ones that do not conform, so ambiguous shapes never reach the engine.
func quarantine(borrowers []*domain.Borrower, validate *validator.Validate) []*domain.Borrower {
	out := make([]*domain.Borrower, 0, len(borrowers))
	for _, b := range borrowers {
		if err := validate.Struct(b); err != nil {
			log.Printf("storage: quarantined malformed borrower record %s: %v", b.ID, err)
			continue
		}
		out = append(out, b)
	}
	return out
}

func newRecordValidator() *validator.Validate {
	return validation.New()
}
