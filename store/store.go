/*
Package store defines dossier persistence for the surrounding application.

PURPOSE:
  The engine itself is stateless; what gets saved is the DOSSIER - the
  charter-party terms and the SOF event ledger, verbatim. The derived
  settlement is never persisted: it is recomputed on load so a stored
  dossier can never drift from the engine's current logic.

IMPLEMENTATIONS:
  - Memory (memory.go): in-process map, used by API tests
  - sqlite subpackage: production persistence
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/seafix/laytime-engine/laytime"
)

// =============================================================================
// DOSSIER - The persisted unit
// =============================================================================

// Dossier is one laytime calculation file: terms plus raw SOF events.
// Events are stored as entered; ledger validation re-runs on load.
type Dossier struct {
	ID     string
	Name   string
	Port   string
	Terms  laytime.CharterPartyTerms
	Events []laytime.SofEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ledger rebuilds the validated event ledger from the stored events.
func (d *Dossier) Ledger() (*laytime.Ledger, error) {
	return laytime.LedgerFromEvents(d.Terms.Commencement, d.Events)
}

// =============================================================================
// REPOSITORY INTERFACE
// =============================================================================

var ErrDossierNotFound = errors.New("dossier not found")

// Dossiers is the persistence interface the API layer depends on.
type Dossiers interface {
	// Save upserts the dossier (terms and events verbatim).
	Save(ctx context.Context, d *Dossier) error

	// Get loads one dossier by id. Returns ErrDossierNotFound when missing.
	Get(ctx context.Context, id string) (*Dossier, error)

	// List returns all dossiers ordered by creation time.
	List(ctx context.Context) ([]*Dossier, error)

	// Delete removes a dossier and its events.
	Delete(ctx context.Context, id string) error
}
