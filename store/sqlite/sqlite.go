/*
Package sqlite provides the SQLite-backed dossier store.

PURPOSE:
  Implements store.Dossiers on SQLite. A dossier's terms and SOF events are
  persisted verbatim - no derived settlement columns exist anywhere in the
  schema, so results can never go stale: the engine recomputes on load.

KEY TABLES:
  dossiers:   one row per calculation file, terms flattened into columns
  sof_events: the raw SOF ledger rows, cascading with their dossier

SAVE SEMANTICS:
  The SOF ledger is user-edited data, not an append-only journal, so Save
  replaces the dossier's event rows atomically inside one transaction:
  either the whole new state lands or none of it does.

WAL MODE:
  Opened with WAL so concurrent readers don't block the single writer.

USAGE:
  st, err := sqlite.New("./data/dossiers.db")   // ":memory:" for tests
  defer st.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/seafix/laytime-engine/laytime"
	"github.com/seafix/laytime-engine/store"
)

// Store implements store.Dossiers using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Dossiers = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Dossiers (charter party terms flattened into columns)
	CREATE TABLE IF NOT EXISTS dossiers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		port TEXT NOT NULL DEFAULT '',
		allowed_hours TEXT NOT NULL,
		commencement TEXT NOT NULL,
		demurrage_rate TEXT NOT NULL,
		despatch_rate TEXT NOT NULL,
		currency TEXT NOT NULL,
		weekend_term TEXT NOT NULL,
		holiday_usage_term TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- SOF events, persisted verbatim; validation re-runs on load
	CREATE TABLE IF NOT EXISTS sof_events (
		dossier_id TEXT NOT NULL REFERENCES dossiers(id) ON DELETE CASCADE,
		id TEXT NOT NULL,
		from_at TEXT NOT NULL,
		to_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		countable_percent TEXT NOT NULL,
		PRIMARY KEY (dossier_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_sof_events_dossier_from
		ON sof_events(dossier_id, from_at);
	CREATE INDEX IF NOT EXISTS idx_dossiers_created_at
		ON dossiers(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DOSSIER STORE (store.Dossiers interface)
// =============================================================================

const timeLayout = time.RFC3339Nano

func (s *Store) Save(ctx context.Context, d *store.Dossier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	createdAt := now
	var existing string
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM dossiers WHERE id = ?`, d.ID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		// first save
	case err != nil:
		return err
	default:
		if createdAt, err = time.Parse(timeLayout, existing); err != nil {
			return fmt.Errorf("corrupt created_at for dossier %s: %w", d.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dossiers
			(id, name, port, allowed_hours, commencement, demurrage_rate,
			 despatch_rate, currency, weekend_term, holiday_usage_term,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			port = excluded.port,
			allowed_hours = excluded.allowed_hours,
			commencement = excluded.commencement,
			demurrage_rate = excluded.demurrage_rate,
			despatch_rate = excluded.despatch_rate,
			currency = excluded.currency,
			weekend_term = excluded.weekend_term,
			holiday_usage_term = excluded.holiday_usage_term,
			updated_at = excluded.updated_at`,
		d.ID, d.Name, d.Port,
		d.Terms.AllowedHours.String(),
		d.Terms.Commencement.UTC().Format(timeLayout),
		d.Terms.DemurrageRatePerDay.Value.String(),
		d.Terms.DespatchRatePerDay.Value.String(),
		string(d.Terms.Currency()),
		string(d.Terms.WeekendTerm),
		string(d.Terms.HolidayUsageTerm),
		createdAt.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		return err
	}

	// Replace the event rows wholesale: the SOF is edited in place upstream.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sof_events WHERE dossier_id = ?`, d.ID); err != nil {
		return err
	}
	for _, e := range d.Events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sof_events (dossier_id, id, from_at, to_at, kind, countable_percent)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.ID, e.ID,
			e.From.UTC().Format(timeLayout),
			e.To.UTC().Format(timeLayout),
			string(e.Kind),
			e.CountablePercent.String(),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	d.CreatedAt = createdAt
	d.UpdatedAt = now
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, port, allowed_hours, commencement, demurrage_rate,
		       despatch_rate, currency, weekend_term, holiday_usage_term,
		       created_at, updated_at
		FROM dossiers WHERE id = ?`, id)

	d, err := scanDossier(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrDossierNotFound
	}
	if err != nil {
		return nil, err
	}

	events, err := s.loadEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Events = events
	return d, nil
}

func (s *Store) List(ctx context.Context) ([]*store.Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, port, allowed_hours, commencement, demurrage_rate,
		       despatch_rate, currency, weekend_term, holiday_usage_term,
		       created_at, updated_at
		FROM dossiers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dossiers []*store.Dossier
	for rows.Next() {
		d, err := scanDossier(rows)
		if err != nil {
			return nil, err
		}
		dossiers = append(dossiers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range dossiers {
		events, err := s.loadEvents(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.Events = events
	}
	return dossiers, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM dossiers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrDossierNotFound
	}
	return nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDossier(row rowScanner) (*store.Dossier, error) {
	var (
		d                                  store.Dossier
		allowed, demRate, desRate          string
		currency, weekendTerm, usageTerm   string
		commencement, createdAt, updatedAt string
	)
	err := row.Scan(&d.ID, &d.Name, &d.Port, &allowed, &commencement,
		&demRate, &desRate, &currency, &weekendTerm, &usageTerm,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if d.Terms.AllowedHours, err = decimal.NewFromString(allowed); err != nil {
		return nil, fmt.Errorf("dossier %s: bad allowed_hours: %w", d.ID, err)
	}
	if d.Terms.Commencement, err = time.Parse(timeLayout, commencement); err != nil {
		return nil, fmt.Errorf("dossier %s: bad commencement: %w", d.ID, err)
	}
	dem, err := decimal.NewFromString(demRate)
	if err != nil {
		return nil, fmt.Errorf("dossier %s: bad demurrage_rate: %w", d.ID, err)
	}
	des, err := decimal.NewFromString(desRate)
	if err != nil {
		return nil, fmt.Errorf("dossier %s: bad despatch_rate: %w", d.ID, err)
	}
	ccy := laytime.Currency(currency)
	d.Terms.DemurrageRatePerDay = laytime.Money{Value: dem, Currency: ccy}
	d.Terms.DespatchRatePerDay = laytime.Money{Value: des, Currency: ccy}
	d.Terms.WeekendTerm = laytime.WeekendTerm(weekendTerm)
	d.Terms.HolidayUsageTerm = laytime.HolidayUsageTerm(usageTerm)

	if d.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("dossier %s: bad created_at: %w", d.ID, err)
	}
	if d.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("dossier %s: bad updated_at: %w", d.ID, err)
	}
	return &d, nil
}

func (s *Store) loadEvents(ctx context.Context, dossierID string) ([]laytime.SofEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_at, to_at, kind, countable_percent
		FROM sof_events WHERE dossier_id = ? ORDER BY from_at, id`, dossierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []laytime.SofEvent
	for rows.Next() {
		var (
			e             laytime.SofEvent
			from, to      string
			kind, percent string
		)
		if err := rows.Scan(&e.ID, &from, &to, &kind, &percent); err != nil {
			return nil, err
		}
		if e.From, err = time.Parse(timeLayout, from); err != nil {
			return nil, fmt.Errorf("event %s: bad from_at: %w", e.ID, err)
		}
		if e.To, err = time.Parse(timeLayout, to); err != nil {
			return nil, fmt.Errorf("event %s: bad to_at: %w", e.ID, err)
		}
		e.Kind = laytime.EventKind(kind)
		if e.CountablePercent, err = decimal.NewFromString(percent); err != nil {
			return nil, fmt.Errorf("event %s: bad countable_percent: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
