// Package ledger provides an append-only audit trail of service-manager
// state transitions: which service moved from which ServiceState to which,
// and when. It is not a resource-history store — resource snapshots are
// internal/store's concern.
package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z2hue/bridge/internal/svc"
)

// Transition is a single recorded service state change.
type Transition struct {
	ID          int64
	ServiceID   uuid.UUID
	ServiceName string
	From        svc.ServiceState
	To          svc.ServiceState
	Timestamp   time.Time
}

// Ledger persists service transitions to sqlite and satisfies svc.Recorder.
type Ledger struct {
	db *sql.DB
}

// New creates a Ledger using the provided database connection.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordTransition implements svc.Recorder. Failures are logged, not
// returned: a missed audit row must never block the service manager's main
// loop or take down a service.
func (l *Ledger) RecordTransition(id uuid.UUID, name string, from, to svc.ServiceState) {
	now := time.Now().UTC().Unix()
	_, err := l.db.Exec(
		`INSERT INTO service_transitions (service_id, service_name, from_state, to_state, timestamp) VALUES (?, ?, ?, ?, ?)`,
		id.String(), name, from.String(), to.String(), now,
	)
	if err != nil {
		log.Error().Err(err).Str("service", name).Msg("failed to record service transition")
	}
}

// ForService returns the most recent transitions for a service, newest
// first.
func (l *Ledger) ForService(id uuid.UUID, limit int) ([]Transition, error) {
	rows, err := l.db.Query(`
		SELECT id, service_id, service_name, from_state, to_state, timestamp
		FROM service_transitions
		WHERE service_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, id.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransitions(rows)
}

// Since returns every transition recorded at or after t, oldest first.
func (l *Ledger) Since(t time.Time, limit int) ([]Transition, error) {
	rows, err := l.db.Query(`
		SELECT id, service_id, service_name, from_state, to_state, timestamp
		FROM service_transitions
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
		LIMIT ?
	`, t.Unix(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransitions(rows)
}

// DeleteOlderThan removes entries older than retention, per the ledger's
// configured retention period.
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	result, err := l.db.Exec(`DELETE FROM service_transitions WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanTransitions(rows *sql.Rows) ([]Transition, error) {
	var out []Transition
	for rows.Next() {
		var t Transition
		var idStr, from, to string
		var ts int64
		if err := rows.Scan(&t.ID, &idStr, &t.ServiceName, &from, &to, &ts); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		t.ServiceID = id
		t.From = parseState(from)
		t.To = parseState(to)
		t.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

func parseState(s string) svc.ServiceState {
	for _, state := range []svc.ServiceState{
		svc.Registered, svc.Starting, svc.Running, svc.Stopping, svc.Stopped, svc.Failed,
	} {
		if state.String() == s {
			return state
		}
	}
	return svc.Failed
}
