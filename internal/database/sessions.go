package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroosing/dnsmirage/internal/audit"
)

// SessionEvent is a stored match event.
type SessionEvent struct {
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
	RuleID   string    `json:"rule_id"`
	RuleName string    `json:"rule_name"`
	QName    string    `json:"qname"`
	QType    uint16    `json:"qtype"`
	Iface    string    `json:"iface"`
}

// SessionStore records capture sessions in the database. It implements
// audit.Sink.
type SessionStore struct {
	db           *DB
	recordEvents bool

	mu     sync.Mutex
	active string
}

var (
	_ audit.Sink    = (*SessionStore)(nil)
	_ audit.Aborter = (*SessionStore)(nil)
)

// NewSessionStore creates a session store. When recordEvents is false only
// session rows are written.
func NewSessionStore(db *DB, recordEvents bool) *SessionStore {
	return &SessionStore{db: db, recordEvents: recordEvents}
}

// Begin inserts a running session row.
func (s *SessionStore) Begin(sess audit.Session) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM sessions WHERE task_id = ?", sess.TaskID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check session %s: %w", sess.TaskID, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", audit.ErrSessionExists, sess.TaskID)
	}

	_, err = tx.Exec(`
		INSERT INTO sessions (task_id, created_at, status, interfaces)
		VALUES (?, ?, ?, ?)
	`, sess.TaskID, formatTime(sess.CreatedAt), sess.Status, strings.Join(sess.Interfaces, ","))
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", sess.TaskID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	s.mu.Lock()
	s.active = sess.TaskID
	s.mu.Unlock()
	return nil
}

// RecordMatch stores e when event recording is enabled.
func (s *SessionStore) RecordMatch(e audit.Event) error {
	if !s.recordEvents {
		return nil
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	_, err := s.db.conn.Exec(`
		INSERT INTO session_events (task_id, at, rule_id, rule_name, qname, qtype, iface)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.TaskID, formatTime(e.At), e.RuleID, e.RuleName, e.QName, e.QType, e.Iface)
	if err != nil {
		return fmt.Errorf("failed to record match for %s: %w", e.TaskID, err)
	}
	return nil
}

// End writes the final session state.
func (s *SessionStore) End(sess audit.Session) error {
	s.mu.Lock()
	if s.active == sess.TaskID {
		s.active = ""
	}
	s.mu.Unlock()

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	res, err := s.db.conn.Exec(`
		UPDATE sessions SET stopped_at = ?, status = ?, error = ?, matches = ?
		WHERE task_id = ?
	`, formatTime(sess.StoppedAt), sess.Status, sess.Error, sess.Matches, sess.TaskID)
	if err != nil {
		return fmt.Errorf("failed to end session %s: %w", sess.TaskID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", audit.ErrSessionNotFound, sess.TaskID)
	}
	return nil
}

// List returns all sessions, newest first.
func (s *SessionStore) List() ([]audit.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rows, err := s.db.conn.Query(`
		SELECT task_id, created_at, stopped_at, status, error, interfaces, matches
		FROM sessions ORDER BY created_at DESC, task_id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	out := []audit.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return out, nil
}

// Get returns one session.
func (s *SessionStore) Get(taskID string) (audit.Session, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	row := s.db.conn.QueryRow(`
		SELECT task_id, created_at, stopped_at, status, error, interfaces, matches
		FROM sessions WHERE task_id = ?
	`, taskID)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return audit.Session{}, fmt.Errorf("%w: %s", audit.ErrSessionNotFound, taskID)
	}
	return sess, err
}

// Events returns the stored match events of a session in order.
func (s *SessionStore) Events(taskID string) ([]SessionEvent, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rows, err := s.db.conn.Query(`
		SELECT id, at, rule_id, rule_name, qname, qtype, iface
		FROM session_events WHERE task_id = ? ORDER BY id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	out := []SessionEvent{}
	for rows.Next() {
		var ev SessionEvent
		var at string
		if err := rows.Scan(&ev.ID, &at, &ev.RuleID, &ev.RuleName, &ev.QName, &ev.QType, &ev.Iface); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.At = parseTime(at)
		out = append(out, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return out, nil
}

// Delete removes a finished session and its events.
func (s *SessionStore) Delete(taskID string) error {
	s.mu.Lock()
	active := s.active == taskID
	s.mu.Unlock()
	if active {
		return fmt.Errorf("%w: %s", audit.ErrSessionActive, taskID)
	}
	return s.remove(taskID)
}

// Abort removes a session that was begun but never ran.
func (s *SessionStore) Abort(taskID string) error {
	s.mu.Lock()
	if s.active == taskID {
		s.active = ""
	}
	s.mu.Unlock()
	return s.remove(taskID)
}

func (s *SessionStore) remove(taskID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_events WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("failed to delete events of %s: %w", taskID, err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE task_id = ?", taskID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", audit.ErrSessionNotFound, taskID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (audit.Session, error) {
	var sess audit.Session
	var created, stopped, ifaces string
	if err := row.Scan(&sess.TaskID, &created, &stopped, &sess.Status, &sess.Error, &ifaces, &sess.Matches); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sess, err
		}
		return sess, fmt.Errorf("failed to scan session: %w", err)
	}
	sess.CreatedAt = parseTime(created)
	sess.StoppedAt = parseTime(stopped)
	sess.Interfaces = splitList(ifaces)
	if sess.Interfaces == nil {
		sess.Interfaces = []string{}
	}
	return sess, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
