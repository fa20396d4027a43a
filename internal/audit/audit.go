// Package audit records capture sessions and the matches they produce.
package audit

import (
	"errors"
	"time"
)

// Session statuses.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusFailed  = "failed"
)

var (
	// ErrSessionExists is returned by Begin when the task id is taken.
	ErrSessionExists = errors.New("audit: session already exists")
	// ErrSessionNotFound is returned for an unknown task id.
	ErrSessionNotFound = errors.New("audit: session not found")
	// ErrSessionActive is returned when deleting the session being recorded.
	ErrSessionActive = errors.New("audit: session is active")
)

// Session describes one capture run.
type Session struct {
	TaskID     string    `json:"task_id"`
	CreatedAt  time.Time `json:"created_at"`
	StoppedAt  time.Time `json:"stopped_at,omitzero"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	Interfaces []string  `json:"interfaces"`
	Matches    uint64    `json:"matches"`
}

// Event links a triggering query to the response sent for it.
type Event struct {
	TaskID   string
	At       time.Time
	RuleID   string
	RuleName string
	QName    string
	QType    uint16
	Iface    string
	Query    []byte
	Response []byte
}

// Sink receives session lifecycle and match events. Calls for one session
// are never concurrent.
type Sink interface {
	Begin(s Session) error
	RecordMatch(e Event) error
	End(s Session) error
}

// Aborter is implemented by sinks that can discard a session they began.
type Aborter interface {
	Abort(taskID string) error
}

// Multi fans out to several sinks in order.
type Multi []Sink

// Begin stops at the first failing sink and undoes the sinks already begun,
// so a taken task id can be retried without leaving a session open. Sinks
// that cannot abort are ended with status failed.
func (m Multi) Begin(s Session) error {
	for i, sink := range m {
		if err := sink.Begin(s); err != nil {
			return errors.Join(err, m[:i].undo(s, err))
		}
	}
	return nil
}

func (m Multi) undo(s Session, cause error) error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		if a, ok := m[i].(Aborter); ok {
			if err := a.Abort(s.TaskID); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		failed := s
		failed.Status = StatusFailed
		failed.Error = cause.Error()
		if err := m[i].End(failed); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordMatch(e Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.RecordMatch(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) End(s Session) error {
	var errs []error
	for _, sink := range m {
		if err := sink.End(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
