package models

import "github.com/jroosing/dnsmirage/internal/audit"

// ControlResponse reports the outcome of a start or stop request.
type ControlResponse struct {
	Status  string         `json:"status"`
	Session *audit.Session `json:"session,omitempty"`
}
