package models

import (
	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/database"
)

// SessionListResponse lists capture sessions, newest first.
type SessionListResponse struct {
	Sessions []audit.Session `json:"sessions"`
	Count    int             `json:"count"`
}

// SessionDetailsResponse describes one capture session.
type SessionDetailsResponse struct {
	Session    audit.Session           `json:"session"`
	LogContent string                  `json:"log_content"`
	PcapFiles  []string                `json:"pcap_files"`
	Events     []database.SessionEvent `json:"events"`
}
