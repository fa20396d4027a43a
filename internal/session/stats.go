package session

import (
	"sync/atomic"
)

// Stats collects capture statistics across sessions.
// All methods are safe for concurrent use.
type Stats struct {
	framesTotal    atomic.Uint64
	framesFiltered atomic.Uint64
	queriesTotal   atomic.Uint64
	rulesMatched   atomic.Uint64
	responsesSent  atomic.Uint64
	synthErrors    atomic.Uint64
	transmitErrors atomic.Uint64
	auditDropped   atomic.Uint64
	auditErrors    atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{}
}

// RecordFrame records a frame delivered by the capture source.
func (s *Stats) RecordFrame() {
	s.framesTotal.Add(1)
}

// RecordFiltered records a frame dropped before matching: not DNS, not a
// query, or not addressed to a local interface.
func (s *Stats) RecordFiltered() {
	s.framesFiltered.Add(1)
}

// RecordQuery records a DNS query that was evaluated against the rules.
func (s *Stats) RecordQuery() {
	s.queriesTotal.Add(1)
}

// RecordMatch records a query that triggered a rule.
func (s *Stats) RecordMatch() {
	s.rulesMatched.Add(1)
}

// RecordResponse records a transmitted response and the time taken from
// frame receipt to transmission.
func (s *Stats) RecordResponse(ns int64) {
	s.responsesSent.Add(1)
	if ns > 0 {
		s.latencyTotalNs.Add(uint64(ns))
	}
}

func (s *Stats) RecordSynthError() {
	s.synthErrors.Add(1)
}

func (s *Stats) RecordTransmitError() {
	s.transmitErrors.Add(1)
}

// RecordAuditDropped records an audit event lost to a full queue.
func (s *Stats) RecordAuditDropped() {
	s.auditDropped.Add(1)
}

func (s *Stats) RecordAuditError() {
	s.auditErrors.Add(1)
}

// StatsSnapshot is a point-in-time snapshot of capture statistics.
type StatsSnapshot struct {
	FramesTotal    uint64  `json:"frames_total"`
	FramesFiltered uint64  `json:"frames_filtered"`
	QueriesTotal   uint64  `json:"queries_total"`
	RulesMatched   uint64  `json:"rules_matched"`
	ResponsesSent  uint64  `json:"responses_sent"`
	SynthErrors    uint64  `json:"synth_errors"`
	TransmitErrors uint64  `json:"transmit_errors"`
	AuditDropped   uint64  `json:"audit_dropped"`
	AuditErrors    uint64  `json:"audit_errors"`
	AvgResponseMs  float64 `json:"avg_response_ms"`
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() StatsSnapshot {
	sent := s.responsesSent.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgMs := 0.0
	if sent > 0 {
		avgMs = float64(latencyNs) / float64(sent) / 1e6
	}

	return StatsSnapshot{
		FramesTotal:    s.framesTotal.Load(),
		FramesFiltered: s.framesFiltered.Load(),
		QueriesTotal:   s.queriesTotal.Load(),
		RulesMatched:   s.rulesMatched.Load(),
		ResponsesSent:  sent,
		SynthErrors:    s.synthErrors.Load(),
		TransmitErrors: s.transmitErrors.Load(),
		AuditDropped:   s.auditDropped.Load(),
		AuditErrors:    s.auditErrors.Load(),
		AvgResponseMs:  avgMs,
	}
}
