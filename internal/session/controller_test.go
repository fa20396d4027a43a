package session_test

import (
	"errors"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/dns"
	"github.com/jroosing/dnsmirage/internal/packet"
	"github.com/jroosing/dnsmirage/internal/rules"
	"github.com/jroosing/dnsmirage/internal/session"
)

const waitFor = 2 * time.Second

var eth0 = capture.Identity{
	Name:  "eth0",
	Index: 2,
	MAC:   net.HardwareAddr{0x02, 0, 0, 0, 0, 0xAA},
	Addrs: []netip.Addr{netip.MustParseAddr("192.0.2.1")},
}

// =============================================================================
// Fakes
// =============================================================================

type fakeSource struct {
	frames chan capture.Frame
	closed chan struct{}
	once   sync.Once
}

func (s *fakeSource) ReadFrame() (capture.Frame, error) {
	select {
	case f, ok := <-s.frames:
		if !ok {
			return capture.Frame{}, capture.ErrNoInterfaces
		}
		return f, nil
	case <-s.closed:
		return capture.Frame{}, capture.ErrClosed
	case <-time.After(10 * time.Millisecond):
		return capture.Frame{}, capture.ErrPollTimeout
	}
}

func (s *fakeSource) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

type fakeSubstrate struct {
	ifaces    []capture.Identity
	src       *fakeSource
	source    capture.Source // overrides src when set
	listenErr error
	sent      chan []byte
	failNext  atomic.Bool
}

func newSubstrate() *fakeSubstrate {
	return &fakeSubstrate{
		ifaces: []capture.Identity{eth0},
		src:    &fakeSource{frames: make(chan capture.Frame, 16), closed: make(chan struct{})},
		sent:   make(chan []byte, 16),
	}
}

func (f *fakeSubstrate) ActiveInterfaces() ([]capture.Identity, error) { return f.ifaces, nil }

func (f *fakeSubstrate) Listen([]capture.Identity, time.Duration) (capture.Source, error) {
	if f.listenErr != nil {
		return nil, f.listenErr
	}
	if f.source != nil {
		return f.source, nil
	}
	return f.src, nil
}

func (f *fakeSubstrate) Transmit(_ capture.Identity, frame []byte, _ time.Duration) error {
	if f.failNext.CompareAndSwap(true, false) {
		return errors.New("no buffer space available")
	}
	f.sent <- frame
	return nil
}

// stuckSource blocks in ReadFrame until release is closed and ignores Close.
type stuckSource struct {
	release chan struct{}
}

func (s *stuckSource) ReadFrame() (capture.Frame, error) {
	<-s.release
	return capture.Frame{}, capture.ErrPollTimeout
}

func (s *stuckSource) Close() error { return nil }

type fakeSink struct {
	mu       sync.Mutex
	taken    map[string]bool
	begun    []audit.Session
	ended    []audit.Session
	recorded chan audit.Event
	entered  chan struct{}
	release  chan struct{}
}

func newSink() *fakeSink {
	return &fakeSink{taken: map[string]bool{}, recorded: make(chan audit.Event, 16)}
}

func (s *fakeSink) Begin(sess audit.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.taken[sess.TaskID] {
		return audit.ErrSessionExists
	}
	s.taken[sess.TaskID] = true
	s.begun = append(s.begun, sess)
	return nil
}

func (s *fakeSink) RecordMatch(e audit.Event) error {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.recorded <- e
	return nil
}

func (s *fakeSink) End(sess audit.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, sess)
	return nil
}

func (s *fakeSink) endedSessions() []audit.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Session(nil), s.ended...)
}

type ruleList []rules.Rule

func (l ruleList) FindFirstMatch(pkt rules.Fields) (rules.Rule, bool) {
	return rules.FindFirstMatch(pkt, l)
}

// =============================================================================
// Helpers
// =============================================================================

func ptr[T any](v T) *T { return &v }

func spoofRule() rules.Rule {
	return rules.Rule{
		ID:      "r1",
		Name:    "spoof",
		Enabled: true,
		Trigger: rules.Trigger{DNS: &rules.DNSMatch{QName: "example.com", QType: ptr(uint16(dns.TypeA))}},
		Action: rules.Action{
			Answers: []rules.RecordSpec{{Type: uint16(dns.TypeA), TTL: 60, RData: "1.2.3.4", Mode: rules.ModeCustom}},
		},
	}
}

// unsendableRule answers bad.example from an IPv6 source, which cannot be
// framed for an IPv4 query.
func unsendableRule() rules.Rule {
	r := spoofRule()
	r.ID = "r0"
	r.Name = "unsendable"
	r.Trigger.DNS.QName = "bad.example"
	r.Action.L3.SrcIP = rules.Custom("2001:db8::1")
	return r
}

func frameTo(t *testing.T, dst string, flags uint16) capture.Frame {
	t.Helper()
	return frameFor(t, "example.com", dst, flags)
}

func frameFor(t *testing.T, qname, dst string, flags uint16) capture.Frame {
	t.Helper()
	payload, err := dns.Packet{
		Header:    dns.Header{ID: 0x1234, Flags: flags},
		Questions: []dns.Question{{Name: qname, Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)}},
	}.Marshal()
	require.NoError(t, err)

	raw, err := packet.Frame{
		SrcMAC:  net.HardwareAddr{0x02, 0, 0, 0, 0, 0x10},
		DstMAC:  eth0.MAC,
		SrcIP:   netip.MustParseAddr("192.0.2.10"),
		DstIP:   netip.MustParseAddr(dst),
		TTL:     64,
		SrcPort: 40000,
		DstPort: 53,
		Payload: payload,
	}.Serialize()
	require.NoError(t, err)
	return capture.Frame{Iface: eth0, Data: raw, At: time.Now()}
}

func newController(sub *fakeSubstrate, sink *fakeSink) *session.Controller {
	return session.NewController(session.Config{PollInterval: 10 * time.Millisecond}, nil, sub, ruleList{spoofRule()}, sink)
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestStartTwiceIsStateError(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	_, err = c.Start(t.Context())
	require.ErrorIs(t, err, session.ErrSessionState)
	assert.ErrorIs(t, err, session.ErrAlreadyRunning)

	require.NoError(t, c.Stop())
	st := c.Status()
	assert.Equal(t, "idle", st.State)
	require.NotNil(t, st.Session)
	assert.Equal(t, audit.StatusStopped, st.Session.Status)
	assert.False(t, st.Session.StoppedAt.IsZero())
	assert.Len(t, sink.endedSessions(), 1)
}

func TestStopWhenIdle(t *testing.T) {
	c := newController(newSubstrate(), newSink())

	err := c.Stop()
	require.ErrorIs(t, err, session.ErrNotRunning)
	assert.ErrorIs(t, err, session.ErrSessionState)
}

func TestRestartAfterStop(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)
	require.NoError(t, c.Stop())

	sub.src = &fakeSource{frames: make(chan capture.Frame, 1), closed: make(chan struct{})}
	_, err = c.Start(t.Context())
	require.NoError(t, err)
	require.NoError(t, c.Stop())
	assert.Len(t, sink.endedSessions(), 2)
}

func TestStopTimeoutKeepsStoppingUntilLoopExits(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	stuck := &stuckSource{release: make(chan struct{})}
	sub.source = stuck
	c := session.NewController(session.Config{PollInterval: 10 * time.Millisecond, StopTimeout: 20 * time.Millisecond}, nil, sub, ruleList{spoofRule()}, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	require.ErrorIs(t, c.Stop(), session.ErrStopTimeout)
	assert.Equal(t, "stopping", c.Status().State)
	assert.Empty(t, sink.endedSessions())

	_, err = c.Start(t.Context())
	require.ErrorIs(t, err, session.ErrStopping)
	assert.ErrorIs(t, err, session.ErrSessionState)
	assert.NotErrorIs(t, err, session.ErrAlreadyRunning)

	err = c.Stop()
	require.ErrorIs(t, err, session.ErrNotRunning)

	close(stuck.release)
	c.Wait()

	st := c.Status()
	assert.Equal(t, "idle", st.State)
	require.NotNil(t, st.Session)
	assert.Equal(t, audit.StatusStopped, st.Session.Status)
	require.Len(t, sink.endedSessions(), 1)

	sub.source = nil
	_, err = c.Start(t.Context())
	require.NoError(t, err)
	require.NoError(t, c.Stop())
}

func TestTaskIDSuffixOnCollision(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)
	c.SetClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local) })
	sink.taken["20250102030405"] = true
	sink.taken["20250102030405-1"] = true

	sess, err := c.Start(t.Context())
	require.NoError(t, err)
	defer c.Stop()

	assert.Equal(t, "20250102030405-2", sess.TaskID)
	assert.Equal(t, []string{"eth0"}, sess.Interfaces)
}

func TestStartWithUnknownInterface(t *testing.T) {
	sub := newSubstrate()
	c := newController(sub, newSink())
	c.SetInterfaces([]string{"wlan9"})

	_, err := c.Start(t.Context())
	require.ErrorIs(t, err, capture.ErrNoInterfaces)
	assert.Equal(t, "idle", c.Status().State)
}

func TestListenFailureRecordsFailedSession(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	sub.listenErr = errors.New("operation not permitted")
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.Error(t, err)

	st := c.Status()
	assert.Equal(t, "idle", st.State)
	require.NotNil(t, st.Session)
	assert.Equal(t, audit.StatusFailed, st.Session.Status)
	assert.Contains(t, st.Session.Error, "operation not permitted")
}

func TestSourceFailureEndsSession(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	close(sub.src.frames)
	c.Wait()

	st := c.Status()
	assert.Equal(t, "idle", st.State)
	require.NotNil(t, st.Session)
	assert.Equal(t, audit.StatusFailed, st.Session.Status)
	assert.Contains(t, st.Session.Error, "no active interfaces")
	require.ErrorIs(t, c.Stop(), session.ErrNotRunning)
}

// =============================================================================
// Dispatch
// =============================================================================

func TestMatchedQueryIsAnswered(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)

	sess, err := c.Start(t.Context())
	require.NoError(t, err)

	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)

	out := receive(t, sub.sent)
	resp, err := packet.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), resp.Msg.Header.ID)
	assert.True(t, resp.Msg.Header.IsResponse())
	require.Len(t, resp.Msg.Answers, 1)
	ip, ok := resp.Msg.Answers[0].(*dns.IPRecord)
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", ip.Addr.String())

	ev := receive(t, sink.recorded)
	assert.Equal(t, sess.TaskID, ev.TaskID)
	assert.Equal(t, "spoof", ev.RuleName)
	assert.Equal(t, "example.com", ev.QName)
	assert.Equal(t, uint16(dns.TypeA), ev.QType)
	assert.Equal(t, out, ev.Response)

	require.NoError(t, c.Stop())
	ended := sink.endedSessions()
	require.Len(t, ended, 1)
	assert.Equal(t, uint64(1), ended[0].Matches)

	stats := c.Stats().Snapshot()
	assert.Equal(t, uint64(1), stats.QueriesTotal)
	assert.Equal(t, uint64(1), stats.ResponsesSent)
}

func TestNonLocalAndResponsesAreFiltered(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)
	defer c.Stop()

	sub.src.frames <- frameTo(t, "198.51.100.7", dns.RDFlag)
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.QRFlag|dns.RDFlag)
	sub.src.frames <- capture.Frame{Iface: eth0, Data: []byte{0xde, 0xad}}
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)

	receive(t, sub.sent)

	stats := c.Stats().Snapshot()
	assert.Equal(t, uint64(4), stats.FramesTotal)
	assert.Equal(t, uint64(3), stats.FramesFiltered)
	assert.Equal(t, uint64(1), stats.ResponsesSent)
	assert.Empty(t, sub.sent)
}

func TestSynthesisErrorKeepsLoopRunning(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := session.NewController(session.Config{PollInterval: 10 * time.Millisecond}, nil, sub, ruleList{unsendableRule(), spoofRule()}, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	sub.src.frames <- frameFor(t, "bad.example", "192.0.2.1", dns.RDFlag)
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)

	out := receive(t, sub.sent)
	resp, err := packet.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "example.com", resp.QName())

	require.NoError(t, c.Stop())
	stats := c.Stats().Snapshot()
	assert.Equal(t, uint64(2), stats.RulesMatched)
	assert.Equal(t, uint64(1), stats.SynthErrors)
	assert.Equal(t, uint64(1), stats.ResponsesSent)
	assert.Equal(t, uint64(1), c.Status().Session.Matches)

	ended := sink.endedSessions()
	require.Len(t, ended, 1)
	assert.Equal(t, audit.StatusStopped, ended[0].Status)
	assert.Equal(t, uint64(1), ended[0].Matches)
	require.Len(t, sink.recorded, 1)
	assert.Equal(t, "spoof", (<-sink.recorded).RuleName)
}

func TestTransmitErrorKeepsLoopRunning(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	sub.failNext.Store(true)
	c := newController(sub, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)

	receive(t, sub.sent)

	require.NoError(t, c.Stop())
	stats := c.Stats().Snapshot()
	assert.Equal(t, uint64(2), stats.RulesMatched)
	assert.Equal(t, uint64(1), stats.TransmitErrors)
	assert.Equal(t, uint64(1), stats.ResponsesSent)

	ended := sink.endedSessions()
	require.Len(t, ended, 1)
	assert.Equal(t, audit.StatusStopped, ended[0].Status)
	assert.Equal(t, uint64(1), ended[0].Matches)
	assert.Len(t, sink.recorded, 1)
	assert.Empty(t, sub.sent)
}

func TestUnmatchedQueryIsIgnored(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	c := session.NewController(session.Config{PollInterval: 10 * time.Millisecond}, nil, sub, ruleList{}, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)
	require.Eventually(t, func() bool {
		return c.Stats().Snapshot().QueriesTotal == 1
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, c.Stop())
	assert.Empty(t, sub.sent)
	assert.Equal(t, uint64(0), c.Status().Session.Matches)
}

func TestAuditQueueOverflowDrops(t *testing.T) {
	sub, sink := newSubstrate(), newSink()
	sink.entered = make(chan struct{}, 1)
	sink.release = make(chan struct{})
	c := session.NewController(session.Config{PollInterval: 10 * time.Millisecond, AuditQueueSize: 1}, nil, sub, ruleList{spoofRule()}, sink)

	_, err := c.Start(t.Context())
	require.NoError(t, err)

	// The writer blocks inside the first RecordMatch.
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)
	receive(t, sub.sent)
	receive(t, sink.entered)

	// The second event fills the queue and the third is dropped.
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)
	receive(t, sub.sent)
	sub.src.frames <- frameTo(t, "192.0.2.1", dns.RDFlag)
	receive(t, sub.sent)

	require.Eventually(t, func() bool {
		return c.Stats().Snapshot().AuditDropped == 1
	}, waitFor, 5*time.Millisecond)

	close(sink.release)
	require.NoError(t, c.Stop())
	assert.Len(t, sink.recorded, 2)
}
