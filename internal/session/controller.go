// Package session runs capture sessions: it receives DNS queries from the
// capture substrate, matches them against the rule set and transmits the
// synthesized responses.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jroosing/dnsmirage/internal/audit"
	"github.com/jroosing/dnsmirage/internal/capture"
	"github.com/jroosing/dnsmirage/internal/packet"
	"github.com/jroosing/dnsmirage/internal/rules"
	"github.com/jroosing/dnsmirage/internal/synth"
)

var (
	// ErrSessionState is returned when an operation is not valid in the
	// controller's current state.
	ErrSessionState = errors.New("session: invalid state")

	ErrAlreadyRunning = fmt.Errorf("%w: capture already running", ErrSessionState)
	ErrNotRunning     = fmt.Errorf("%w: capture not running", ErrSessionState)
	ErrStopping       = fmt.Errorf("%w: capture is stopping", ErrSessionState)

	// ErrStopTimeout is returned by Stop when the dispatch loop did not exit
	// in time. The controller still returns to Idle once it does.
	ErrStopTimeout = errors.New("session: timed out waiting for capture to stop")

	// ErrTransmit wraps substrate transmit failures.
	ErrTransmit = errors.New("session: transmit failed")
)

// Defaults applied by NewController to zero Config fields.
const (
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultStopTimeout     = 5 * time.Second
	DefaultTransmitTimeout = time.Second
	DefaultAuditQueueSize  = 256
)

const taskIDLayout = "20060102150405"

// maxTaskIDAttempts bounds the -N suffix search for a free task id.
const maxTaskIDAttempts = 1000

// State is the controller lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Config controls capture sessions.
type Config struct {
	// Interfaces restricts capture to the named interfaces. Empty means
	// every active interface.
	Interfaces      []string
	PollInterval    time.Duration
	StopTimeout     time.Duration
	TransmitTimeout time.Duration
	AuditQueueSize  int
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.TransmitTimeout <= 0 {
		c.TransmitTimeout = DefaultTransmitTimeout
	}
	if c.AuditQueueSize <= 0 {
		c.AuditQueueSize = DefaultAuditQueueSize
	}
	return c
}

// Matcher selects the rule that answers a packet.
type Matcher interface {
	FindFirstMatch(pkt rules.Fields) (rules.Rule, bool)
}

// Status is a snapshot of the controller.
type Status struct {
	State   string         `json:"state"`
	Running bool           `json:"running"`
	Session *audit.Session `json:"session,omitempty"`
	Stats   StatsSnapshot  `json:"stats"`
}

// Controller owns at most one capture session at a time.
type Controller struct {
	cfg       Config
	logger    *slog.Logger
	substrate capture.Substrate
	matcher   Matcher
	sink      audit.Sink
	stats     *Stats
	now       func() time.Time

	mu     sync.Mutex
	state  State
	active *run
	last   *audit.Session
}

// NewController creates an idle controller.
func NewController(cfg Config, logger *slog.Logger, substrate capture.Substrate, matcher Matcher, sink audit.Sink) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:       cfg.withDefaults(),
		logger:    logger,
		substrate: substrate,
		matcher:   matcher,
		sink:      sink,
		stats:     NewStats(),
		now:       time.Now,
	}
}

// SetInterfaces changes the interfaces used by the next session.
func (c *Controller) SetInterfaces(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Interfaces = append([]string(nil), names...)
}

// Stats returns the controller's statistics collector.
func (c *Controller) Stats() *Stats {
	return c.stats
}

// run is the state of one capture session.
type run struct {
	session audit.Session
	ifaces  []capture.Identity
	source  capture.Source
	cancel  context.CancelFunc
	done    chan struct{}
	events  chan audit.Event
	matches atomic.Uint64
	logger  *slog.Logger
}

// Start opens a new capture session and begins answering queries. The
// session runs until Stop is called or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) (audit.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		return audit.Session{}, ErrAlreadyRunning
	case Stopping:
		return audit.Session{}, ErrStopping
	}

	active, err := c.substrate.ActiveInterfaces()
	if err != nil {
		return audit.Session{}, fmt.Errorf("list interfaces: %w", err)
	}
	ifaces, err := capture.Select(active, c.cfg.Interfaces)
	if err != nil {
		return audit.Session{}, err
	}

	sess, err := c.begin(ifaces)
	if err != nil {
		return audit.Session{}, err
	}
	logger := c.logger.With("task_id", sess.TaskID)

	src, err := c.substrate.Listen(ifaces, c.cfg.PollInterval)
	if err != nil {
		sess.Status = audit.StatusFailed
		sess.Error = err.Error()
		sess.StoppedAt = c.now()
		if endErr := c.sink.End(sess); endErr != nil {
			logger.Warn("failed to close session record", "err", endErr)
		}
		c.last = &sess
		return sess, fmt.Errorf("listen: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		session: sess,
		ifaces:  ifaces,
		source:  src,
		cancel:  cancel,
		done:    make(chan struct{}),
		events:  make(chan audit.Event, c.cfg.AuditQueueSize),
		logger:  logger,
	}
	c.active = r
	c.state = Running

	go c.dispatch(runCtx, r)

	logger.Info("capture started", "interfaces", sess.Interfaces)
	return sess, nil
}

// begin records a new session, suffixing the time-derived task id when it
// is already taken.
func (c *Controller) begin(ifaces []capture.Identity) (audit.Session, error) {
	created := c.now()
	names := make([]string, len(ifaces))
	for i, id := range ifaces {
		names[i] = id.Name
	}

	base := created.Format(taskIDLayout)
	id := base
	for attempt := 1; attempt <= maxTaskIDAttempts; attempt++ {
		sess := audit.Session{
			TaskID:     id,
			CreatedAt:  created,
			Status:     audit.StatusRunning,
			Interfaces: names,
		}
		err := c.sink.Begin(sess)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, audit.ErrSessionExists) {
			return audit.Session{}, fmt.Errorf("begin session: %w", err)
		}
		id = base + "-" + strconv.Itoa(attempt)
	}
	return audit.Session{}, fmt.Errorf("begin session: %w", audit.ErrSessionExists)
}

// Stop ends the running session and waits for the dispatch loop to exit.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.state = Stopping
	r := c.active
	c.mu.Unlock()

	r.cancel()

	t := time.NewTimer(c.cfg.StopTimeout)
	defer t.Stop()
	select {
	case <-r.done:
		return nil
	case <-t.C:
		return ErrStopTimeout
	}
}

// Wait blocks until the current session, if any, has fully stopped.
func (c *Controller) Wait() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r != nil {
		<-r.done
	}
}

// Status reports the controller state, the current or most recent session
// and the capture counters.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		State:   c.state.String(),
		Running: c.state == Running,
		Stats:   c.stats.Snapshot(),
	}
	switch {
	case c.active != nil:
		sess := c.active.session
		sess.Matches = c.active.matches.Load()
		st.Session = &sess
	case c.last != nil:
		sess := *c.last
		st.Session = &sess
	}
	return st
}

// ActiveTaskID returns the task id of the running session.
func (c *Controller) ActiveTaskID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", false
	}
	return c.active.session.TaskID, true
}

func (c *Controller) dispatch(ctx context.Context, r *run) {
	defer close(r.done)

	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		c.writeAudit(r)
	}()

	failure := c.loop(ctx, r)

	if err := r.source.Close(); err != nil {
		r.logger.Debug("close capture source", "err", err)
	}
	close(r.events)
	writer.Wait()

	sess := r.session
	sess.StoppedAt = c.now()
	sess.Matches = r.matches.Load()
	sess.Status = audit.StatusStopped
	if failure != nil {
		sess.Status = audit.StatusFailed
		sess.Error = failure.Error()
		r.logger.Error("capture failed", "err", failure)
	} else {
		r.logger.Info("capture stopped", "matches", sess.Matches)
	}
	if err := c.sink.End(sess); err != nil {
		r.logger.Warn("failed to close session record", "err", err)
	}

	c.mu.Lock()
	c.state = Idle
	c.active = nil
	c.last = &sess
	c.mu.Unlock()
	r.cancel()
}

// loop reads frames until ctx is cancelled or the source fails.
func (c *Controller) loop(ctx context.Context, r *run) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fr, err := r.source.ReadFrame()
		switch {
		case err == nil:
			c.handle(r, fr)
		case errors.Is(err, capture.ErrPollTimeout):
		case errors.Is(err, capture.ErrClosed) && ctx.Err() != nil:
			return nil
		default:
			return err
		}
	}
}

func (c *Controller) handle(r *run, fr capture.Frame) {
	c.stats.RecordFrame()

	q, err := packet.Decode(fr.Data)
	if err != nil {
		c.stats.RecordFiltered()
		return
	}
	dst, ok := q.DstIP()
	if !ok || !q.Msg.Header.IsQuery() {
		c.stats.RecordFiltered()
		return
	}
	local, ok := capture.Owner(r.ifaces, dst)
	if !ok {
		c.stats.RecordFiltered()
		return
	}
	c.stats.RecordQuery()

	rule, ok := c.matcher.FindFirstMatch(q)
	if !ok {
		return
	}
	c.stats.RecordMatch()

	resp, err := synth.Synthesize(q, rule, local)
	if err != nil {
		c.stats.RecordSynthError()
		r.logger.Warn("response synthesis failed", "rule", rule.Name, "qname", q.QName(), "err", err)
		return
	}
	if err := c.substrate.Transmit(fr.Iface, resp.Frame, c.cfg.TransmitTimeout); err != nil {
		c.stats.RecordTransmitError()
		r.logger.Warn("response not sent", "rule", rule.Name, "iface", fr.Iface.Name, "err", fmt.Errorf("%w: %w", ErrTransmit, err))
		return
	}
	r.matches.Add(1)
	sent := c.now()
	var latency int64
	if !fr.At.IsZero() {
		latency = sent.Sub(fr.At).Nanoseconds()
	}
	c.stats.RecordResponse(latency)

	question, _ := q.Question()
	r.logger.Info("rule triggered", "rule", rule.Name, "qname", q.QName(), "iface", fr.Iface.Name)

	ev := audit.Event{
		TaskID:   r.session.TaskID,
		At:       sent,
		RuleID:   rule.ID,
		RuleName: rule.Name,
		QName:    q.QName(),
		QType:    question.Type,
		Iface:    fr.Iface.Name,
		Query:    fr.Data,
		Response: resp.Frame,
	}
	select {
	case r.events <- ev:
	default:
		c.stats.RecordAuditDropped()
		r.logger.Warn("audit queue full, dropping event", "rule", rule.Name, "qname", ev.QName)
	}
}

func (c *Controller) writeAudit(r *run) {
	for ev := range r.events {
		if err := c.sink.RecordMatch(ev); err != nil {
			c.stats.RecordAuditError()
			r.logger.Warn("failed to record match", "err", err)
		}
	}
}
