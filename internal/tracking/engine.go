// Package tracking runs the per-session classification pipeline. Each
// face-tracking session owns one smoother and one display gate; all mutation
// goes through a single actor goroutine, so the smoothers never see
// concurrent callers.
package tracking

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/facepulse/facepulse/internal/classifier"
	"github.com/facepulse/facepulse/internal/domain"
	"github.com/facepulse/facepulse/internal/metrics"
	"github.com/facepulse/facepulse/internal/smoothing"
)

const tickInterval = 10 * time.Second

// Broadcaster pushes overlay updates for a session. Implemented by the
// websocket hub; injected late via SetBroadcaster to break the construction
// cycle between engine and hub.
type Broadcaster interface {
	Broadcast(sessionUUID uuid.UUID, update domain.OverlayUpdate)
	CloseSession(sessionUUID uuid.UUID)
}

// --- Command types ---

type engineCmd interface{ engineCmd() }

type cmdCreateSession struct {
	replyCh chan uuid.UUID
}

func (cmdCreateSession) engineCmd() {}

type cmdDeleteSession struct {
	sessionUUID uuid.UUID
	replyCh     chan error
}

func (cmdDeleteSession) engineCmd() {}

type cmdProcessFrame struct {
	sessionUUID uuid.UUID
	snapshot    domain.Snapshot
	replyCh     chan frameReply
}

func (cmdProcessFrame) engineCmd() {}

type frameReply struct {
	outcome domain.FrameOutcome
	err     error
}

type cmdReportNoFace struct {
	sessionUUID uuid.UUID
	replyCh     chan error
}

func (cmdReportNoFace) engineCmd() {}

type cmdSessionState struct {
	sessionUUID uuid.UUID
	replyCh     chan stateReply
}

func (cmdSessionState) engineCmd() {}

type stateReply struct {
	state domain.SessionState
	err   error
}

type cmdTick struct{}

func (cmdTick) engineCmd() {}

type cmdSetBroadcaster struct {
	b Broadcaster
}

func (cmdSetBroadcaster) engineCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) engineCmd() {}

// --- Session state ---

type session struct {
	smoother       *smoothing.Smoother
	gate           *smoothing.DisplayGate
	lastSeen       time.Time
	lastConfidence float64
}

// --- Engine ---

type Engine struct {
	cmdCh       chan engineCmd
	clock       clockwork.Clock
	windowSize  int
	idleTimeout time.Duration
	sessions    map[uuid.UUID]*session
	broadcaster Broadcaster
	stopCh      chan struct{}
}

func NewEngine(clock clockwork.Clock, windowSize int, idleTimeout time.Duration) *Engine {
	return &Engine{
		cmdCh:       make(chan engineCmd, 512),
		clock:       clock,
		windowSize:  windowSize,
		idleTimeout: idleTimeout,
		sessions:    make(map[uuid.UUID]*session),
		stopCh:      make(chan struct{}),
	}
}

// SetBroadcaster sets the overlay broadcaster. Must be called before Start().
func (e *Engine) SetBroadcaster(b Broadcaster) {
	e.cmdCh <- cmdSetBroadcaster{b: b}
}

// Start begins the engine's background goroutines (ticker and actor).
func (e *Engine) Start() {
	go e.tickerLoop()
	go e.run()
}

func (e *Engine) run() {
	for cmd := range e.cmdCh {
		switch c := cmd.(type) {
		case cmdSetBroadcaster:
			e.broadcaster = c.b

		case cmdCreateSession:
			id := uuid.New()
			e.sessions[id] = &session{
				smoother: smoothing.NewSmoother(e.windowSize),
				gate:     smoothing.NewDisplayGate(),
				lastSeen: e.clock.Now(),
			}
			metrics.ActiveSessions.Set(float64(len(e.sessions)))
			slog.Info("Session created", "session_uuid", id.String())
			c.replyCh <- id

		case cmdDeleteSession:
			c.replyCh <- e.handleDeleteSession(c.sessionUUID)

		case cmdProcessFrame:
			outcome, err := e.handleProcessFrame(c.sessionUUID, c.snapshot)
			c.replyCh <- frameReply{outcome: outcome, err: err}

		case cmdReportNoFace:
			c.replyCh <- e.handleReportNoFace(c.sessionUUID)

		case cmdSessionState:
			state, err := e.handleSessionState(c.sessionUUID)
			c.replyCh <- stateReply{state: state, err: err}

		case cmdTick:
			e.handleTick()

		case cmdStop:
			close(e.stopCh)
			close(c.doneCh)
			return
		}
	}
}

func (e *Engine) handleDeleteSession(id uuid.UUID) error {
	if _, exists := e.sessions[id]; !exists {
		return domain.ErrSessionNotFound
	}
	delete(e.sessions, id)
	metrics.ActiveSessions.Set(float64(len(e.sessions)))
	if e.broadcaster != nil {
		e.broadcaster.CloseSession(id)
	}
	slog.Info("Session deleted", "session_uuid", id.String())
	return nil
}

func (e *Engine) handleProcessFrame(id uuid.UUID, snapshot domain.Snapshot) (domain.FrameOutcome, error) {
	sess, exists := e.sessions[id]
	if !exists {
		return domain.FrameOutcome{}, domain.ErrSessionNotFound
	}

	start := time.Now()
	raw := classifier.Classify(snapshot)
	metrics.ClassifyDuration.Observe(time.Since(start).Seconds())
	metrics.ClassificationsTotal.WithLabelValues(raw.Emotion.String()).Inc()
	metrics.FramesTotal.WithLabelValues("classified").Inc()

	dominant := sess.smoother.Observe(raw.Emotion)
	changed := sess.gate.Update(dominant)
	sess.lastSeen = e.clock.Now()
	sess.lastConfidence = raw.Confidence

	if changed {
		metrics.EmotionChangesTotal.Inc()
		if e.broadcaster != nil {
			e.broadcaster.Broadcast(id, domain.ActiveUpdate(dominant, raw.Confidence))
		}
	}

	return domain.FrameOutcome{Raw: raw, Dominant: dominant, Changed: changed}, nil
}

func (e *Engine) handleReportNoFace(id uuid.UUID) error {
	sess, exists := e.sessions[id]
	if !exists {
		return domain.ErrSessionNotFound
	}

	metrics.FramesTotal.WithLabelValues("no_face").Inc()

	// Only notify overlays on the transition into the searching state;
	// every further no-face frame is redundant.
	if _, showing := sess.gate.Current(); showing && e.broadcaster != nil {
		e.broadcaster.Broadcast(id, domain.SearchingUpdate())
	}

	sess.smoother.Reset()
	sess.gate.Reset()
	sess.lastSeen = e.clock.Now()
	sess.lastConfidence = 0
	return nil
}

func (e *Engine) handleSessionState(id uuid.UUID) (domain.SessionState, error) {
	sess, exists := e.sessions[id]
	if !exists {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	display, showing := sess.gate.Current()
	return domain.SessionState{
		Display:    display,
		Showing:    showing,
		Confidence: sess.lastConfidence,
		WindowLen:  sess.smoother.Len(),
	}, nil
}

func (e *Engine) handleTick() {
	now := e.clock.Now()
	for id, sess := range e.sessions {
		if now.Sub(sess.lastSeen) <= e.idleTimeout {
			continue
		}
		delete(e.sessions, id)
		metrics.SessionsPrunedTotal.Inc()
		if e.broadcaster != nil {
			e.broadcaster.CloseSession(id)
		}
		slog.Info("Idle session pruned", "session_uuid", id.String())
	}
	metrics.ActiveSessions.Set(float64(len(e.sessions)))
}

func (e *Engine) tickerLoop() {
	ticker := e.clock.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			e.cmdCh <- cmdTick{}
		case <-e.stopCh:
			return
		}
	}
}

// --- Public API ---

func (e *Engine) CreateSession() uuid.UUID {
	replyCh := make(chan uuid.UUID, 1)
	e.cmdCh <- cmdCreateSession{replyCh: replyCh}
	return <-replyCh
}

func (e *Engine) DeleteSession(sessionUUID uuid.UUID) error {
	replyCh := make(chan error, 1)
	e.cmdCh <- cmdDeleteSession{sessionUUID: sessionUUID, replyCh: replyCh}
	return <-replyCh
}

func (e *Engine) ProcessFrame(sessionUUID uuid.UUID, snapshot domain.Snapshot) (domain.FrameOutcome, error) {
	replyCh := make(chan frameReply, 1)
	e.cmdCh <- cmdProcessFrame{sessionUUID: sessionUUID, snapshot: snapshot, replyCh: replyCh}
	reply := <-replyCh
	return reply.outcome, reply.err
}

func (e *Engine) ReportNoFace(sessionUUID uuid.UUID) error {
	replyCh := make(chan error, 1)
	e.cmdCh <- cmdReportNoFace{sessionUUID: sessionUUID, replyCh: replyCh}
	return <-replyCh
}

func (e *Engine) SessionState(sessionUUID uuid.UUID) (domain.SessionState, error) {
	replyCh := make(chan stateReply, 1)
	e.cmdCh <- cmdSessionState{sessionUUID: sessionUUID, replyCh: replyCh}
	reply := <-replyCh
	return reply.state, reply.err
}

func (e *Engine) Stop() {
	doneCh := make(chan struct{})
	e.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
