package domain

import (
	"github.com/google/uuid"
)

// FrameOutcome is what processing one frame produced: the raw per-frame
// classification, the smoothed (majority-vote) label, and whether the
// smoothed label differs from what the overlay currently shows.
type FrameOutcome struct {
	Raw      Result
	Dominant Emotion
	Changed  bool
}

// SessionState is a read-only view of one tracking session. Confidence is
// the raw confidence of the most recent classified frame.
type SessionState struct {
	Display    Emotion
	Showing    bool
	Confidence float64
	WindowLen  int
}

// Engine manages independent face-tracking sessions, one smoother each.
type Engine interface {
	CreateSession() uuid.UUID
	DeleteSession(sessionUUID uuid.UUID) error
	ProcessFrame(sessionUUID uuid.UUID, snapshot Snapshot) (FrameOutcome, error)
	ReportNoFace(sessionUUID uuid.UUID) error
	SessionState(sessionUUID uuid.UUID) (SessionState, error)
}
