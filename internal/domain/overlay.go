package domain

// Overlay status values pushed to UI clients.
const (
	StatusActive    = "active"
	StatusSearching = "searching"
)

// OverlayUpdate is the payload pushed to overlay clients. Emotion is nil when
// no face is tracked (status "searching"), so overlays can blank the display.
type OverlayUpdate struct {
	Emotion    *Emotion `json:"emotion,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Status     string   `json:"status"`
}

// ActiveUpdate builds the payload for a tracked face.
func ActiveUpdate(emotion Emotion, confidence float64) OverlayUpdate {
	return OverlayUpdate{Emotion: &emotion, Confidence: confidence, Status: StatusActive}
}

// SearchingUpdate builds the payload for a lost face.
func SearchingUpdate() OverlayUpdate {
	return OverlayUpdate{Status: StatusSearching}
}
