package domain

// Snapshot holds the blend-shape activations for a single video frame, keyed
// by channel name (ARKit/MediaPipe convention, e.g. "mouthSmileLeft").
// Scores are conventionally in [0,1] but the classifier does not rely on that.
// A Snapshot lives for one frame and is owned by the caller; the classifier
// never retains it.
type Snapshot map[string]float64

// Result is a single classification outcome. Confidence is always in [0,1].
// Results are built fresh per call and never retained by the classifier.
type Result struct {
	Emotion    Emotion `json:"emotion"`
	Confidence float64 `json:"confidence"`
}
