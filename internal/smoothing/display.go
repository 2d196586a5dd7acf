package smoothing

import "github.com/facepulse/facepulse/internal/domain"

// DisplayGate tracks the emotion last pushed to the overlay and answers
// whether a newly smoothed label actually requires a UI update. Kept separate
// from the Smoother so the voting structure stays independently testable.
type DisplayGate struct {
	current domain.Emotion
	showing bool
}

func NewDisplayGate() *DisplayGate {
	return &DisplayGate{}
}

// Update records the smoothed label and reports whether it differs from what
// the overlay currently shows. The first Update after construction or Reset
// always reports a change.
func (g *DisplayGate) Update(emotion domain.Emotion) bool {
	if g.showing && g.current == emotion {
		return false
	}
	g.current = emotion
	g.showing = true
	return true
}

// Reset forgets the displayed emotion, so the next Update fires again.
func (g *DisplayGate) Reset() {
	g.showing = false
}

// Current returns the displayed emotion and whether anything is shown.
func (g *DisplayGate) Current() (domain.Emotion, bool) {
	return g.current, g.showing
}
