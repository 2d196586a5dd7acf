// Package smoothing turns the noisy per-frame label stream into a stable
// display label: a sliding-window majority vote plus a change gate that
// suppresses redundant downstream updates.
package smoothing

import (
	"github.com/facepulse/facepulse/internal/domain"
)

// DefaultWindowSize is the number of raw labels the majority vote spans.
const DefaultWindowSize = 8

// Smoother keeps a fixed-size FIFO of the most recent raw emotions and
// reports the dominant one. It is not safe for concurrent use; the engine
// serializes all access (one Smoother per tracking session).
type Smoother struct {
	window []domain.Emotion
	head   int // index of the oldest entry
	size   int
}

func NewSmoother(windowSize int) *Smoother {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Smoother{window: make([]domain.Emotion, windowSize)}
}

// Observe pushes a raw label into the window, evicting the oldest entry once
// the window is full, and returns the dominant label. Ties resolve to the
// emotion that appears earliest in the window's chronological order.
func (s *Smoother) Observe(emotion domain.Emotion) domain.Emotion {
	if s.size < len(s.window) {
		s.window[(s.head+s.size)%len(s.window)] = emotion
		s.size++
	} else {
		s.window[s.head] = emotion
		s.head = (s.head + 1) % len(s.window)
	}
	return s.Dominant()
}

// Dominant returns the most frequent emotion in the window. The window is
// never empty when called through Observe; on an empty window it returns
// neutral as a harmless default.
func (s *Smoother) Dominant() domain.Emotion {
	if s.size == 0 {
		return domain.Neutral
	}

	counts := make(map[domain.Emotion]int, len(domain.Emotions))
	for i := 0; i < s.size; i++ {
		counts[s.at(i)]++
	}

	// Scan oldest to newest so ties go to the earliest-appearing emotion.
	best := s.at(0)
	bestCount := counts[best]
	for i := 1; i < s.size; i++ {
		if c := counts[s.at(i)]; c > bestCount {
			best = s.at(i)
			bestCount = c
		}
	}
	return best
}

// Reset empties the window. Used when face tracking is lost; the next
// Observe starts a fresh vote rather than decaying the old one.
func (s *Smoother) Reset() {
	s.head = 0
	s.size = 0
}

// Len reports how many labels the window currently holds.
func (s *Smoother) Len() int { return s.size }

// Cap reports the window capacity.
func (s *Smoother) Cap() int { return len(s.window) }

func (s *Smoother) at(i int) domain.Emotion {
	return s.window[(s.head+i)%len(s.window)]
}
