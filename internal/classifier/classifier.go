// Package classifier maps one blend-shape snapshot to an emotion label using
// fixed weighted rules. It is stateless and total: every snapshot, including
// an empty one, yields exactly one result.
package classifier

import (
	"math"

	"github.com/facepulse/facepulse/internal/domain"
)

// confidenceNorm converts a winning score into a confidence in [0,1].
// Fixed normalization constant, not re-derived per emotion.
const confidenceNorm = 1.5

// aggregates are the named facial features the scoring rules operate on.
// Each is the mean of its symmetric left/right channels where those exist.
type aggregates struct {
	smile       float64
	frown       float64
	dimple      float64
	pucker      float64
	jawOpen     float64
	browUp      float64
	browInner   float64
	browDown    float64
	eyeWide     float64
	cheekSquint float64
	sneer       float64
	mouthShrug  float64
	eyeSquint   float64
	eyeLookDown float64
}

// channel reads one blend-shape score. Missing channels and malformed values
// (NaN, infinities, negatives) read as 0: the pipeline favors always producing
// a label over strict input validation.
func channel(snap domain.Snapshot, name string) float64 {
	v, ok := snap[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func pair(snap domain.Snapshot, left, right string) float64 {
	return (channel(snap, left) + channel(snap, right)) / 2
}

func extract(snap domain.Snapshot) aggregates {
	return aggregates{
		smile:       pair(snap, "mouthSmileLeft", "mouthSmileRight"),
		frown:       pair(snap, "mouthFrownLeft", "mouthFrownRight"),
		dimple:      pair(snap, "mouthDimpleLeft", "mouthDimpleRight"),
		pucker:      channel(snap, "mouthPucker"),
		jawOpen:     channel(snap, "jawOpen"),
		browUp:      pair(snap, "browOuterUpLeft", "browOuterUpRight"),
		browInner:   channel(snap, "browInnerUp"),
		browDown:    pair(snap, "browDownLeft", "browDownRight"),
		eyeWide:     pair(snap, "eyeWideLeft", "eyeWideRight"),
		cheekSquint: pair(snap, "cheekSquintLeft", "cheekSquintRight"),
		sneer:       pair(snap, "noseSneerLeft", "noseSneerRight"),
		mouthShrug:  (channel(snap, "mouthShrugUpper") + channel(snap, "mouthShrugLower")) / 2,
		eyeSquint:   pair(snap, "eyeSquintLeft", "eyeSquintRight"),
		eyeLookDown: pair(snap, "eyeLookDownLeft", "eyeLookDownRight"),
	}
}

// scoreRules maps each emotion to its weighted formula. The rules are
// domain-tuned constants; changing a weight changes classification behavior
// for every caller, so treat edits like a protocol change.
var scoreRules = map[domain.Emotion]func(a aggregates) float64{
	domain.Happy: func(a aggregates) float64 {
		return 1.5*a.smile + 0.5*a.cheekSquint
	},
	domain.Excited: func(a aggregates) float64 {
		return 1.0*a.smile + 0.8*a.eyeWide + 0.6*a.browUp + 0.4*a.jawOpen
	},
	domain.Surprised: func(a aggregates) float64 {
		return 1.4*a.jawOpen + 1.0*a.eyeWide + 0.6*a.browUp + 0.4*a.browInner
	},
	domain.Sad: func(a aggregates) float64 {
		return 1.4*a.frown + 0.7*a.browInner + 0.2*(1-a.dimple) + 0.2*(1-a.pucker)
	},
	domain.Angry: func(a aggregates) float64 {
		return 1.2*a.eyeSquint + 1.0*a.mouthShrug + 0.7*a.eyeLookDown +
			0.5*a.browDown + 0.5*a.sneer - 0.5*a.smile
	},
	domain.Neutral: func(a aggregates) float64 {
		return 1.1 - (a.smile+a.frown+a.jawOpen+a.browUp+a.browDown+
			a.eyeWide+a.eyeSquint+a.mouthShrug)/4
	},
}

// Scores returns the clamped (>= 0) rule score for every emotion. Exposed for
// the one-shot classification API, which reports the full score breakdown.
func Scores(snap domain.Snapshot) map[domain.Emotion]float64 {
	a := extract(snap)
	scores := make(map[domain.Emotion]float64, len(scoreRules))
	for emotion, rule := range scoreRules {
		scores[emotion] = math.Max(0, rule(a))
	}
	return scores
}

// Classify picks the emotion with the greatest clamped score. Ties resolve to
// the earliest emotion in domain.Emotions order: the scan only replaces the
// leader on a strictly greater score. An all-zero snapshot therefore yields
// neutral (its formula carries a constant term) with confidence 1.1/1.5.
func Classify(snap domain.Snapshot) domain.Result {
	scores := Scores(snap)

	best := domain.Emotions[0]
	bestScore := scores[best]
	for _, emotion := range domain.Emotions[1:] {
		if scores[emotion] > bestScore {
			best = emotion
			bestScore = scores[emotion]
		}
	}

	return domain.Result{
		Emotion:    best,
		Confidence: math.Min(bestScore/confidenceNorm, 1.0),
	}
}
