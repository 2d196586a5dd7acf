package classifier

import (
	"math"
	"testing"

	"github.com/facepulse/facepulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmptySnapshot(t *testing.T) {
	result := Classify(domain.Snapshot{})

	// Only neutral's formula carries a constant term (1.1), so it wins
	// with confidence 1.1/1.5.
	assert.Equal(t, domain.Neutral, result.Emotion)
	assert.InDelta(t, 1.1/1.5, result.Confidence, 1e-9)
}

func TestClassifyNilSnapshot(t *testing.T) {
	result := Classify(nil)

	assert.Equal(t, domain.Neutral, result.Emotion)
	assert.InDelta(t, 1.1/1.5, result.Confidence, 1e-9)
}

func TestClassifyIsPure(t *testing.T) {
	snap := domain.Snapshot{
		"mouthSmileLeft":  0.4,
		"mouthSmileRight": 0.6,
		"jawOpen":         0.3,
	}

	first := Classify(snap)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(snap))
	}
}

func TestClassifySmile(t *testing.T) {
	snap := domain.Snapshot{
		"mouthSmileLeft":  0.9,
		"mouthSmileRight": 0.9,
	}

	result := Classify(snap)

	// smile aggregate = 0.9, happy score = 1.5*0.9 = 1.35.
	assert.Equal(t, domain.Happy, result.Emotion)
	assert.InDelta(t, 1.35/1.5, result.Confidence, 1e-9)
}

func TestClassifySurprised(t *testing.T) {
	snap := domain.Snapshot{
		"jawOpen":          0.8,
		"eyeWideLeft":      0.7,
		"eyeWideRight":     0.7,
		"browOuterUpLeft":  0.5,
		"browOuterUpRight": 0.5,
		"browInnerUp":      0.3,
	}

	result := Classify(snap)

	// surprised = 1.4*0.8 + 1.0*0.7 + 0.6*0.5 + 0.4*0.3 = 2.24, capped to 1.0.
	assert.Equal(t, domain.Surprised, result.Emotion)
	assert.Equal(t, 1.0, result.Confidence)

	scores := Scores(snap)
	require.Contains(t, scores, domain.Surprised)
	assert.InDelta(t, 2.24, scores[domain.Surprised], 1e-9)
	for emotion, score := range scores {
		if emotion == domain.Surprised {
			continue
		}
		assert.Less(t, score, scores[domain.Surprised], "emotion %s must score below surprised", emotion)
	}
}

func TestClassifyTieBreakUsesEnumOrder(t *testing.T) {
	// happy = 1.5*0.8 = 1.2 and excited = 1.0*0.8 + 0.8*0.5 = 1.2 tie exactly;
	// happy is declared first, so it must win.
	snap := domain.Snapshot{
		"mouthSmileLeft":  0.8,
		"mouthSmileRight": 0.8,
		"eyeWideLeft":     0.5,
		"eyeWideRight":    0.5,
	}

	scores := Scores(snap)
	require.InDelta(t, scores[domain.Happy], scores[domain.Excited], 1e-9)

	result := Classify(snap)
	assert.Equal(t, domain.Happy, result.Emotion)
}

func TestClassifyConfidenceAlwaysInRange(t *testing.T) {
	snapshots := []domain.Snapshot{
		{},
		{"mouthSmileLeft": 1.0, "mouthSmileRight": 1.0, "cheekSquintLeft": 1.0, "cheekSquintRight": 1.0},
		{"jawOpen": 5.0, "eyeWideLeft": 3.0, "eyeWideRight": 3.0},
		{"mouthFrownLeft": 0.2, "browInnerUp": 0.1},
		{"unknownChannel": 0.9},
	}

	for _, snap := range snapshots {
		result := Classify(snap)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestClassifyMalformedValuesReadAsZero(t *testing.T) {
	snap := domain.Snapshot{
		"mouthSmileLeft":  math.NaN(),
		"mouthSmileRight": math.Inf(1),
		"jawOpen":         -0.5,
	}

	result := Classify(snap)

	assert.Equal(t, domain.Neutral, result.Emotion)
	assert.InDelta(t, 1.1/1.5, result.Confidence, 1e-9)
}

func TestScoresClampedAtZero(t *testing.T) {
	// A strong smile drives the angry formula negative; the clamp must
	// floor it at 0 rather than letting a negative score leak out.
	snap := domain.Snapshot{
		"mouthSmileLeft":  1.0,
		"mouthSmileRight": 1.0,
	}

	scores := Scores(snap)
	assert.Equal(t, 0.0, scores[domain.Angry])
	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0)
	}
}
