package domain

import "fmt"

// Emotion is one of the closed set of labels the classifier can produce.
// The declaration order is load-bearing: it is the tie-break order for the
// classifier's argmax, so reordering constants changes behavior at ties.
type Emotion int

const (
	Happy Emotion = iota
	Excited
	Surprised
	Sad
	Angry
	Neutral
)

// Emotions lists all valid labels in tie-break order.
var Emotions = []Emotion{Happy, Excited, Surprised, Sad, Angry, Neutral}

var emotionNames = map[Emotion]string{
	Happy:     "happy",
	Excited:   "excited",
	Surprised: "surprised",
	Sad:       "sad",
	Angry:     "angry",
	Neutral:   "neutral",
}

func (e Emotion) String() string {
	if name, ok := emotionNames[e]; ok {
		return name
	}
	return fmt.Sprintf("emotion(%d)", int(e))
}

// MarshalText makes Emotion render as its lowercase name in JSON payloads.
func (e Emotion) MarshalText() ([]byte, error) {
	name, ok := emotionNames[e]
	if !ok {
		return nil, fmt.Errorf("unknown emotion %d", int(e))
	}
	return []byte(name), nil
}

func (e *Emotion) UnmarshalText(text []byte) error {
	parsed, err := ParseEmotion(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEmotion converts a lowercase label name back into an Emotion.
func ParseEmotion(name string) (Emotion, error) {
	for e, n := range emotionNames {
		if n == name {
			return e, nil
		}
	}
	return Neutral, fmt.Errorf("unknown emotion %q", name)
}
