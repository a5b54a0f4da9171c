package mood

import (
	"strings"

	"moodmix/internal/models"
)

// Phrase lists are matched as substrings of the lower-cased message.
// "differnt" is a long-standing client-facing typo; kept for compatibility.
var negativeSignals = []string{
	"no need",
	"i am ok",
	"i'm ok",
	"no thanks",
	"stop",
	"dont change",
	"don't change",
	"no thank you",
	"please don't",
}

var positiveSignals = []string{
	"refresh",
	"new songs",
	"differnt",
	"change",
	"something else",
	"another playlist",
	"change it please",
}

// Intent is the classifier verdict for one turn. ShouldRespond is always
// true today; it exists so silent turns can be added without changing the
// return shape.
type Intent struct {
	WantsNewPlaylist bool
	ShouldRespond    bool
}

// Classifier decides whether a turn asks for a new recommendation set.
type Classifier struct {
	// KeepOnAmbiguous inverts the default for turns carrying neither signal
	// while a playlist exists: true keeps the current playlist, false
	// refreshes it.
	KeepOnAmbiguous bool
}

// Classify inspects the raw message and prior context. Pure and total: empty
// or malformed input lands in the default branch.
func (c Classifier) Classify(message string, prior *models.ConversationContext) Intent {
	lower := strings.ToLower(message)
	positive := containsAny(lower, positiveSignals)
	negative := containsAny(lower, negativeSignals)
	hasPlaylist := prior != nil && prior.PlaylistGenerated

	var wantsNew bool
	switch {
	case positive:
		wantsNew = true
	case !hasPlaylist:
		// First turn defaults to generating.
		wantsNew = true
	case negative:
		wantsNew = false
	default:
		wantsNew = !c.KeepOnAmbiguous
	}
	return Intent{WantsNewPlaylist: wantsNew, ShouldRespond: true}
}

// ClassifyIntent applies the default classifier.
func ClassifyIntent(message string, prior *models.ConversationContext) Intent {
	return Classifier{}.Classify(message, prior)
}

func containsAny(message string, signals []string) bool {
	for _, signal := range signals {
		if strings.Contains(message, signal) {
			return true
		}
	}
	return false
}
