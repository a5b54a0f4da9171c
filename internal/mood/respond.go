package mood

import (
	"regexp"
	"strings"

	"moodmix/internal/models"
)

const (
	keepCurrentReply = "Got it, I'll keep the current playlist playing. Let me know if you want to try something different later!"
	closingLine      = "Enjoy the music!"
)

// refreshOfferPattern matches the trailing refresh-offer clause the oracle
// likes to append to every reply.
var refreshOfferPattern = regexp.MustCompile(`Would you like me to refresh.*$`)

// SynthesizeResponse decides the literal reply text for a turn. When the
// user declined a refresh the oracle's text is ignored entirely; when the
// previous reply already offered a refresh, the repeated offer is replaced
// with a short closing line so the same prompt is not surfaced turn after
// turn. Otherwise the oracle's text passes through unmodified.
func SynthesizeResponse(intent Intent, response string, prior *models.ConversationContext) string {
	if !intent.WantsNewPlaylist && prior != nil && prior.PlaylistGenerated {
		return keepCurrentReply
	}
	if prior != nil && strings.Contains(prior.LastResponse, "refresh") {
		return refreshOfferPattern.ReplaceAllString(response, closingLine)
	}
	return response
}
