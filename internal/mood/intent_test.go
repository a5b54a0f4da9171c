package mood

import (
	"testing"

	"moodmix/internal/models"
)

func contextWithPlaylist() *models.ConversationContext {
	return &models.ConversationContext{
		PlaylistGenerated: true,
		CurrentPlaylist: &models.Playlist{
			Genres:       []string{"chill"},
			DisplayTitle: "Chill Vibes",
		},
	}
}

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		prior    *models.ConversationContext
		wantsNew bool
	}{
		{"first turn no context", "I feel great today", nil, true},
		{"first turn empty context", "I feel great today", &models.ConversationContext{}, true},
		{"positive with playlist", "please refresh the playlist", contextWithPlaylist(), true},
		{"positive overrides negative", "no thanks, actually change it", contextWithPlaylist(), true},
		{"negative with playlist", "no thanks, I'm ok", contextWithPlaylist(), false},
		{"negative stop", "stop, this is fine", contextWithPlaylist(), false},
		{"negative without playlist still generates", "no thanks", nil, true},
		{"ambiguous with playlist refreshes", "I went for a run earlier", contextWithPlaylist(), true},
		{"typo signal", "give me somethin differnt", contextWithPlaylist(), true},
		{"case insensitive", "REFRESH please", contextWithPlaylist(), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyIntent(tc.message, tc.prior)
			if got.WantsNewPlaylist != tc.wantsNew {
				t.Fatalf("WantsNewPlaylist = %v, want %v", got.WantsNewPlaylist, tc.wantsNew)
			}
			if !got.ShouldRespond {
				t.Fatalf("ShouldRespond should always be true")
			}
		})
	}
}

func TestClassifyKeepOnAmbiguous(t *testing.T) {
	c := Classifier{KeepOnAmbiguous: true}

	got := c.Classify("just had lunch", contextWithPlaylist())
	if got.WantsNewPlaylist {
		t.Fatalf("ambiguous turn should keep the playlist when KeepOnAmbiguous is set")
	}

	// Explicit signals are unaffected by the flag.
	if !c.Classify("refresh it", contextWithPlaylist()).WantsNewPlaylist {
		t.Fatalf("positive signal must still refresh")
	}
	if !c.Classify("just had lunch", nil).WantsNewPlaylist {
		t.Fatalf("first turn must still generate")
	}
}
