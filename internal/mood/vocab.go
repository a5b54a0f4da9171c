package mood

import "moodmix/internal/models"

// Genres is the closed set of genre tags the rest of the system is allowed
// to act on. Anything the oracle proposes outside this list is discarded.
var Genres = []string{
	"pop",
	"dance",
	"hip-hop",
	"party",
	"electronic",
	"happy",
	"energetic",
	"upbeat",
	"summer",
	"chill",
	"acoustic",
	"sad",
	"ambient",
	"melancholic",
	"jazz",
	"indie",
}

// WeatherMoods is the closed vocabulary of emotional-weather labels. These
// describe the user's emotional state, not literal weather data.
var WeatherMoods = []string{
	"clear sky",
	"broken clouds",
	"scattered clouds",
	"few clouds",
	"light rain",
	"moderate rain",
	"heavy rain",
	"overcast clouds",
}

const (
	DefaultGenre       = "pop"
	DefaultWeatherMood = "clear sky"
)

// moodAttributes maps coarse mood buckets to target audio attributes.
var moodAttributes = map[string]models.TargetAttributes{
	"sad":     {Energy: 0.3, Valence: 0.2, Tempo: 80, Danceability: 0.4},
	"relaxed": {Energy: 0.4, Valence: 0.6, Tempo: 95, Danceability: 0.5},
	"happy":   {Energy: 0.8, Valence: 0.8, Tempo: 120, Danceability: 0.7},
}

func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

func IsValidWeatherMood(mood string) bool {
	for _, m := range WeatherMoods {
		if m == mood {
			return true
		}
	}
	return false
}

// AttributesForMood looks up the attribute hint for a mood bucket. A missing
// bucket means "no hint available", not an error.
func AttributesForMood(bucket string) (models.TargetAttributes, bool) {
	attrs, ok := moodAttributes[bucket]
	return attrs, ok
}
