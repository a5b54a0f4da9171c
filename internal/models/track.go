package models

// Track is a playable track reference returned by the recommendation
// provider.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	URI         string   `json:"uri"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url"`
}

type Artist struct {
	Name string `json:"name"`
}
