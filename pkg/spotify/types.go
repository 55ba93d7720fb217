package spotify

// TrackRecord is the normalized form of a track, whatever kind of
// resource it was listed under. Field order is the JSON export order.
type TrackRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Album    string   `json:"album"`
	Duration string   `json:"duration"` // m:ss
	URL      string   `json:"url"`
}

// tokenResponse is the body of the web player token endpoint.
type tokenResponse struct {
	AccessToken                      *string `json:"accessToken"`
	AccessTokenExpirationTimestampMs int64   `json:"accessTokenExpirationTimestampMs"`
	ClientID                         string  `json:"clientId"`
	IsAnonymous                      bool    `json:"isAnonymous"`
}

// page is one page of a paginated listing. Next is nil on the last page.
type page[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
	Total int     `json:"total"`
}

type artistObject struct {
	Name string `json:"name"`
}

type albumObject struct {
	Name *string `json:"name"`
}

// trackObject covers the track shapes returned by /tracks/{id},
// /albums/{id}/tracks and playlist items. Pointers distinguish absent
// fields from zero values; album tracks never carry Album.
type trackObject struct {
	ID         *string         `json:"id"`
	Name       *string         `json:"name"`
	DurationMS *int64          `json:"duration_ms"`
	Artists    *[]artistObject `json:"artists"`
	Album      *albumObject    `json:"album"`
}

// playlistItem wraps a track. Track is nil for deleted entries.
type playlistItem struct {
	Track *trackObject `json:"track"`
}
