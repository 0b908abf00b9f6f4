package domain

// ThumbnailInfo a rendered frame thumbnail
type ThumbnailInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ThumbnailFrame one timeline frame with similarity to the previous
// frame; Similarity is nil when no previous frame exists
type ThumbnailFrame struct {
	At         int           `json:"at"`
	Thumbnail  ThumbnailInfo `json:"thumbnail"`
	Similarity *float64      `json:"similarity"`
}

// ThumbnailsResponse frames found plus the count still missing
type ThumbnailsResponse struct {
	Pictures []ThumbnailFrame `json:"pictures"`
	Missing  int              `json:"missing"`
}
