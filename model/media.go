package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const (
	MediaKindPhoto    = "photo"
	MediaKindVideo    = "video"
	MediaKindAudio    = "audio"
	MediaKindDocument = "document"
)

// Media is a value object describing one attachment of a news item. It has no
// identity of its own, the whole descriptor list is embedded into the owning
// NewsItem row as a serialized JSON column.
type Media struct {
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Caption    string `json:"caption,omitempty"`
}

// MediaListToJSON serializes media descriptors for storage. An empty list is
// stored as SQL NULL so callers can treat media as a possibly-absent payload.
func MediaListToJSON(media []Media) (datatypes.JSON, error) {
	if len(media) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(media)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// MediaList deserializes the embedded media column. A missing column yields
// an empty list, never an error.
func (n *NewsItem) MediaList() ([]Media, error) {
	if len(n.Media) == 0 {
		return nil, nil
	}
	var media []Media
	if err := json.Unmarshal(n.Media, &media); err != nil {
		return nil, err
	}
	return media, nil
}
