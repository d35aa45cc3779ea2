package collector

import (
	"strings"

	"github.com/giftpropaganda/newsfeed/model"
)

const (
	// Post title is the first line of the raw text, cut to this many runes.
	MaxTitleLength = 100
	// Post subtitle is the second line, cut to this many runes.
	MaxSubtitleLength = 200
)

// ChannelInfo is the public metadata of one Telegram channel.
type ChannelInfo struct {
	Title             string `json:"title"`
	Username          string `json:"username"`
	Description       string `json:"description,omitempty"`
	ParticipantsCount int    `json:"participants_count,omitempty"`
}

// RawPost is one post as fetched from an origin, before it is resolved
// against the store. Date is kept as the raw timestamp string reported by the
// origin, parsing it (with fallback) is the ingestion pipeline's concern.
type RawPost struct {
	Id           int64         `json:"id"`
	Text         string        `json:"text"`
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle,omitempty"`
	Date         string        `json:"date,omitempty"`
	Views        int           `json:"views"`
	Forwards     int           `json:"forwards"`
	Replies      int           `json:"replies"`
	Link         string        `json:"link"`
	Media        []model.Media `json:"media,omitempty"`
	HasMedia     bool          `json:"has_media"`
	SourceName   string        `json:"source_name"`
	SourceURL    string        `json:"source_url"`
	SourceType   string        `json:"source_type"`
	CategoryHint string        `json:"category_hint,omitempty"`
}

// ChannelClient retrieves channel metadata and a bounded list of recent
// posts. Implementations must degrade on external failure: log and return an
// error, never panic or block forever, so the periodic ingestion loop stays
// alive.
type ChannelClient interface {
	GetChannelInfo(handle string) (*ChannelInfo, error)
	FetchPosts(handle string, limit int) ([]RawPost, error)
}

// FeedClient retrieves recent items of one RSS feed.
type FeedClient interface {
	FetchFeed(url string, limit int) ([]RawPost, error)
}

// SplitTitle derives (title, subtitle) from raw post text: first line cut to
// MaxTitleLength is the title, second line cut to MaxSubtitleLength is the
// subtitle when present.
func SplitTitle(text string) (string, string) {
	lines := strings.Split(text, "\n")
	title := truncateRunes(strings.TrimSpace(lines[0]), MaxTitleLength)
	subtitle := ""
	if len(lines) > 1 {
		subtitle = truncateRunes(strings.TrimSpace(lines[1]), MaxSubtitleLength)
	}
	return title, subtitle
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
