package collector

import (
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/giftpropaganda/newsfeed/model"
	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

// RssCollector maps RSS feed items onto the same RawPost shape the Telegram
// collector produces, so the ingestion pipeline handles both origin types
// uniformly.
type RssCollector struct {
	parser *gofeed.Parser
}

func NewRssCollector() *RssCollector {
	return &RssCollector{parser: gofeed.NewParser()}
}

// FetchFeed fetches and parses one feed, most recent first, length <= limit.
// Items with neither text nor enclosures are skipped.
func (r *RssCollector) FetchFeed(url string, limit int) ([]RawPost, error) {
	feed, err := r.parser.ParseURL(url)
	if err != nil {
		Logger.Log.WithFields(logrus.Fields{"source": "rss", "feed": url}).
			Errorf("failed to fetch feed: %v", err)
		return nil, errors.Wrapf(err, "fetch feed %s", url)
	}

	var posts []RawPost
	for i, item := range feed.Items {
		if limit > 0 && i >= limit {
			break
		}
		post := r.itemToPost(feed, item, url)
		if post == nil {
			continue
		}
		posts = append(posts, *post)
	}

	Logger.Log.WithFields(logrus.Fields{"source": "rss", "feed": url}).
		Infof("fetched %d items", len(posts))
	return posts, nil
}

func (r *RssCollector) itemToPost(feed *gofeed.Feed, item *gofeed.Item, feedURL string) *RawPost {
	text := itemText(item)
	media := itemMedia(item)
	if text == "" && len(media) == 0 {
		return nil
	}

	title := strings.TrimSpace(item.Title)
	subtitle := ""
	if title == "" {
		title, subtitle = SplitTitle(text)
	}

	date := item.Published
	if date == "" {
		date = item.Updated
	}

	return &RawPost{
		Text:       text,
		Title:      truncateRunes(title, MaxTitleLength),
		Subtitle:   subtitle,
		Date:       date,
		Link:       item.Link,
		Media:      media,
		HasMedia:   len(media) > 0,
		SourceName: feed.Title,
		SourceURL:  feedURL,
		SourceType: model.SourceTypeRss,
	}
}

// itemText prefers full content over the description, both stripped from
// HTML markup to plain text.
func itemText(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}
	if raw == "" {
		return ""
	}
	text, err := StripHTML(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(text)
}

func itemMedia(item *gofeed.Item) []model.Media {
	var media []model.Media
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		kind := model.MediaKindDocument
		switch {
		case strings.HasPrefix(enc.Type, "image/"):
			kind = model.MediaKindPhoto
		case strings.HasPrefix(enc.Type, "video/"):
			kind = model.MediaKindVideo
		case strings.HasPrefix(enc.Type, "audio/"):
			kind = model.MediaKindAudio
		}
		media = append(media, model.Media{
			Kind:     kind,
			URL:      enc.URL,
			MimeType: enc.Type,
			Size:     parseEnclosureLength(enc.Length),
		})
	}
	return media
}

func parseEnclosureLength(length string) int64 {
	var size int64
	for _, ch := range length {
		if ch < '0' || ch > '9' {
			return 0
		}
		size = size*10 + int64(ch-'0')
	}
	return size
}
