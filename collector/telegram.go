package collector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/giftpropaganda/newsfeed/model"
	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

const (
	TelegramBaseURL = "https://t.me"

	telegramFetchTimeout = 30 * time.Second
	telegramUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36"
)

var backgroundImageRe = regexp.MustCompile(`background-image:\s*url\('([^']+)'\)`)

// TelegramCollector fetches channel posts from the public channel preview
// pages (t.me/s/<handle>). Preview pages expose the recent post history
// without any API credentials, which is all the ingestion pipeline needs.
type TelegramCollector struct{}

func NewTelegramCollector() *TelegramCollector {
	return &TelegramCollector{}
}

func newPreviewScraper() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(telegramUserAgent))
	c.SetRequestTimeout(telegramFetchTimeout)
	return c
}

// GetChannelInfo scrapes the channel header of the preview page. Returns
// (nil, nil) when the page loads but carries no channel header, which is how
// Telegram renders unknown or private channels.
func (t *TelegramCollector) GetChannelInfo(handle string) (*ChannelInfo, error) {
	var info *ChannelInfo

	c := newPreviewScraper()
	c.OnHTML(".tgme_channel_info", func(e *colly.HTMLElement) {
		info = parseChannelInfo(e, handle)
	})

	if err := c.Visit(previewURL(handle)); err != nil {
		Logger.Log.WithFields(logrus.Fields{"source": "telegram", "channel": handle}).
			Errorf("failed to fetch channel info: %v", err)
		return nil, errors.Wrapf(err, "fetch channel info for %s", handle)
	}
	return info, nil
}

// FetchPosts scrapes up to limit posts from the preview page, most recent
// first. Posts with neither text nor media are skipped. Any error while
// contacting Telegram is logged and returned, the caller degrades to an
// empty list.
func (t *TelegramCollector) FetchPosts(handle string, limit int) ([]RawPost, error) {
	var info ChannelInfo
	var posts []RawPost

	c := newPreviewScraper()
	c.OnHTML(".tgme_channel_info", func(e *colly.HTMLElement) {
		if parsed := parseChannelInfo(e, handle); parsed != nil {
			info = *parsed
		}
	})
	c.OnHTML(".tgme_widget_message", func(e *colly.HTMLElement) {
		if post := parseMessage(e, handle); post != nil {
			posts = append(posts, *post)
		}
	})

	if err := c.Visit(previewURL(handle)); err != nil {
		Logger.Log.WithFields(logrus.Fields{"source": "telegram", "channel": handle}).
			Errorf("failed to fetch posts: %v", err)
		return nil, errors.Wrapf(err, "fetch posts for %s", handle)
	}

	// The preview page lists oldest first, the contract is most recent first.
	reversePosts(posts)
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	for i := range posts {
		if posts[i].SourceName == "" {
			posts[i].SourceName = info.Title
		}
	}

	Logger.Log.WithFields(logrus.Fields{"source": "telegram", "channel": handle}).
		Infof("fetched %d posts", len(posts))
	return posts, nil
}

func previewURL(handle string) string {
	return fmt.Sprintf("%s/s/%s", TelegramBaseURL, handle)
}

func parseChannelInfo(e *colly.HTMLElement, handle string) *ChannelInfo {
	title := strings.TrimSpace(e.DOM.Find(".tgme_channel_info_header_title").Text())
	if title == "" {
		return nil
	}
	info := &ChannelInfo{
		Title:       title,
		Username:    handle,
		Description: strings.TrimSpace(e.DOM.Find(".tgme_channel_info_description").Text()),
	}
	e.ForEach(".tgme_channel_info_counter", func(_ int, counter *colly.HTMLElement) {
		if strings.Contains(counter.ChildText(".counter_type"), "subscriber") {
			info.ParticipantsCount = parseApproxCount(counter.ChildText(".counter_value"))
		}
	})
	return info
}

// parseMessage extracts one RawPost from a .tgme_widget_message element.
// Returns nil for posts carrying neither text nor media.
func parseMessage(e *colly.HTMLElement, handle string) *RawPost {
	id := parsePostId(e.Attr("data-post"))

	text := extractMessageText(e)
	media := extractMessageMedia(e)
	if text == "" && len(media) == 0 {
		return nil
	}

	title, subtitle := SplitTitle(text)
	if title == "" {
		// Media-only posts still need a distinct dedup key.
		title = fmt.Sprintf("Post %d", id)
	}

	return &RawPost{
		Id:         id,
		Text:       text,
		Title:      title,
		Subtitle:   subtitle,
		Date:       e.ChildAttr(".tgme_widget_message_date time", "datetime"),
		Views:      parseApproxCount(e.ChildText(".tgme_widget_message_views")),
		Link:       fmt.Sprintf("%s/%s/%d", TelegramBaseURL, handle, id),
		Media:      media,
		HasMedia:   len(media) > 0,
		SourceName: strings.TrimSpace(e.ChildText(".tgme_widget_message_owner_name")),
		SourceURL:  fmt.Sprintf("%s/%s", TelegramBaseURL, handle),
		SourceType: model.SourceTypeTelegram,
	}
}

func extractMessageText(e *colly.HTMLElement) string {
	sel := e.DOM.Find(".tgme_widget_message_text").First()
	if sel.Length() == 0 {
		return ""
	}
	// <br> separated lines carry the title/subtitle split, keep them.
	html, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	html = strings.ReplaceAll(html, "<br>", "\n")
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br />", "\n")
	stripped, err := StripHTML(html)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(stripped)
}

func extractMessageMedia(e *colly.HTMLElement) []model.Media {
	var media []model.Media

	e.ForEach("a.tgme_widget_message_photo_wrap", func(_ int, photo *colly.HTMLElement) {
		url := parseBackgroundImageURL(photo.Attr("style"))
		if url == "" {
			return
		}
		media = append(media, model.Media{
			Kind:     model.MediaKindPhoto,
			URL:      url,
			MimeType: "image/jpeg",
		})
	})

	e.ForEach(".tgme_widget_message_video_player", func(_ int, player *colly.HTMLElement) {
		url := player.ChildAttr("video.tgme_widget_message_video", "src")
		if url == "" {
			return
		}
		media = append(media, model.Media{
			Kind:       model.MediaKindVideo,
			URL:        url,
			Thumbnail:  parseBackgroundImageURL(player.ChildAttr(".tgme_widget_message_video_thumb", "style")),
			DurationMs: parseClockDuration(player.ChildText("time.message_video_duration")),
			MimeType:   "video/mp4",
		})
	})

	e.ForEach("audio.tgme_widget_message_voice", func(_ int, voice *colly.HTMLElement) {
		url := voice.Attr("src")
		if url == "" {
			return
		}
		media = append(media, model.Media{
			Kind:       model.MediaKindAudio,
			URL:        url,
			DurationMs: parseClockDuration(voice.Attr("data-duration")),
			MimeType:   "audio/ogg",
		})
	})

	e.ForEach(".tgme_widget_message_document", func(_ int, doc *colly.HTMLElement) {
		name := strings.TrimSpace(doc.ChildText(".tgme_widget_message_document_title"))
		if name == "" {
			return
		}
		media = append(media, model.Media{
			Kind:     model.MediaKindDocument,
			Filename: name,
		})
	})

	return media
}

// parsePostId extracts the numeric post id from the data-post attribute,
// which has the form "<handle>/<id>".
func parsePostId(dataPost string) int64 {
	parts := strings.Split(dataPost, "/")
	if len(parts) != 2 {
		return 0
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// parseApproxCount parses counters as rendered on the preview page, for
// example "123", "4.5K" or "1.2M".
func parseApproxCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "M")
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return int(value * multiplier)
}

// parseClockDuration parses "1:05" or "1:02:03" into milliseconds.
func parseClockDuration(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var total int64
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total * 1000
}

func parseBackgroundImageURL(style string) string {
	match := backgroundImageRe.FindStringSubmatch(style)
	if len(match) != 2 {
		return ""
	}
	return match[1]
}

func reversePosts(posts []RawPost) {
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
}
