package ingestion

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/giftpropaganda/newsfeed/collector"
	"github.com/giftpropaganda/newsfeed/model"
	"github.com/giftpropaganda/newsfeed/utils"
	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

// Pipeline turns raw channel posts into persisted, categorized news records.
// One Run covers every configured origin up to the batch size, inside a
// single transaction: either the whole batch commits or none of it does.
// Re-running on the same input is safe because of the (title, source) dedup
// check, so a failed batch is simply retried on the next scheduler tick.
type Pipeline struct {
	db        *gorm.DB
	telegram  collector.ChannelClient
	rss       collector.FeedClient
	channels  []string
	feeds     []string
	batchSize int
}

func NewPipeline(db *gorm.DB, telegram collector.ChannelClient, rss collector.FeedClient, channels, feeds []string, batchSize int) *Pipeline {
	return &Pipeline{
		db:        db,
		telegram:  telegram,
		rss:       rss,
		channels:  channels,
		feeds:     feeds,
		batchSize: batchSize,
	}
}

// Run executes one ingestion batch and returns the number of inserted items.
// Collector failures degrade to fewer posts, storage failures roll the whole
// batch back and are returned to the scheduler.
func (p *Pipeline) Run() (int, error) {
	posts := p.collect()
	if len(posts) == 0 {
		return 0, nil
	}

	inserted := 0
	err := p.db.Transaction(func(tx *gorm.DB) error {
		// Per-run cache of resolved (name, url) -> source id, not persisted
		// across runs.
		sourceCache := make(map[string]string)

		for _, post := range posts {
			sourceID, err := p.resolveSource(tx, sourceCache, post)
			if err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&model.NewsItem{}).
				Where("title = ? AND source_id = ?", post.Title, sourceID).
				Count(&count).Error; err != nil {
				return errors.Wrap(err, "dedup lookup")
			}
			if count > 0 {
				continue
			}

			item, err := buildNewsItem(post, sourceID)
			if err != nil {
				return err
			}
			if err := tx.Create(item).Error; err != nil {
				return errors.Wrapf(err, "insert news item %q", post.Title)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	Logger.Log.Infof("ingestion batch done, %d new items", inserted)
	return inserted, nil
}

// collect gathers up to batchSize posts across all configured channels, then
// the configured RSS feeds. A failing origin is logged by its collector and
// skipped, it never fails the batch.
func (p *Pipeline) collect() []collector.RawPost {
	var posts []collector.RawPost

	for _, handle := range p.channels {
		remaining := p.batchSize - len(posts)
		if remaining <= 0 {
			break
		}
		fetched, err := p.telegram.FetchPosts(handle, remaining)
		if err != nil {
			continue
		}
		posts = append(posts, fetched...)
	}

	if p.rss != nil {
		for _, feed := range p.feeds {
			remaining := p.batchSize - len(posts)
			if remaining <= 0 {
				break
			}
			fetched, err := p.rss.FetchFeed(feed, remaining)
			if err != nil {
				continue
			}
			posts = append(posts, fetched...)
		}
	}

	return posts
}

// resolveSource finds or lazily creates the Source record for a post's
// (name, url) key, flushing the insert so the id is available for the news
// row in the same transaction.
func (p *Pipeline) resolveSource(tx *gorm.DB, cache map[string]string, post collector.RawPost) (string, error) {
	key := post.SourceName + "_" + post.SourceURL
	if id, ok := cache[key]; ok {
		return id, nil
	}

	var existing model.Source
	err := tx.Where("name = ? AND url = ?", post.SourceName, post.SourceURL).First(&existing).Error
	if err == nil {
		cache[key] = existing.Id
		return existing.Id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.Wrap(err, "source lookup")
	}

	source := model.Source{
		Id:         uuid.New().String(),
		Name:       post.SourceName,
		URL:        post.SourceURL,
		SourceType: post.SourceType,
		Category:   post.CategoryHint,
		IsActive:   true,
	}
	if err := tx.Create(&source).Error; err != nil {
		return "", errors.Wrapf(err, "create source %q", post.SourceName)
	}

	Logger.Log.WithFields(logrus.Fields{"source": post.SourceName}).Info("registered new source")
	cache[key] = source.Id
	return source.Id, nil
}

func buildNewsItem(post collector.RawPost, sourceID string) (*model.NewsItem, error) {
	mediaJSON, err := model.MediaListToJSON(post.Media)
	if err != nil {
		return nil, errors.Wrap(err, "serialize media")
	}

	category := post.CategoryHint
	if category == "" {
		category = Categorize(post.Title, post.Text)
	}

	return &model.NewsItem{
		Id:          uuid.New().String(),
		SourceID:    &sourceID,
		Title:       post.Title,
		Content:     post.Text,
		ContentHTML: buildContentHTML(post.Text, post.Media),
		Link:        post.Link,
		PublishDate: parsePublishDate(post.Date),
		Category:    category,
		Media:       mediaJSON,
		ReadingTime: utils.EstimateReadingTime(post.Text),
		ViewsCount:  0,
		Author:      post.SourceName,
		Subtitle:    post.Subtitle,
	}, nil
}

// parsePublishDate parses the origin timestamp, ISO-8601 first, then any
// recognizable format. A malformed timestamp is recovered locally by
// substituting the current wall clock, never surfaced as an error.
func parsePublishDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// buildContentHTML renders the plain text plus an <img> or <video> tag for
// the first photo or video descriptor, matching what the frontend expects to
// embed directly.
func buildContentHTML(text string, media []model.Media) string {
	var sb strings.Builder
	sb.WriteString(html.EscapeString(text))

	for _, m := range media {
		if m.Kind == model.MediaKindPhoto && m.URL != "" {
			sb.WriteString(fmt.Sprintf(`<img src="%s" style="max-width:100%%"/>`, m.URL))
			break
		}
		if m.Kind == model.MediaKindVideo && m.URL != "" {
			sb.WriteString(fmt.Sprintf(`<video controls poster="%s" style="max-width:100%%"><source src="%s" type="video/mp4"></video>`, m.Thumbnail, m.URL))
			break
		}
	}
	return sb.String()
}
