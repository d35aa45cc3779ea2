package server

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/giftpropaganda/newsfeed/collector"
	"github.com/giftpropaganda/newsfeed/ingestion"
	"github.com/giftpropaganda/newsfeed/model"
	"github.com/giftpropaganda/newsfeed/models"
	"github.com/giftpropaganda/newsfeed/utils"
	Logger "github.com/giftpropaganda/newsfeed/utils/log"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// NewsServer carries every dependency the REST handlers need. It is built
// once in main, there is no package level state.
type NewsServer struct {
	db       *gorm.DB
	telegram collector.ChannelClient
	channels []string
	cache    *utils.RedisCache
}

func NewNewsServer(db *gorm.DB, telegram collector.ChannelClient, channels []string, cache *utils.RedisCache) *NewsServer {
	return &NewsServer{
		db:       db,
		telegram: telegram,
		channels: channels,
		cache:    cache,
	}
}

// RegisterRoutes binds the full HTTP surface onto the given router.
func (s *NewsServer) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.Liveness)
	router.GET("/health", s.Liveness)

	api := router.Group("/api")
	api.GET("/news/", s.ListNews)
	api.GET("/news/:id", s.GetNewsItem)
	api.GET("/categories/", s.ListCategories)
	api.GET("/stats/", s.GetStats)
	api.GET("/telegram/channel/:handle", s.GetChannelPosts)
	api.GET("/telegram/channel/:handle/info", s.GetChannelInfo)
	api.GET("/telegram/channels", s.ListChannels)
	api.GET("/telegram/health", s.TelegramHealth)
}

func (s *NewsServer) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListNews serves the paginated news list, newest publish date first, with
// an optional category filter. The limit is clamped to MaxPageLimit. Listing
// never bumps view counters, only single item reads do.
func (s *NewsServer) ListNews(c *gin.Context) {
	limit, offset := paginationParams(c)
	category := c.Query("category")

	query := s.db.Model(&model.NewsItem{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.storageError(c, err)
		return
	}

	var items []model.NewsItem
	if err := query.Order("publish_date DESC").
		Limit(limit).
		Offset(offset).
		Preload("Source").
		Find(&items).Error; err != nil {
		s.storageError(c, err)
		return
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	c.JSON(http.StatusOK, models.NewsResponse{
		Data:  lo.Map(items, func(item model.NewsItem, _ int) models.NewsItemResponse { return toNewsItemResponse(item) }),
		Total: total,
		Page:  offset/limit + 1,
		Pages: pages,
	})
}

// GetNewsItem serves one item by id and bumps its view counter by exactly
// one. The increment is a single SQL expression update, concurrent reads
// rely on the database's row update atomicity.
func (s *NewsServer) GetNewsItem(c *gin.Context) {
	id := c.Param("id")

	res := s.db.Model(&model.NewsItem{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if res.Error != nil {
		s.storageError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "news item not found"})
		return
	}

	var item model.NewsItem
	if err := s.db.Preload("Source").First(&item, "id = ?", id).Error; err != nil {
		s.storageError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNewsItemResponse(item))
}

// ListCategories returns the distinct stored categories merged with the
// static categorizer table, so the frontend can always render the full set.
func (s *NewsServer) ListCategories(c *gin.Context) {
	var stored []string
	if err := s.db.Model(&model.NewsItem{}).Distinct("category").Pluck("category", &stored).Error; err != nil {
		s.storageError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoriesResponse{
		Categories: lo.Uniq(append(ingestion.KnownCategories(), stored...)),
	})
}

// GetStats aggregates total and per-category counts plus the most recent
// update time.
func (s *NewsServer) GetStats(c *gin.Context) {
	var total int64
	if err := s.db.Model(&model.NewsItem{}).Count(&total).Error; err != nil {
		s.storageError(c, err)
		return
	}

	type categoryCount struct {
		Category string
		Count    int64
	}
	var rows []categoryCount
	if err := s.db.Model(&model.NewsItem{}).
		Select("category, count(*) as count").
		Group("category").
		Scan(&rows).Error; err != nil {
		s.storageError(c, err)
		return
	}

	// max() is NULL on an empty table, scan through NullTime.
	var lastUpdated sql.NullTime
	s.db.Model(&model.NewsItem{}).Select("max(updated_at)").Scan(&lastUpdated)
	lastUpdatedStr := ""
	if lastUpdated.Valid {
		lastUpdatedStr = lastUpdated.Time.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, models.StatsResponse{
		TotalNews: total,
		Categories: lo.SliceToMap(rows, func(row categoryCount) (string, int64) {
			return row.Category, row.Count
		}),
		LastUpdated: lastUpdatedStr,
	})
}

// GetChannelPosts live-fetches recent posts of one channel, bypassing
// storage. Responses are served from the Redis cache when it is configured.
func (s *NewsServer) GetChannelPosts(c *gin.Context) {
	handle := c.Param("handle")
	limit := clampLimit(intQuery(c, "limit", 20))
	includeMedia := c.DefaultQuery("include_media", "true") != "false"

	var resp models.TelegramPostsResponse
	if s.cache.Get(&resp, "channel", handle, strconv.Itoa(limit)) {
		c.JSON(http.StatusOK, trimMedia(resp, includeMedia))
		return
	}

	info, err := s.telegram.GetChannelInfo(handle)
	if err != nil {
		Logger.Log.Errorf("channel info fetch failed for %s: %v", handle, err)
	}
	posts, err := s.telegram.FetchPosts(handle, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": errors.Wrapf(err, "failed to fetch channel %s", handle).Error()})
		return
	}

	resp = models.TelegramPostsResponse{
		Posts:       posts,
		ChannelInfo: info,
		Total:       len(posts),
		Limit:       limit,
	}
	s.cache.Set(resp, "channel", handle, strconv.Itoa(limit))

	c.JSON(http.StatusOK, trimMedia(resp, includeMedia))
}

func (s *NewsServer) GetChannelInfo(c *gin.Context) {
	handle := c.Param("handle")

	info, err := s.telegram.GetChannelInfo(handle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": errors.Wrapf(err, "failed to fetch channel info %s", handle).Error()})
		return
	}
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "channel not found or unavailable"})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (s *NewsServer) ListChannels(c *gin.Context) {
	channels := lo.Map(s.channels, func(handle string, _ int) models.TelegramChannel {
		return models.TelegramChannel{Username: handle}
	})
	c.JSON(http.StatusOK, models.TelegramChannelsResponse{
		Channels: channels,
		Total:    len(channels),
	})
}

// TelegramHealth probes the external service through the first configured
// channel.
func (s *NewsServer) TelegramHealth(c *gin.Context) {
	if len(s.channels) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "unhealthy", "service": "telegram", "error": "no channels configured"})
		return
	}

	_, err := s.telegram.GetChannelInfo(s.channels[0])
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "unhealthy", "service": "telegram", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "telegram"})
}

func (s *NewsServer) storageError(c *gin.Context, err error) {
	Logger.Log.Errorf("storage failure on %s: %v", c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch news"})
}

func toNewsItemResponse(item model.NewsItem) models.NewsItemResponse {
	resp := models.NewsItemResponse{
		Id:          item.Id,
		Title:       item.Title,
		Content:     item.Content,
		ContentHTML: item.ContentHTML,
		Link:        item.Link,
		PublishDate: item.PublishDate.UTC().Format(time.RFC3339),
		Category:    item.Category,
		ReadingTime: item.ReadingTime,
		ViewsCount:  item.ViewsCount,
		Author:      item.Author,
		Subtitle:    item.Subtitle,
	}
	if media, err := item.MediaList(); err == nil && len(media) > 0 {
		copier.Copy(&resp.Media, &media)
	}
	if item.Source != nil {
		resp.SourceName = item.Source.Name
	}
	return resp
}

func trimMedia(resp models.TelegramPostsResponse, includeMedia bool) models.TelegramPostsResponse {
	if includeMedia {
		return resp
	}
	posts := make([]collector.RawPost, len(resp.Posts))
	for i, post := range resp.Posts {
		post.Media = nil
		posts[i] = post
	}
	resp.Posts = posts
	return resp
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit = clampLimit(intQuery(c, "limit", DefaultPageLimit))
	offset = intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
