// Package models holds the JSON shapes of the public REST API. They are kept
// apart from the gorm models so the wire format can evolve without touching
// the schema.
package models

import "github.com/giftpropaganda/newsfeed/collector"

// NewsItemResponse is one news item as served to the frontend.
type NewsItemResponse struct {
	Id          string            `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"content_html,omitempty"`
	Link        string            `json:"link"`
	PublishDate string            `json:"publish_date"`
	Category    string            `json:"category"`
	Media       []MediaResponse   `json:"media,omitempty"`
	ReadingTime int               `json:"reading_time,omitempty"`
	ViewsCount  int               `json:"views_count"`
	Author      string            `json:"author,omitempty"`
	Subtitle    string            `json:"subtitle,omitempty"`
	SourceName  string            `json:"source_name,omitempty"`
}

type MediaResponse struct {
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// NewsResponse is the paginated list envelope.
type NewsResponse struct {
	Data  []NewsItemResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Pages int                `json:"pages"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type StatsResponse struct {
	TotalNews   int64            `json:"total_news"`
	Categories  map[string]int64 `json:"categories"`
	LastUpdated string           `json:"last_updated"`
}

// TelegramPostsResponse is the live channel fetch envelope, it bypasses
// storage entirely.
type TelegramPostsResponse struct {
	Posts       []collector.RawPost    `json:"posts"`
	ChannelInfo *collector.ChannelInfo `json:"channel_info,omitempty"`
	Total       int                    `json:"total"`
	Limit       int                    `json:"limit"`
}

type TelegramChannel struct {
	Username    string `json:"username"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type TelegramChannelsResponse struct {
	Channels []TelegramChannel `json:"channels"`
	Total    int               `json:"total"`
}
