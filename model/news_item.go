package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

NewsItem is one ingested, categorized post

Id: primary key, use to identify a news item
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

SourceID:
Source: origin the item was pulled from, "belongs-to" relation. Nullable, a
		record may exist without a resolved source in degraded configurations.
Title: first line of the raw post text, truncated to 100 chars
Content: post's content in plain text
ContentHTML: HTML rendering of the content, with an <img> or <video> tag
		appended when the post carries a photo or video descriptor
Link: canonical permalink of the post
PublishDate: publish time reported by the origin
Category: keyword derived category label, defaults to "general"
Media: embedded list of media descriptors, serialized as a JSON column
ReadingTime: reading time estimate in minutes
ViewsCount: monotonically non-decreasing, incremented only by the read path
Author: name of the originating channel or feed
Subtitle: second line of the raw post text, truncated to 200 chars

(Title, SourceID) is the dedup key: the ingestion pipeline never inserts a
second item with an identical title under the same source. Items are created
by the pipeline, mutated by the API layer only to bump ViewsCount, and never
deleted by this system.
*/

type NewsItem struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SourceID    *string `gorm:"uniqueIndex:idx_news_items_title_source;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Source      *Source `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Title       string  `gorm:"uniqueIndex:idx_news_items_title_source"`
	Content     string
	ContentHTML string
	Link        string
	PublishDate time.Time `gorm:"index"`
	Category    string    `gorm:"index"`
	Media       datatypes.JSON
	ReadingTime int
	ViewsCount  int
	Author      string
	Subtitle    string
}
