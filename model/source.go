package model

import (
	"time"
)

const (
	SourceTypeTelegram = "telegram"
	SourceTypeRss      = "rss"
)

/*

Source is a content origin news items are pulled from

Example: a Telegram channel, an RSS feed

Id: primary key, use to identify a source
CreatedAt: time when entity is created

Name: display name of the origin, for example the channel title
URL: origin locator, for example "https://t.me/giftnews"
SourceType: either "telegram" or "rss"
Category: source level default category, used when no per-post category is computed
IsActive: inactive sources are kept for history but skipped by ingestion

(Name, URL) is unique within the store. A source is created lazily by the
ingestion pipeline the first time a post from a new origin is seen, and is
never deleted automatically.
*/

type Source struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	Name       string `gorm:"uniqueIndex:idx_sources_name_url"`
	URL        string `gorm:"uniqueIndex:idx_sources_name_url"`
	SourceType string
	Category   string
	IsActive   bool       `gorm:"default:true"`
	NewsItems  []NewsItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}
