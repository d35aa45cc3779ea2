package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftpropaganda/newsfeed/model"
)

// TestCreateSource seeds one source and returns it, failing the test on any
// storage error.
func TestCreateSource(t *testing.T, db *gorm.DB, name, url string) model.Source {
	t.Helper()
	source := model.Source{
		Id:         uuid.New().String(),
		Name:       name,
		URL:        url,
		SourceType: model.SourceTypeTelegram,
		IsActive:   true,
	}
	require.Nil(t, db.Create(&source).Error)
	return source
}

// TestCreateNewsItem seeds one news item under the given source and returns
// it.
func TestCreateNewsItem(t *testing.T, db *gorm.DB, source model.Source, title, category string, publishDate time.Time) model.NewsItem {
	t.Helper()
	item := model.NewsItem{
		Id:          uuid.New().String(),
		SourceID:    &source.Id,
		Title:       title,
		Content:     title + " content",
		Link:        source.URL + "/" + title,
		PublishDate: publishDate,
		Category:    category,
		ReadingTime: 1,
		Author:      source.Name,
	}
	require.Nil(t, db.Create(&item).Error)
	return item
}
