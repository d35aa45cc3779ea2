package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/giftpropaganda/newsfeed/collector"
	"github.com/giftpropaganda/newsfeed/model"
	"github.com/giftpropaganda/newsfeed/models"
	"github.com/giftpropaganda/newsfeed/utils"
	"github.com/giftpropaganda/newsfeed/utils/dotenv"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

type stubChannelClient struct {
	info  *collector.ChannelInfo
	posts []collector.RawPost
	err   error
}

func (s *stubChannelClient) GetChannelInfo(handle string) (*collector.ChannelInfo, error) {
	return s.info, s.err
}

func (s *stubChannelClient) FetchPosts(handle string, limit int) ([]collector.RawPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

func newTestRouter(t *testing.T, db *gorm.DB, telegram collector.ChannelClient) *gin.Engine {
	t.Helper()
	router := gin.New()
	NewNewsServer(db, telegram, []string{"giftnews"}, nil).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.Nil(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func seedNews(t *testing.T, db *gorm.DB, count int, category string) []model.NewsItem {
	t.Helper()
	source := utils.TestCreateSource(t, db, "ChanX "+category, "https://t.me/chanx_"+category)
	items := make([]model.NewsItem, 0, count)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		item := utils.TestCreateNewsItem(t, db, source,
			category+" item "+string(rune('A'+i)), category, base.Add(time.Duration(i)*time.Hour))
		items = append(items, item)
	}
	return items
}

func TestListNewsPagination(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	seedNews(t, db, 5, "tech")

	var resp models.NewsResponse
	w := doRequest(t, router, "/api/news/?limit=2&offset=2", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(5), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.Pages)
}

func TestListNewsCategoryFilterAndOrder(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	seedNews(t, db, 3, "crypto")
	seedNews(t, db, 2, "tech")

	var resp models.NewsResponse
	w := doRequest(t, router, "/api/news/?category=crypto", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Data, 3)
	for _, item := range resp.Data {
		assert.Equal(t, "crypto", item.Category)
	}
	// publish_date descending
	for i := 1; i < len(resp.Data); i++ {
		assert.True(t, resp.Data[i-1].PublishDate >= resp.Data[i].PublishDate)
	}
}

func TestListNewsLimitClamp(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	seedNews(t, db, 3, "tech")

	var resp models.NewsResponse
	w := doRequest(t, router, "/api/news/?limit=100000", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Data, 3)
}

func TestGetNewsItemIncrementsViews(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	items := seedNews(t, db, 1, "tech")

	var first models.NewsItemResponse
	w := doRequest(t, router, "/api/news/"+items[0].Id, &first)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, first.ViewsCount)

	var second models.NewsItemResponse
	doRequest(t, router, "/api/news/"+items[0].Id, &second)
	assert.Equal(t, 2, second.ViewsCount)

	// listing does not bump the counter
	doRequest(t, router, "/api/news/", nil)
	var stored model.NewsItem
	require.Nil(t, db.First(&stored, "id = ?", items[0].Id).Error)
	assert.Equal(t, 2, stored.ViewsCount)
}

func TestGetNewsItemNotFound(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})

	w := doRequest(t, router, "/api/news/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategories(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	seedNews(t, db, 1, "crypto")

	var resp models.CategoriesResponse
	w := doRequest(t, router, "/api/categories/", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp.Categories, "crypto")
	assert.Contains(t, resp.Categories, "general")
}

func TestGetStats(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})
	seedNews(t, db, 3, "crypto")
	seedNews(t, db, 2, "tech")

	var resp models.StatsResponse
	w := doRequest(t, router, "/api/stats/", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), resp.TotalNews)
	assert.Equal(t, int64(3), resp.Categories["crypto"])
	assert.Equal(t, int64(2), resp.Categories["tech"])
	assert.NotEmpty(t, resp.LastUpdated)
}

func TestGetChannelPosts(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	stub := &stubChannelClient{
		info: &collector.ChannelInfo{Title: "Gift News", Username: "giftnews"},
		posts: []collector.RawPost{
			{Id: 1, Title: "Live post", Text: "Live post", Media: []model.Media{{Kind: model.MediaKindPhoto, URL: "https://cdn.example.org/p.jpg"}}},
		},
	}
	router := newTestRouter(t, db, stub)

	var resp models.TelegramPostsResponse
	w := doRequest(t, router, "/api/telegram/channel/giftnews?limit=10", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "Live post", resp.Posts[0].Title)
	require.NotNil(t, resp.ChannelInfo)
	assert.Equal(t, "Gift News", resp.ChannelInfo.Title)
	assert.Len(t, resp.Posts[0].Media, 1)

	// include_media=false strips descriptors
	var trimmed models.TelegramPostsResponse
	doRequest(t, router, "/api/telegram/channel/giftnews?limit=10&include_media=false", &trimmed)
	require.Len(t, trimmed.Posts, 1)
	assert.Empty(t, trimmed.Posts[0].Media)
}

func TestGetChannelInfoNotFound(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{info: nil})

	w := doRequest(t, router, "/api/telegram/channel/nope/info", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTelegramHealth(t *testing.T) {
	db, _ := utils.CreateTempDB(t)

	t.Run("healthy", func(t *testing.T) {
		router := newTestRouter(t, db, &stubChannelClient{info: &collector.ChannelInfo{Title: "Gift News"}})
		w := doRequest(t, router, "/api/telegram/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("unhealthy", func(t *testing.T) {
		router := newTestRouter(t, db, &stubChannelClient{err: errors.New("connection refused")})
		w := doRequest(t, router, "/api/telegram/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})
}

func TestLiveness(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	router := newTestRouter(t, db, &stubChannelClient{})

	for _, path := range []string{"/", "/health"} {
		w := doRequest(t, router, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
