package controllers_test

import (
	"encoding/xml"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSSFeed(t *testing.T) {
	e := newEnv(t)
	createPost(t, e, map[string]interface{}{"title": "Fresh Post", "content": "words", "tags": []string{"go"}, "published": true})
	createPost(t, e, map[string]interface{}{"title": "Hidden", "content": "words"})

	w := e.public(http.MethodGet, "/feed.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")

	var feed struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title      string   `xml:"title"`
				Link       string   `xml:"link"`
				Categories []string `xml:"category"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &feed))
	assert.Equal(t, "Test Portfolio", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 1)
	assert.Equal(t, "http://example.test/blog/fresh-post", feed.Channel.Items[0].Link)
	assert.Equal(t, []string{"go"}, feed.Channel.Items[0].Categories)
}

func TestSitemap(t *testing.T) {
	e := newEnv(t)
	createPost(t, e, map[string]interface{}{"title": "Mapped", "content": "x", "published": true})
	createProject(t, e, map[string]interface{}{"title": "Tool"})
	createProject(t, e, map[string]interface{}{"title": "Gone", "status": "archived"})

	w := e.public(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var set struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	locs := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		locs = append(locs, u.Loc)
	}
	assert.Equal(t, []string{
		"http://example.test/",
		"http://example.test/blog",
		"http://example.test/blog/mapped",
		"http://example.test/projects/tool",
	}, locs)
}
