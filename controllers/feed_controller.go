package controllers

import (
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

const feedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// FeedController renders the RSS feed and the sitemap.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

// buildURL joins escaped path segments onto base.
func buildURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(segments) == 0 {
		b.WriteByte('/')
	}
	return b.String()
}

// RSS returns the latest published posts as RSS 2.0.
func (f *FeedController) RSS(ctx *gin.Context) {
	f.serveXML(ctx, utils.CachePrefixFeeds+"rss", "application/rss+xml; charset=utf-8", func() (interface{}, error) {
		cfg := config.Get()
		var posts []models.BlogPost
		if err := f.db.Omit("content").Where("published = ?", true).
			Order("published_at DESC").Order("id DESC").Limit(feedSize).Find(&posts).Error; err != nil {
			return nil, err
		}

		items := make([]rssItem, 0, len(posts))
		for _, p := range posts {
			link := buildURL(cfg.BaseURL, "blog", p.Slug)
			item := rssItem{
				Title:       p.Title,
				Link:        link,
				Description: p.Excerpt,
				Categories:  []string(p.Tags),
				GUID:        link,
			}
			if p.PublishedAt != nil {
				item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
			}
			items = append(items, item)
		}
		channel := rssChannel{
			Title:       cfg.SiteTitle,
			Link:        buildURL(cfg.BaseURL),
			Description: cfg.SiteDescription,
			Items:       items,
		}
		if len(posts) > 0 && posts[0].PublishedAt != nil {
			channel.LastBuildDate = posts[0].PublishedAt.Format(time.RFC1123Z)
		}
		return rssXML{Version: "2.0", Channel: channel}, nil
	})
}

// Sitemap lists the static pages plus every published post, project and case study.
func (f *FeedController) Sitemap(ctx *gin.Context) {
	f.serveXML(ctx, utils.CachePrefixFeeds+"sitemap", "application/xml; charset=utf-8", func() (interface{}, error) {
		base := config.Get().BaseURL
		urls := []sitemapURL{{Loc: buildURL(base)}, {Loc: buildURL(base, "blog")}}

		var posts []models.BlogPost
		if err := f.db.Select("slug", "updated_at").Where("published = ?", true).Order("published_at DESC").Find(&posts).Error; err != nil {
			return nil, err
		}
		for _, p := range posts {
			urls = append(urls, sitemapURL{Loc: buildURL(base, "blog", p.Slug), LastMod: p.UpdatedAt.Format("2006-01-02")})
		}

		var projects []models.Project
		if err := f.db.Select("slug", "updated_at").Where("status <> ?", models.ProjectStatusArchived).Order("sort_order ASC").Find(&projects).Error; err != nil {
			return nil, err
		}
		for _, p := range projects {
			urls = append(urls, sitemapURL{Loc: buildURL(base, "projects", p.Slug), LastMod: p.UpdatedAt.Format("2006-01-02")})
		}

		var studies []models.CaseStudy
		if err := f.db.Select("slug", "updated_at").Where("published = ?", true).Order("sort_order ASC").Find(&studies).Error; err != nil {
			return nil, err
		}
		for _, cs := range studies {
			urls = append(urls, sitemapURL{Loc: buildURL(base, "case-studies", cs.Slug), LastMod: cs.UpdatedAt.Format("2006-01-02")})
		}

		return sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: urls}, nil
	})
}

// serveXML answers from cache when possible, otherwise builds, encodes and caches the document.
func (f *FeedController) serveXML(ctx *gin.Context, cacheKey, contentType string, build func() (interface{}, error)) {
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, contentType, b)
		return
	}
	doc, err := build()
	if err != nil {
		utils.Sugar.Errorw("build xml document", "key", cacheKey, "err", err)
		ctx.String(http.StatusInternalServerError, "failed to build document")
		return
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to encode document")
		return
	}
	out := append([]byte(xml.Header), body...)
	utils.CacheSetBytes(cacheKey, out, time.Hour)
	ctx.Data(http.StatusOK, contentType, out)
}
