package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repository"
)

// StaticRoutes are the public pages that exist independently of any record.
var StaticRoutes = []string{"/", "/properties", "/blog", "/about", "/contact"}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is a single <url> entry.
type SitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type SitemapService struct {
	properties repository.PropertyRepository
	posts      repository.BlogRepository
	siteURL    string
	now        func() time.Time
}

func NewSitemapService(properties repository.PropertyRepository, posts repository.BlogRepository, siteURL string) *SitemapService {
	return &SitemapService{
		properties: properties,
		posts:      posts,
		siteURL:    strings.TrimRight(siteURL, "/"),
		now:        time.Now,
	}
}

// Entries lists static routes stamped with the current time, then one entry per
// property and per published post stamped with the record's update time.
func (s *SitemapService) Entries(ctx context.Context) ([]SitemapURL, error) {
	props, err := s.properties.ListAll(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	posts, err := s.posts.ListPublished(ctx, "", 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := lastMod(s.now())
	urls := make([]SitemapURL, 0, len(StaticRoutes)+len(props)+len(posts))
	for _, route := range StaticRoutes {
		urls = append(urls, SitemapURL{Loc: s.siteURL + route, LastMod: now})
	}
	for _, p := range props {
		urls = append(urls, SitemapURL{
			Loc:     fmt.Sprintf("%s/properties/%d", s.siteURL, p.ID),
			LastMod: lastMod(p.UpdatedAt),
		})
	}
	for _, post := range posts {
		urls = append(urls, SitemapURL{
			Loc:     s.siteURL + "/blog/" + post.Slug,
			LastMod: lastMod(post.UpdatedAt),
		})
	}
	return urls, nil
}

// Generate renders the sitemap XML document.
func (s *SitemapService) Generate(ctx context.Context) ([]byte, error) {
	urls, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	body, err := xml.MarshalIndent(sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return append([]byte(xml.Header), body...), nil
}

// Robots renders robots.txt, hiding the admin console and pointing at the sitemap.
func (s *SitemapService) Robots() string {
	return "User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/admin\n\nSitemap: " + s.siteURL + "/sitemap.xml\n"
}

func lastMod(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
