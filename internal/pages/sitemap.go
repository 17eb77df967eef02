package pages

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap returns the sitemap.xml document listing every routable view
// under baseURL.
func Sitemap(baseURL string) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, v := range views {
		e := urlEntry{Loc: base + v.Path, ChangeFreq: "weekly", Priority: "0.5"}
		if v.Path == "/" {
			e.ChangeFreq = "daily"
			e.Priority = "1.0"
		}
		set.URLs = append(set.URLs, e)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Robots returns robots.txt pointing crawlers at the sitemap.
func Robots(baseURL string) []byte {
	return []byte("User-agent: *\nAllow: /\nSitemap: " + strings.TrimSuffix(baseURL, "/") + "/sitemap.xml\n")
}
