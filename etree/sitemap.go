// Package etree builds the XML sitemap using github.com/beevik/etree.
package etree

import (
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/denote"
)

// SitemapNamespace is the sitemaps.org urlset namespace.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is advertised for every URL.
const ChangeFreq = "weekly"

// Sitemap priorities.
const (
	PriorityHome     = "1.0"
	PriorityIndex    = "0.8"
	PriorityDocument = "0.6"
)

// BuildSitemap returns sitemap.xml listing the site root, the docs index and
// every document under baseURL, each stamped with the date of lastmod.
func BuildSitemap(site *denote.Site, docs []*denote.Document, baseURL string, lastmod time.Time) ([]byte, error) {
	day := lastmod.UTC().Format(time.DateOnly)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", SitemapNamespace)

	addURL(urlset, baseURL+"/", day, PriorityHome)
	addURL(urlset, baseURL+site.BasePath, day, PriorityIndex)
	for _, d := range docs {
		addURL(urlset, baseURL+site.DocPath(d.Slug), day, PriorityDocument)
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, denote.Errorf(denote.EINTERNAL, "failed to write sitemap: %v", err)
	}
	return b, nil
}

func addURL(urlset *etree.Element, loc, day, priority string) {
	u := urlset.CreateElement("url")
	u.CreateElement("loc").SetText(loc)
	u.CreateElement("lastmod").SetText(day)
	u.CreateElement("changefreq").SetText(ChangeFreq)
	u.CreateElement("priority").SetText(priority)
}
