package parser

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/go-shiori/go-readability"

	"github.com/dtnitsch/quotes-etl/models"
)

type Parser struct{}

// PageMeta reads the page title, site name and excerpt of a fetched page.
// go-readability does the heavy lifting; when it cannot find a title the
// document's <title> is used instead.
func (p *Parser) PageMeta(rawURL string, html []byte) (models.PageMeta, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return models.PageMeta{}, errors.Wrapf(err, "parse url %q", rawURL)
	}

	meta := models.PageMeta{URL: rawURL}

	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(html), parsedURL)
	if err == nil {
		meta.Title = normalizeText(article.Title)
		meta.SiteName = normalizeText(article.SiteName)
		meta.Excerpt = normalizeText(article.Excerpt)
	}

	if meta.Title == "" {
		doc, derr := goquery.NewDocumentFromReader(bytes.NewReader(html))
		if derr != nil {
			return meta, errors.Wrap(derr, "parse html")
		}
		meta.Title = normalizeText(doc.Find("title").First().Text())
	}

	if err != nil {
		return meta, errors.Wrap(err, "readability")
	}
	return meta, nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
