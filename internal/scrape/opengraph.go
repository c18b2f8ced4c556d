package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// LinkPreview is the metadata extracted from a document's Open Graph tags.
// The URL field always carries the original request address so previews
// stay comparable across calls.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// PreviewFetcher retrieves link-preview metadata for arbitrary addresses.
type PreviewFetcher struct {
	userAgent string
}

func NewPreviewFetcher(userAgent string) *PreviewFetcher {
	return &PreviewFetcher{userAgent: userAgent}
}

// Fetch downloads the document at address and extracts its link preview.
// Non-HTML documents yield (nil, nil).
func (f *PreviewFetcher) Fetch(address string) (*LinkPreview, error) {
	fetched, err := fetchPage(address, f.userAgent)
	if err != nil {
		return nil, err
	}
	return ExtractPreview(address, fetched.contentType, fetched.body)
}

// ExtractPreview scans an HTML document for Open Graph meta tags. The first
// match wins per tag; tags not found stay absent. A document with no
// recognizable tag at all is a scraping failure naming the source address.
// Documents whose content type is missing or not HTML produce no preview
// and no error.
func ExtractPreview(requestURL, contentType string, body []byte) (*LinkPreview, error) {
	if !isHTML(contentType) {
		logrus.Debugf("%s is not HTML, skipping link preview", requestURL)
		return nil, nil
	}

	charset := documentCharset(contentType)
	logrus.Debugf("link preview charset for %s: %s", requestURL, charset)
	document := decodeDocument(charset, body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("error parsing document from %s: %w", requestURL, err)
	}

	preview := &LinkPreview{}
	found := false
	if v, ok := metaProperty(doc, "og:url"); ok {
		preview.URL = v
		found = true
	}
	if v, ok := metaProperty(doc, "og:image"); ok {
		preview.Image = v
		found = true
	}
	if v, ok := metaProperty(doc, "og:description"); ok {
		preview.Description = v
		found = true
	}
	if v, ok := metaProperty(doc, "og:title"); ok {
		preview.Title = v
		found = true
	}

	if !found {
		return nil, fmt.Errorf("%s does not contain Open Graph data", requestURL)
	}

	// Always report the request URL, not any canonical URL from the
	// document, so results are comparable across calls.
	preview.URL = requestURL
	if preview.Title == "" {
		preview.Title = requestURL
	}
	return preview, nil
}

func metaProperty(doc *goquery.Document, property string) (string, bool) {
	return doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).First().Attr("content")
}
