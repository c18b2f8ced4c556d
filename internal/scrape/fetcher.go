package scrape

import (
	"fmt"
	"time"

	"github.com/gocolly/colly"
	"github.com/sirupsen/logrus"
)

const fetchTimeout = 60 * time.Second

// page is one fetched document: the content-type response header and the
// raw body bytes.
type page struct {
	contentType string
	body        []byte
}

// fetchPage retrieves a single document. No crawling: the collector visits
// exactly the given address.
func fetchPage(address, userAgent string) (*page, error) {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	if userAgent != "" {
		c.UserAgent = userAgent
	}
	c.SetRequestTimeout(fetchTimeout)

	var fetched *page
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		fetched = &page{
			contentType: r.Headers.Get("Content-Type"),
			body:        r.Body,
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		logrus.Errorf("error fetching %s: %v", address, err)
		fetchErr = err
	})

	if err := c.Visit(address); err != nil {
		return nil, fmt.Errorf("error visiting %s: %w", address, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("error fetching %s: %w", address, fetchErr)
	}
	if fetched == nil {
		return nil, fmt.Errorf("no response received for %s", address)
	}
	return fetched, nil
}
