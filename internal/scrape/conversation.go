package scrape

import (
	"bytes"
	"regexp"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/api/types"
)

// StatusFetcher fetches the structured representation of a single status.
// The engine implements it; tests substitute their own.
type StatusFetcher interface {
	ShowStatus(statusID string, alternate bool) <-chan types.Outcome
}

// Conversation aggregates the statuses related to one root status,
// discovered from the root's HTML page.
type Conversation struct {
	RootID   string                   `json:"root_id"`
	Statuses []map[string]interface{} `json:"statuses"`
}

var statusIDPattern = regexp.MustCompile(`status/(\d+)`)

// ThreadScraper reconstructs conversations the structured API does not
// expose: it reads a status's HTML page, collects the ids of the other
// statuses rendered on it, and fans out one structured fetch per id.
type ThreadScraper struct {
	fetcher   StatusFetcher
	userAgent string
}

func NewThreadScraper(fetcher StatusFetcher, userAgent string) *ThreadScraper {
	return &ThreadScraper{fetcher: fetcher, userAgent: userAgent}
}

// Discover fetches the HTML page at address and builds the conversation it
// renders. Non-HTML documents yield an empty conversation.
func (s *ThreadScraper) Discover(address string) (Conversation, error) {
	fetched, err := fetchPage(address, s.userAgent)
	if err != nil {
		return Conversation{}, err
	}
	rootID, related := ExtractRelated(address, fetched.contentType, fetched.body)
	if len(related) == 0 {
		return Conversation{RootID: rootID}, nil
	}
	logrus.Debugf("found %d related statuses for %s", len(related), rootID)
	return s.BuildConversation(rootID, related), nil
}

// ExtractRelated parses a status page and returns the root status id (taken
// from the request address) plus the ids of every rendered, non-promoted
// status. Missing or non-HTML content types short-circuit with no output.
func ExtractRelated(requestURL, contentType string, body []byte) (string, []string) {
	if !isHTML(contentType) {
		logrus.Debugf("%s is not HTML, not checking for a conversation", requestURL)
		return "", nil
	}

	var rootID string
	if m := statusIDPattern.FindStringSubmatch(requestURL); m != nil {
		rootID = m[1]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logrus.Warnf("error parsing status page %s: %v", requestURL, err)
		return rootID, nil
	}

	var related []string
	doc.Find(".tweet").Each(func(_ int, sel *goquery.Selection) {
		if sel.HasClass("promoted-tweet") {
			return
		}
		if id, ok := sel.Attr("data-tweet-id"); ok && id != "" {
			related = append(related, id)
		}
	})
	return rootID, related
}

// BuildConversation fans out one independent structured fetch per related
// id and aggregates everything that could be fetched, keyed by the root id.
// The fetches carry no ordering guarantee between them; a failed fetch
// drops that status, never the conversation. The scraper is never
// re-invoked from here.
func (s *ThreadScraper) BuildConversation(rootID string, related []string) Conversation {
	fetched := make([]map[string]interface{}, len(related))
	var wg sync.WaitGroup
	for i, id := range related {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcome := <-s.fetcher.ShowStatus(id, false)
			if outcome.Success() && outcome.Object != nil {
				fetched[i] = outcome.Object
				return
			}
			logrus.Warnf("conversation %s: could not fetch status %s: %s", rootID, id, outcome.Error)
		}(i, id)
	}
	wg.Wait()

	conversation := Conversation{RootID: rootID}
	for _, status := range fetched {
		if status != nil {
			conversation.Statuses = append(conversation.Statuses, status)
		}
	}
	return conversation
}
