package scrape_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/masa-finance/birdnet/api/types"
	. "github.com/masa-finance/birdnet/internal/scrape"
)

// fakeStatusFetcher resolves status ids from a fixed map; unknown ids fail.
type fakeStatusFetcher struct {
	mu       sync.Mutex
	statuses map[string]map[string]interface{}
	fetched  []string
}

func (f *fakeStatusFetcher) ShowStatus(statusID string, alternate bool) <-chan types.Outcome {
	f.mu.Lock()
	f.fetched = append(f.fetched, statusID)
	f.mu.Unlock()

	out := make(chan types.Outcome, 1)
	if status, ok := f.statuses[statusID]; ok {
		out <- types.Outcome{Object: status, Key: statusID}
	} else {
		out <- types.Outcome{Error: "no status found with that ID", Key: statusID}
	}
	return out
}

const statusPage = `<html><body>
	<div class="tweet" data-tweet-id="100"></div>
	<div class="tweet promoted-tweet" data-tweet-id="666"></div>
	<div class="tweet" data-tweet-id="101"></div>
	<div class="tweet"></div>
	<div class="unrelated" data-tweet-id="999"></div>
</body></html>`

var _ = Describe("ExtractRelated", func() {
	const pageURL = "https://example.com/someone/status/100"

	It("collects rendered status ids, excluding promoted content", func() {
		rootID, related := ExtractRelated(pageURL, "text/html; charset=utf-8", []byte(statusPage))
		Expect(rootID).To(Equal("100"))
		Expect(related).To(Equal([]string{"100", "101"}))
	})

	It("returns nothing for non-HTML documents", func() {
		rootID, related := ExtractRelated(pageURL, "application/json", []byte(`{}`))
		Expect(rootID).To(BeEmpty())
		Expect(related).To(BeNil())
	})

	It("leaves the root id empty when the address does not name a status", func() {
		rootID, _ := ExtractRelated("https://example.com/home", "text/html", []byte(statusPage))
		Expect(rootID).To(BeEmpty())
	})
})

var _ = Describe("BuildConversation", func() {
	It("fans out one structured fetch per related status", func() {
		fetcher := &fakeStatusFetcher{statuses: map[string]map[string]interface{}{
			"100": {"id_str": "100"},
			"101": {"id_str": "101"},
			"102": {"id_str": "102"},
		}}
		scraper := NewThreadScraper(fetcher, "test-agent")

		conversation := scraper.BuildConversation("100", []string{"100", "101", "102"})
		Expect(conversation.RootID).To(Equal("100"))
		Expect(conversation.Statuses).To(HaveLen(3))
		Expect(fetcher.fetched).To(ConsistOf("100", "101", "102"))
	})

	It("drops statuses that cannot be fetched, keeping the rest", func() {
		fetcher := &fakeStatusFetcher{statuses: map[string]map[string]interface{}{
			"100": {"id_str": "100"},
			"102": {"id_str": "102"},
		}}
		scraper := NewThreadScraper(fetcher, "test-agent")

		conversation := scraper.BuildConversation("100", []string{"100", "101", "102"})
		Expect(conversation.Statuses).To(HaveLen(2))
		ids := []string{}
		for _, status := range conversation.Statuses {
			ids = append(ids, status["id_str"].(string))
		}
		Expect(ids).To(ConsistOf("100", "102"))
	})

	It("builds an empty conversation when nothing is related", func() {
		scraper := NewThreadScraper(&fakeStatusFetcher{}, "test-agent")

		conversation := scraper.BuildConversation("100", nil)
		Expect(conversation.RootID).To(Equal("100"))
		Expect(conversation.Statuses).To(BeEmpty())
	})
})
