package scrape_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/masa-finance/birdnet/internal/scrape"
)

var _ = Describe("ExtractPreview", func() {
	const requestURL = "https://example.com/article"
	const htmlType = "text/html; charset=utf-8"

	It("extracts every Open Graph tag", func() {
		body := []byte(`<html><head>
			<meta property="og:title" content="An Article" />
			<meta property="og:description" content="Something happened" />
			<meta property="og:image" content="https://example.com/pic.jpg" />
			<meta property="og:url" content="https://example.com/canonical" />
		</head><body></body></html>`)

		preview, err := ExtractPreview(requestURL, htmlType, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.Title).To(Equal("An Article"))
		Expect(preview.Description).To(Equal("Something happened"))
		Expect(preview.Image).To(Equal("https://example.com/pic.jpg"))
	})

	It("always reports the request URL, not the document's canonical URL", func() {
		body := []byte(`<html><head>
			<meta property="og:title" content="An Article" />
			<meta property="og:url" content="https://example.com/canonical" />
		</head></html>`)

		preview, err := ExtractPreview(requestURL, htmlType, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.URL).To(Equal(requestURL))
	})

	It("takes the first occurrence of a repeated tag", func() {
		body := []byte(`<html><head>
			<meta property="og:title" content="First" />
			<meta property="og:title" content="Second" />
		</head></html>`)

		preview, err := ExtractPreview(requestURL, htmlType, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.Title).To(Equal("First"))
	})

	It("falls back to the request URL when the title tag is missing", func() {
		body := []byte(`<html><head>
			<meta property="og:description" content="No title here" />
		</head></html>`)

		preview, err := ExtractPreview(requestURL, htmlType, body)
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.Title).To(Equal(requestURL))
	})

	It("skips documents that are not HTML", func() {
		preview, err := ExtractPreview(requestURL, "application/json", []byte(`{"og:title":"nope"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(preview).To(BeNil())
	})

	It("fails on documents without any Open Graph tags, naming the source", func() {
		body := []byte(`<html><head><title>plain page</title></head></html>`)

		preview, err := ExtractPreview(requestURL, htmlType, body)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(requestURL))
		Expect(preview).To(BeNil())
	})

	It("decodes legacy charsets declared in the content type", func() {
		// "café" with an ISO-8859-1 encoded "é".
		body := []byte(`<html><head><meta property="og:title" content="caf`)
		body = append(body, 0xE9)
		body = append(body, []byte(`" /></head></html>`)...)

		preview, err := ExtractPreview(requestURL, "text/html; charset=iso-8859-1", body)
		Expect(err).NotTo(HaveOccurred())
		Expect(preview.Title).To(Equal("café"))
	})
})
