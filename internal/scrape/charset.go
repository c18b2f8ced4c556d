package scrape

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding/htmlindex"
)

var charsetPattern = regexp.MustCompile(`charset\s*=[\s"']*([^\s"',>]*)`)

// documentCharset picks the charset to decode a document with, from its
// content-type response header. UTF-8 is the default; when the header
// declares charsets and none of them is UTF-8, the last declared token is
// used.
func documentCharset(contentType string) string {
	var available []string
	for _, match := range charsetPattern.FindAllStringSubmatch(contentType, -1) {
		available = append(available, strings.ToUpper(match[1]))
	}
	if len(available) > 0 && !slices.Contains(available, "UTF-8") {
		return available[len(available)-1]
	}
	return "UTF-8"
}

// decodeDocument converts raw document bytes into a string using the named
// charset. Unknown or broken charsets fall back to interpreting the bytes
// as UTF-8.
func decodeDocument(charset string, raw []byte) string {
	enc, err := htmlindex.Get(strings.ToLower(charset))
	if err != nil {
		logrus.Warnf("unknown charset %q, falling back to UTF-8", charset)
		return string(raw)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		logrus.Warnf("failed to decode document as %s: %v", charset, err)
		return string(raw)
	}
	return string(decoded)
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}
