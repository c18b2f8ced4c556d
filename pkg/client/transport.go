package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

const maxRateLimitRetries = 3

// Response is one completed network exchange: status, response headers and
// the raw body. The engine decides what the bytes mean.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// ContentType returns the content-type response header, or an empty string
// when the remote sent none.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// OK reports whether the exchange completed with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs signed HTTP exchanges under a chosen identity context.
type Transport interface {
	Get(rawURL string, params url.Values, id Identity) (*Response, error)
	Post(rawURL string, params url.Values, id Identity) (*Response, error)
	PostMultipart(rawURL string, field, filename string, data []byte, params url.Values, id Identity) (*Response, error)
}

// HTTPTransport is the production Transport. Rate-limited exchanges (429)
// are retried a bounded number of times, honoring Retry-After when the
// remote provides one.
type HTTPTransport struct {
	signer     Signer
	options    *Options
	httpClient *http.Client
}

// NewHTTPTransport creates a transport with functional options.
func NewHTTPTransport(signer Signer, opts ...Option) (*HTTPTransport, error) {
	options, err := NewOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create options: %w", err)
	}
	if signer == nil {
		signer = BearerSigner{}
	}
	return &HTTPTransport{
		signer:     signer,
		options:    options,
		httpClient: options.newHTTPClient(),
	}, nil
}

// HTTPClient exposes the configured http client.
func (t *HTTPTransport) HTTPClient() *http.Client {
	return t.httpClient
}

func (t *HTTPTransport) Get(rawURL string, params url.Values, id Identity) (*Response, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}
	logrus.Debugf("GET %s as %s", target, id.Name)
	return t.do(id, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("error creating GET request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

func (t *HTTPTransport) Post(rawURL string, params url.Values, id Identity) (*Response, error) {
	logrus.Debugf("POST %s as %s", rawURL, id.Name)
	encoded := params.Encode()
	return t.do(id, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, rawURL, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("error creating POST request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// PostMultipart uploads a byte payload as a multipart form. The payload is
// opaque to this layer: bytes in, bytes out.
func (t *HTTPTransport) PostMultipart(rawURL string, field, filename string, data []byte, params url.Values, id Identity) (*Response, error) {
	logrus.Debugf("POST multipart %s as %s (%d bytes)", rawURL, id.Name, len(data))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key := range params {
		if err := writer.WriteField(key, params.Get(key)); err != nil {
			return nil, fmt.Errorf("error writing multipart field %q: %w", key, err)
		}
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("error creating multipart file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("error writing multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing multipart body: %w", err)
	}

	body := buf.Bytes()
	contentType := writer.FormDataContentType()
	return t.do(id, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("error creating multipart request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// do runs one signed exchange, rebuilding the request on every rate-limit
// retry so the body can be replayed.
func (t *HTTPTransport) do(id Identity, newRequest func() (*http.Request, error)) (*Response, error) {
	backoffStrategy := backoff.NewExponentialBackOff()

	var resp *Response
	for attempt := 0; ; attempt++ {
		req, err := newRequest()
		if err != nil {
			return nil, err
		}
		if t.options.UserAgent != "" {
			req.Header.Set("User-Agent", t.options.UserAgent)
		}
		if err := t.signer.Sign(req, id); err != nil {
			return nil, fmt.Errorf("error signing request: %w", err)
		}

		httpResp, err := t.httpClient.Do(req)
		if err != nil {
			logrus.Errorf("error making %s request: %v", req.Method, err)
			return nil, fmt.Errorf("error making %s request: %w", req.Method, err)
		}

		body, err := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if err != nil {
			logrus.Errorf("error reading response body: %v", err)
			return nil, fmt.Errorf("error reading response body: %w", err)
		}

		resp = &Response{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Header:     httpResp.Header,
			Body:       body,
		}

		if httpResp.StatusCode != http.StatusTooManyRequests || attempt >= maxRateLimitRetries {
			return resp, nil
		}

		// Parse the Retry-After header (in seconds); fall back to the
		// exponential strategy when it is absent or unrecognized.
		nextDelay := backoffStrategy.NextBackOff()
		if retryAfter, convErr := strconv.Atoi(httpResp.Header.Get("Retry-After")); convErr == nil && retryAfter > 0 {
			nextDelay = time.Duration(retryAfter) * time.Second
		}
		logrus.Warnf("rate limited for URL %s, retrying after %v", req.URL, nextDelay)
		time.Sleep(nextDelay)
	}
}
