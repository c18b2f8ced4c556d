package engine_test

import (
	"net/http"
	"net/url"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/masa-finance/birdnet/api/types"
	"github.com/masa-finance/birdnet/internal/engine"
	"github.com/masa-finance/birdnet/pkg/client"
)

type capturedCall struct {
	Method   string
	URL      string
	Params   url.Values
	Identity client.Identity
}

// fakeTransport records every exchange and answers via a scripted respond
// function.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []capturedCall
	respond func(call capturedCall) (*client.Response, error)
}

func (t *fakeTransport) record(method, rawURL string, params url.Values, id client.Identity) capturedCall {
	call := capturedCall{Method: method, URL: rawURL, Params: params, Identity: id}
	t.mu.Lock()
	t.calls = append(t.calls, call)
	t.mu.Unlock()
	return call
}

func (t *fakeTransport) Get(rawURL string, params url.Values, id client.Identity) (*client.Response, error) {
	return t.respond(t.record(http.MethodGet, rawURL, params, id))
}

func (t *fakeTransport) Post(rawURL string, params url.Values, id client.Identity) (*client.Response, error) {
	return t.respond(t.record(http.MethodPost, rawURL, params, id))
}

func (t *fakeTransport) PostMultipart(rawURL string, field, filename string, data []byte, params url.Values, id client.Identity) (*client.Response, error) {
	return t.respond(t.record(http.MethodPost, rawURL, params, id))
}

func (t *fakeTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func (t *fakeTransport) call(i int) capturedCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[i]
}

func jsonResponse(status int, body string) (*client.Response, error) {
	return &client.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}, nil
}

const blockedBody = `{"errors":[{"code":136,"message":"You have been blocked from viewing this content."}]}`

var _ = Describe("Engine", func() {
	var (
		transport *fakeTransport
		primary   = client.Identity{Name: "primary", Token: "primary-token"}
		alternate = client.Identity{Name: "alternate", Token: "alternate-token"}
		noSecond  = client.Identity{Name: "alternate"}
	)

	BeforeEach(func() {
		transport = &fakeTransport{}
	})

	Describe("Dispatch", func() {
		It("decodes object payloads and echoes the correlation key", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"id_str":"7","full_text":"hello"}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.ShowStatus("7", false)
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Key).To(Equal("7"))
			Expect(outcome.Object).To(HaveKeyWithValue("id_str", "7"))

			call := transport.call(0)
			Expect(call.Method).To(Equal(http.MethodGet))
			Expect(call.URL).To(ContainSubstring("statuses/show.json"))
			Expect(call.Params.Get("id")).To(Equal("7"))
			Expect(call.Params.Get("tweet_mode")).To(Equal("extended"))
			Expect(call.Identity.Name).To(Equal("primary"))
		})

		It("resolves positional identifiers into the path", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"id_str":"42"}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.Retweet("42")
			Expect(outcome.Success()).To(BeTrue())

			call := transport.call(0)
			Expect(call.Method).To(Equal(http.MethodPost))
			Expect(call.URL).To(ContainSubstring("statuses/retweet/42.json"))
			Expect(call.Params.Has("id")).To(BeFalse())
		})

		It("rejects unknown operations", func() {
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.Dispatch("no_such_operation", nil)
			Expect(outcome.Error).To(ContainSubstring("unknown operation"))
			Expect(transport.callCount()).To(Equal(0))
		})

		It("returns the fixed default error when the payload shape is wrong", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `["not","an","object"]`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.ShowUser("someone")
			Expect(outcome.Error).To(Equal("could not understand the upstream response"))
		})
	})

	Describe("search", func() {
		It("short-circuits empty queries without a network call", func() {
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.SearchTweets("")
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.List).To(BeEmpty())
			Expect(outcome.List).NotTo(BeNil())
			Expect(transport.callCount()).To(Equal(0))
		})

		It("plucks the statuses field and collapses reshares", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"statuses":[
					{"id_str":"1","retweeted_status":{"id_str":"100"}},
					{"id_str":"2","retweeted_status":{"id_str":"100"}},
					{"id_str":"100"},
					{"id_str":"3"}
				]}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.SearchTweets("gopher")
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.List).To(HaveLen(2))
			first := outcome.List[0].(map[string]interface{})
			Expect(first["id_str"]).To(Equal("1"))
			last := outcome.List[1].(map[string]interface{})
			Expect(last["id_str"]).To(Equal("3"))
		})
	})

	Describe("relationship changes", func() {
		It("forces the following flag after a follow", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"screen_name":"someone","following":false}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.FollowUser("someone")
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Object).To(HaveKeyWithValue("following", true))
			Expect(outcome.Key).To(Equal("someone"))
		})

		It("forces the following flag after an unfollow", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"screen_name":"someone","following":true}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.UnfollowUser("someone")
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Object).To(HaveKeyWithValue("following", false))
		})
	})

	Describe("timelines", func() {
		It("tags the first page when no cursor is supplied", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `[{"id_str":"1"}]`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.HomeTimeline("")
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.InitialPage).To(BeTrue())
		})

		It("tags continuation pages when a cursor is supplied", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `[{"id_str":"1"}]`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.HomeTimeline("12345")
			Expect(outcome.InitialPage).To(BeFalse())
			Expect(transport.call(0).Params.Get("max_id")).To(Equal("12345"))
		})
	})

	Describe("blocked-content fallback", func() {
		It("retries once under the alternate identity and delivers one outcome", func() {
			transport.respond = func(call capturedCall) (*client.Response, error) {
				if call.Identity.Name == "primary" {
					return jsonResponse(403, blockedBody)
				}
				return jsonResponse(200, `[{"id_str":"1"}]`)
			}
			eng := engine.New(transport, primary, alternate)

			ch := eng.UserTimeline("someone", false)
			outcome := <-ch
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.List).To(HaveLen(1))
			Expect(transport.callCount()).To(Equal(2))
			Expect(transport.call(0).Identity.Name).To(Equal("primary"))
			Expect(transport.call(1).Identity.Name).To(Equal("alternate"))

			// The channel must never carry a second outcome.
			Consistently(ch).ShouldNot(Receive())
		})

		It("does not retry when no alternate identity is configured", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(403, blockedBody)
			}
			eng := engine.New(transport, primary, noSecond)

			outcome := <-eng.UserTimeline("someone", false)
			Expect(outcome.Error).To(ContainSubstring("blocked"))
			Expect(outcome.Key).To(Equal("someone"))
			Expect(transport.callCount()).To(Equal(1))
		})

		It("does not retry a fallback exchange a second time", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(403, blockedBody)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.UserTimeline("someone", false)
			Expect(outcome.Success()).To(BeFalse())
			Expect(transport.callCount()).To(Equal(2))
		})

		It("never retries operations that do not allow fallback", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(403, blockedBody)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.ShowUser("someone")
			Expect(outcome.Success()).To(BeFalse())
			Expect(transport.callCount()).To(Equal(1))
		})
	})

	Describe("placeholder degradation", func() {
		It("synthesizes a placeholder status when a status stays unreachable", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(403, blockedBody)
			}
			eng := engine.New(transport, primary, noSecond)

			outcome := <-eng.ShowStatus("987", false)
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Key).To(Equal("987"))
			Expect(outcome.Object).To(HaveKeyWithValue("placeholder", true))
			Expect(outcome.Object).To(HaveKeyWithValue("id_str", "987"))
			Expect(outcome.Object).To(HaveKeyWithValue("full_text", "You have been blocked from viewing this content."))
			Expect(outcome.Object).To(HaveKeyWithValue("created_at", "Sun Jan 05 13:05:00 +0000 2020"))
			Expect(outcome.Object).To(HaveKey("user"))
			Expect(outcome.Object).To(HaveKey("entities"))
		})

		It("degrades to a placeholder when the fallback attempt is blocked too", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(403, blockedBody)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.ShowStatus("987", false)
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Object).To(HaveKeyWithValue("placeholder", true))
			Expect(transport.callCount()).To(Equal(2))
		})

		It("strips query suffixes from status ids before dispatching", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"id_str":"987"}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.ShowStatus("987?s=20", false)
			Expect(outcome.Key).To(Equal("987"))
			Expect(transport.call(0).Params.Get("id")).To(Equal("987"))
		})
	})

	Describe("media upload", func() {
		It("posts the payload as multipart and returns the remote object", func() {
			transport.respond = func(call capturedCall) (*client.Response, error) {
				Expect(call.URL).To(ContainSubstring("media/upload.json"))
				return jsonResponse(200, `{"media_id_string":"555"}`)
			}
			eng := engine.New(transport, primary, alternate)

			outcome := <-eng.UploadMedia([]byte{0x1, 0x2, 0x3})
			Expect(outcome.Success()).To(BeTrue())
			Expect(outcome.Object).To(HaveKeyWithValue("media_id_string", "555"))
		})
	})

	Describe("argument handling", func() {
		It("drops empty optional arguments", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"id_str":"1"}`)
			}
			eng := engine.New(transport, primary, alternate)

			<-eng.Tweet("hello world", "")
			call := transport.call(0)
			Expect(call.Params.Get("status")).To(Equal("hello world"))
			Expect(call.Params.Has("place_id")).To(BeFalse())
		})

		It("does not mutate caller arguments", func() {
			transport.respond = func(capturedCall) (*client.Response, error) {
				return jsonResponse(200, `{"id_str":"42"}`)
			}
			eng := engine.New(transport, primary, alternate)

			args := types.Args{"id": "42"}
			<-eng.Dispatch("retweet", args)
			Expect(args).To(Equal(types.Args{"id": "42"}))
		})
	})
})
