package httpproxy

import (
	"github.com/valyala/fasthttp"
)

// FastHTTPExecutor is the production RequestExecutor, backed by a
// shared fasthttp.Client (safe for concurrent use across HTTP
// requests, matching the concurrency model's shared-executor
// requirement).
//
// Unlike the baseline aiohttp-based executor this replaces (Open
// Question 5 in spec.md §9), it forwards all four request fields —
// method, URL, headers, and body — to the upstream, the corrected,
// faithful behavior decided in SPEC_FULL.md.
type FastHTTPExecutor struct {
	Client *fasthttp.Client
}

// NewFastHTTPExecutor builds an executor around a freshly constructed
// fasthttp.Client, following the same acquire/release discipline the
// teacher uses around fasthttp.Request/fasthttp.Response.
func NewFastHTTPExecutor() *FastHTTPExecutor {
	return &FastHTTPExecutor{Client: &fasthttp.Client{}}
}

// Execute performs req against its upstream URL and translates the
// fasthttp response into an HTTPResponse, preserving header order as
// fasthttp visits them.
func (e *FastHTTPExecutor) Execute(req HTTPRequest) (HTTPResponse, error) {
	freq := fasthttp.AcquireRequest()
	fresp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(freq)
	defer fasthttp.ReleaseResponse(fresp)

	freq.Header.SetMethod(req.Method)
	freq.SetRequestURI(req.URL)
	for _, h := range req.Headers {
		freq.Header.Set(h.Name, h.Value)
	}
	if len(req.Body) > 0 {
		freq.SetBody(req.Body)
	}

	if err := e.Client.Do(freq, fresp); err != nil {
		return HTTPResponse{}, err
	}

	var headers []HeaderField
	fresp.Header.VisitAll(func(k, v []byte) {
		headers = append(headers, HeaderField{Name: string(k), Value: string(v)})
	})

	body := append([]byte(nil), fresp.Body()...)

	return HTTPResponse{
		Status:  fresp.StatusCode(),
		Headers: headers,
		Body:    body,
	}, nil
}
