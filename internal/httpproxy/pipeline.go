package httpproxy

import (
	"errors"
	"strings"

	"github.com/openworld-ambassador/ambassador/internal/swf"
	"github.com/sirupsen/logrus"
)

// blockedBody is the wire-exact body of a block response.
var blockedBody = []byte("bad swf blocked")

// ErrUpstream wraps a failure from the injected RequestExecutor.
var ErrUpstream = errors.New("httpproxy: upstream request failed")

// SecurePipeline orchestrates one upstream HTTP request: execute,
// canonicalize headers, strip hop-by-hop encodings, run the SWF gate,
// and decide to forward or block.
type SecurePipeline struct {
	Executor RequestExecutor

	// Blacklist and MaxFindings parameterize the SWF scan for testing;
	// production callers should leave Blacklist nil to use swf.Blacklist.
	Blacklist   []string
	MaxFindings int

	Log *logrus.Entry
}

// Execute runs the request through the pipeline described in SPEC_FULL
// §4.5. Any executor failure is wrapped in ErrUpstream; the HTTP layer
// is responsible for turning that into a 502-class response.
func (p SecurePipeline) Execute(req HTTPRequest) (HTTPResponse, error) {
	resp, err := p.Executor.Execute(req)
	if err != nil {
		return HTTPResponse{}, errors.Join(ErrUpstream, err)
	}

	headers := canonicalizeHeaders(resp.Headers)
	headers = stripHopByHop(headers)

	if swf.IsSWF(resp.Body) {
		return p.runSWFGate(resp.Body, resp.Status, headers)
	}

	return HTTPResponse{
		Status:  resp.Status,
		Headers: headers,
		Body:    resp.Body,
	}, nil
}

func (p SecurePipeline) runSWFGate(body []byte, status int, headers []HeaderField) (HTTPResponse, error) {
	decompressed, err := swf.Decompress(body)
	if err != nil {
		// A body we cannot parse safely must not reach the client.
		p.logBlock(nil, err)
		return blockedResponse(), nil
	}

	blacklist := p.Blacklist
	if blacklist == nil {
		blacklist = swf.Blacklist
	}

	matches := swf.Scan(decompressed, blacklist, p.MaxFindings)
	if len(matches) > 0 {
		p.logBlock(matches, nil)
		return blockedResponse(), nil
	}

	return HTTPResponse{Status: status, Headers: headers, Body: body}, nil
}

func (p SecurePipeline) logBlock(matches []string, err error) {
	if p.Log == nil {
		return
	}
	entry := p.Log
	if err != nil {
		entry = entry.WithError(err)
	}
	if matches != nil {
		entry = entry.WithField("matches", matches)
	}
	entry.Warn("blocked SWF response")
}

func blockedResponse() HTTPResponse {
	return HTTPResponse{
		Status:  403,
		Headers: nil,
		Body:    append([]byte(nil), blockedBody...),
	}
}

// canonicalizeHeaders builds a new, ordered list keyed by Title-Case
// header names: iterate headers in insertion order; for each name,
// compute its Title-Case form; if that form hasn't been seen yet,
// insert it with the corresponding value. First occurrence wins;
// subsequent casings of the same logical header are dropped.
func canonicalizeHeaders(headers []HeaderField) []HeaderField {
	out := make([]HeaderField, 0, len(headers))
	seen := make(map[string]bool, len(headers))

	for _, h := range headers {
		canon := titleCase(h.Name)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, HeaderField{Name: canon, Value: h.Value})
	}
	return out
}

// stripHopByHop deletes Content-Encoding and Transfer-Encoding (by
// their Title-Case names) so the SWF scanner always sees raw bytes;
// leaving either header would let the client re-interpret the body
// differently than the scanner did.
func stripHopByHop(headers []HeaderField) []HeaderField {
	out := make([]HeaderField, 0, len(headers))
	for _, h := range headers {
		if h.Name == "Content-Encoding" || h.Name == "Transfer-Encoding" {
			continue
		}
		out = append(out, h)
	}
	return out
}

// titleCase upper-cases the first letter and every letter following a
// '-', lower-casing everything else.
func titleCase(name string) string {
	b := []byte(strings.ToLower(name))
	upperNext := true
	for i, c := range b {
		if upperNext && c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
		upperNext = c == '-'
	}
	return string(b)
}
