package httpproxy

// HeaderField is one name/value pair, preserving the case in which it
// was received. HTTPResponse.Headers is an ordered list of these
// rather than a map so that the pipeline's "first occurrence wins"
// canonicalization rule (spec §4.5) has a well-defined insertion order
// to iterate, matching the teacher's own HeaderField convention for
// wire-level header handling.
type HeaderField struct {
	Name  string
	Value string
}

// HTTPRequest carries everything needed for one upstream HTTP call.
// Headers preserve the case in which they were received; the pipeline
// hands the request to the executor unchanged, and neither mutates the
// caller's slice.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers []HeaderField
	Body    []byte
}

// HTTPResponse is freshly allocated by the pipeline and independent of
// the executor's buffers after it returns.
type HTTPResponse struct {
	Status  int
	Headers []HeaderField
	Body    []byte
}

// Get returns the first value for name (case-sensitive), or "" if
// absent.
func (r HTTPResponse) Get(name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// RequestExecutor performs a single upstream HTTP request. Injected
// into SecurePipeline so the orchestration in pipeline.go can be tested
// against a mock.
type RequestExecutor interface {
	Execute(req HTTPRequest) (HTTPResponse, error)
}
