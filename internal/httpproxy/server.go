package httpproxy

import (
	"github.com/openworld-ambassador/ambassador/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Server is the reverse HTTP proxy listener: it accepts all methods and
// paths, handles the two special client-facing routes, serves
// /metrics locally, and otherwise routes through Routing and the
// SecurePipeline.
type Server struct {
	ListenHost string
	ListenPort int

	Routing  RoutingConfiguration
	Pipeline SecurePipeline

	Log *logrus.Entry

	fasthttpServer *fasthttp.Server
}

// ListenAndServe starts the fasthttp.Server on addr, mirroring the
// teacher's ListenAndServeTLS wrapper pattern (server_fasthttp.go) but
// plain HTTP, since the core performs no TLS termination.
func (s *Server) ListenAndServe(addr string) error {
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(metrics.Handler())

	s.fasthttpServer = &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			path := string(ctx.Path())
			if path == "/metrics" {
				metricsHandler(ctx)
				return
			}
			s.handle(ctx)
		},
		Name: "ambassador-http-proxy",
	}

	return s.fasthttpServer.ListenAndServe(addr)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	switch path {
	case "/ow/mobileserver":
		ctx.SetStatusCode(200)
		ctx.SetContentType("text/xml")
		ctx.SetBody(MobileServerXML(s.ListenHost, s.ListenPort))
		metrics.HTTPRequestsTotal.WithLabelValues(path, "ok").Inc()
		return
	case "/ow/static/main.xml":
		ctx.SetStatusCode(200)
		ctx.SetContentType("text/xml")
		ctx.SetBody(MainXML(s.ListenHost, s.ListenPort))
		metrics.HTTPRequestsTotal.WithLabelValues(path, "ok").Inc()
		return
	}

	upstreamURL, err := s.Routing.Resolve(path)
	if err != nil {
		if s.Log != nil {
			s.Log.WithField("path", path).Info("no route")
		}
		ctx.SetStatusCode(404)
		metrics.HTTPRequestsTotal.WithLabelValues(path, "no_route").Inc()
		return
	}

	req := HTTPRequest{
		Method: string(ctx.Method()),
		URL:    upstreamURL,
		Body:   append([]byte(nil), ctx.PostBody()...),
	}
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		req.Headers = append(req.Headers, HeaderField{Name: string(k), Value: string(v)})
	})

	resp, err := s.Pipeline.Execute(req)
	if err != nil {
		if s.Log != nil {
			s.Log.WithError(err).Error("upstream request failed")
		}
		ctx.SetStatusCode(502)
		metrics.HTTPRequestsTotal.WithLabelValues(path, "upstream_error").Inc()
		return
	}

	ctx.SetStatusCode(resp.Status)
	for _, h := range resp.Headers {
		ctx.Response.Header.Set(h.Name, h.Value)
	}
	ctx.SetBody(resp.Body)

	outcome := "ok"
	if resp.Status == 403 {
		outcome = "blocked"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(path, outcome).Inc()
}
