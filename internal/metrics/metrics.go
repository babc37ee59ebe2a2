// Package metrics exposes the ambassador's Prometheus metrics: session
// lifecycle, packet whitelist decisions, and HTTP route outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GameSessionsOpen tracks concurrently running game-proxy sessions.
	GameSessionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ambassador_game_sessions_open",
		Help: "Number of game-proxy sessions currently running.",
	})

	// GamePacketsTotal counts packets by pump direction and whether
	// they were forwarded or dropped by the type-number whitelist.
	GamePacketsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ambassador_game_packets_total",
		Help: "Game packets processed, by direction and action.",
	}, []string{"direction", "action"})

	// HTTPRequestsTotal counts HTTP proxy requests by route and
	// outcome.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ambassador_http_requests_total",
		Help: "HTTP proxy requests, by route and outcome.",
	}, []string{"route", "outcome"})
)

// Handler returns the standard net/http Prometheus handler; callers
// embedding it in a fasthttp server adapt it with fasthttpadaptor, the
// same idiom the teacher uses to bridge a single net/http-shaped
// dependency into its fasthttp-based server.
func Handler() http.Handler {
	return promhttp.Handler()
}
