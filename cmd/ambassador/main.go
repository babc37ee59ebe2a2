// Command ambassador runs the two cooperating proxies described in
// SPEC_FULL.md: the game-packet proxy bridging a raw client
// byte-stream to an upstream websocket, and the reverse HTTP proxy
// routing client calls through a fixed set of path prefixes.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"

	"github.com/openworld-ambassador/ambassador/internal/config"
	"github.com/openworld-ambassador/ambassador/internal/gameproxy"
	"github.com/openworld-ambassador/ambassador/internal/httpproxy"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastrand"
)

var configPath = flag.String("config", "ambassador.ini", "path to the ambassador's INI configuration file")

func main() {
	flag.Parse()

	log := logrus.StandardLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	routing := httpproxy.RoutingConfiguration{
		MainAPIBaseURL:          cfg.HTTPForwarding.MainAPIBaseURL,
		MainCDNBaseURL:          cfg.HTTPForwarding.MainCDNBaseURL,
		ImageCDNBaseURL:         cfg.HTTPForwarding.ImageCDNBaseURL,
		GameImageCDNBaseURL:     cfg.HTTPForwarding.GameImageCDNBaseURL,
		CDNDynamicBaseURL:       cfg.HTTPForwarding.CDNDynamicBaseURL,
		CDNDynamicCommonBaseURL: cfg.HTTPForwarding.CDNDynamicCommonBaseURL,
	}

	pipeline := httpproxy.SecurePipeline{
		Executor: httpproxy.NewFastHTTPExecutor(),
		Log:      log.WithField("component", "secure-pipeline"),
	}

	httpServer := &httpproxy.Server{
		ListenHost: cfg.Listen.HTTPHost,
		ListenPort: cfg.Listen.HTTPPort,
		Routing:    routing,
		Pipeline:   pipeline,
		Log:        log.WithField("component", "http-proxy"),
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Listen.HTTPHost, cfg.Listen.HTTPPort)
		log.WithField("addr", addr).Info("http proxy listening")
		if err := httpServer.ListenAndServe(addr); err != nil {
			log.WithError(err).Fatal("http proxy stopped")
		}
	}()

	runGameProxy(cfg, log)
}

func runGameProxy(cfg *config.Config, log *logrus.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.Listen.GameHost, cfg.Listen.GamePort)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).Fatal("failed to listen for game connections")
	}
	defer ln.Close()

	log.WithField("addr", addr).Info("game proxy listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.WithError(err).Error("accept failed")
			continue
		}

		go handleGameConn(conn, cfg, log)
	}
}

func handleGameConn(conn net.Conn, cfg *config.Config, log *logrus.Logger) {
	sessionID := fastrand.Uint32n(1 << 30)
	sessionLog := log.WithFields(logrus.Fields{
		"component":  "game-proxy",
		"session_id": sessionID,
		"remote":     conn.RemoteAddr().String(),
	})

	upstream, err := gameproxy.DialUpstream(cfg.Forwarding.UpstreamGameWebsocket)
	if err != nil {
		sessionLog.WithError(err).Error("failed to dial upstream; closing client connection")
		conn.Close()
		return
	}

	client := gameproxy.NewStreamClient(conn)
	session := &gameproxy.Session{
		Client:   client,
		ClientW:  client,
		Upstream: upstream,
		Log:      sessionLog,
	}

	sessionLog.Info("session opened")
	if err := session.Run(context.Background()); err != nil {
		sessionLog.WithError(err).Warn("session closed with error")
	} else {
		sessionLog.Info("session closed")
	}
}
