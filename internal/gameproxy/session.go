// Package gameproxy implements the game-proxy session (C6): per
// connection, a paired client-side reader/writer and an upstream
// websocket, pumped concurrently with a fixed server→client
// type-number whitelist.
package gameproxy

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/openworld-ambassador/ambassador/internal/gamepacket"
	"github.com/openworld-ambassador/ambassador/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Whitelist is the fixed set of server→client packet type numbers the
// session is permitted to forward. It is fixed in code, not
// configured.
var Whitelist = map[uint16]bool{20: true}

// State is one of the session's three lifecycle states.
type State int

const (
	StateOpening State = iota
	StateRunning
	StateClosed
)

// ClientReader reads one GamePacket at a time from the raw
// client-side byte stream, using the C1 null-terminated envelope
// framing.
type ClientReader interface {
	ReadPacket() (gamepacket.Packet, error)
}

// ClientWriter writes one GamePacket to the raw client-side byte
// stream, enveloping it per C1.
type ClientWriter interface {
	WritePacket(gamepacket.Packet) error
	Close() error
}

// UpstreamConn reads and writes one GamePacket per websocket binary
// message.
type UpstreamConn interface {
	ReadPacket() (gamepacket.Packet, error)
	WritePacket(gamepacket.Packet) error
	Close() error
}

// Session is the per-connection state described in spec.md §4.6: two
// concurrent pumps for the session's lifetime, destroyed when either
// direction closes or fails. No reconnection: the client is expected to
// reconnect.
type Session struct {
	Client   ClientReader
	ClientW  ClientWriter
	Upstream UpstreamConn

	Log *logrus.Entry

	mu    sync.Mutex
	state State
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run drives both pumps until either fails or ctx is cancelled, then
// closes both writers and the upstream connection. It returns the
// first error observed from either pump or from ctx, except that
// io.EOF and context.Canceled are reported as nil; an expired ctx
// deadline is returned as context.DeadlineExceeded.
func (s *Session) Run(ctx context.Context) error {
	s.setState(StateRunning)
	metrics.GameSessionsOpen.Inc()
	defer metrics.GameSessionsOpen.Dec()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		errCh <- s.pumpClientToUpstream(ctx)
	}()
	go func() {
		defer wg.Done()
		errCh <- s.pumpUpstreamToClient(ctx)
	}()

	var first error
	select {
	case first = <-errCh:
	case <-ctx.Done():
		first = ctx.Err()
	}
	cancel()

	_ = s.ClientW.Close()
	_ = s.Upstream.Close()

	wg.Wait()
	s.setState(StateClosed)

	if errors.Is(first, context.Canceled) || errors.Is(first, io.EOF) {
		return nil
	}
	return first
}

// pumpClientToUpstream loops: read one GamePacket from the client,
// forward it verbatim to the upstream writer. No filtering, no
// buffering beyond one packet, order preserved within this direction.
func (s *Session) pumpClientToUpstream(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pkt, err := s.Client.ReadPacket()
		if err != nil {
			return err
		}

		if err := s.Upstream.WritePacket(pkt); err != nil {
			return err
		}
		metrics.GamePacketsTotal.WithLabelValues("client-to-upstream", "forwarded").Inc()
	}
}

// pumpUpstreamToClient loops: read one GamePacket per upstream binary
// message; forward to the client writer only if its type number is
// whitelisted, otherwise drop silently.
func (s *Session) pumpUpstreamToClient(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pkt, err := s.Upstream.ReadPacket()
		if err != nil {
			return err
		}

		if !Whitelist[pkt.TypeNumber()] {
			metrics.GamePacketsTotal.WithLabelValues("upstream-to-client", "dropped").Inc()
			continue
		}

		if err := s.ClientW.WritePacket(pkt); err != nil {
			return err
		}
		metrics.GamePacketsTotal.WithLabelValues("upstream-to-client", "forwarded").Inc()
	}
}
