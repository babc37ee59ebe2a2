package gameproxy

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/openworld-ambassador/ambassador/internal/gamepacket"
	"github.com/stretchr/testify/require"
)

// memPacketQueue is an in-memory mock modeled after the Python
// codebase's MockGamePacketSender recorder
// (original_source/requiem_ambassador/game_proxy/packets.py).
//
// ReadPacket blocks until either a queued packet is available or the
// queue is closed (returning io.EOF then), so tests can control
// exactly which direction of a session observes end-of-stream first.
type memPacketQueue struct {
	toSend chan gamepacket.Packet
	sent   struct {
		mu   sync.Mutex
		pkts []gamepacket.Packet
	}
}

// newMemPacketQueue builds a queue pre-loaded with packets. If any
// packets are given, the queue closes itself once they're all read,
// so the reading pump naturally observes end-of-stream (io.EOF) next.
// Called with no packets, the queue stays open indefinitely — modeling
// a direction with nothing to say, torn down only by the session's own
// teardown Close() call.
func newMemPacketQueue(packets ...gamepacket.Packet) *memPacketQueue {
	q := &memPacketQueue{toSend: make(chan gamepacket.Packet, len(packets)+1)}
	for _, p := range packets {
		q.toSend <- p
	}
	if len(packets) > 0 {
		close(q.toSend)
	}
	return q
}

func (q *memPacketQueue) ReadPacket() (gamepacket.Packet, error) {
	p, ok := <-q.toSend
	if !ok {
		return gamepacket.Packet{}, io.EOF
	}
	return p, nil
}

func (q *memPacketQueue) WritePacket(p gamepacket.Packet) error {
	q.sent.mu.Lock()
	defer q.sent.mu.Unlock()
	q.sent.pkts = append(q.sent.pkts, p)
	return nil
}

func (q *memPacketQueue) Close() error {
	defer func() { recover() }() // tolerate repeated Close, as Session.Run may call it after EOF already closed it
	close(q.toSend)
	return nil
}

func (q *memPacketQueue) Sent() []gamepacket.Packet {
	q.sent.mu.Lock()
	defer q.sent.mu.Unlock()
	return append([]gamepacket.Packet(nil), q.sent.pkts...)
}

func packetWithType(t *testing.T, typeNumber uint16) gamepacket.Packet {
	t.Helper()
	data := make([]byte, gamepacket.MinPacketLen)
	data[0] = 0x01
	data[7] = byte(typeNumber >> 8)
	data[8] = byte(typeNumber)
	pkt, err := gamepacket.New(data)
	require.NoError(t, err)
	return pkt
}

func TestSessionDropsNonWhitelistedServerPackets(t *testing.T) {
	for _, tn := range []uint16{0, 1, 19, 21, 1000, 65535} {
		tn := tn
		t.Run("", func(t *testing.T) {
			client := newMemPacketQueue() // client never sends; blocks until session closes
			upstream := newMemPacketQueue(packetWithType(t, tn))

			s := &Session{Client: client, ClientW: client, Upstream: upstream}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = s.Run(ctx)

			require.Empty(t, client.Sent())
		})
	}
}

func TestSessionForwardsWhitelistedServerPacket(t *testing.T) {
	client := newMemPacketQueue()
	pkt := packetWithType(t, 20)
	upstream := newMemPacketQueue(pkt)

	s := &Session{Client: client, ClientW: client, Upstream: upstream}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Run(ctx)

	sent := client.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, pkt.Data(), sent[0].Data())
}

func TestSessionForwardsAllClientPacketsUnfiltered(t *testing.T) {
	upstream := newMemPacketQueue() // upstream never sends; blocks until client side ends the session
	pkt1 := packetWithType(t, 1)
	pkt2 := packetWithType(t, 9999)
	client := newMemPacketQueue(pkt1, pkt2)

	s := &Session{Client: client, ClientW: client, Upstream: upstream}
	err := s.Run(context.Background())
	require.NoError(t, err)

	sent := upstream.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, pkt1.Data(), sent[0].Data())
	require.Equal(t, pkt2.Data(), sent[1].Data())
}

func TestSessionClosesOnContextCancellation(t *testing.T) {
	client := newMemPacketQueue()
	upstream := newMemPacketQueue()

	s := &Session{Client: client, ClientW: client, Upstream: upstream}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	require.True(t, err == nil || errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, StateClosed, s.State())
}
