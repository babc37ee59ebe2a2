package gameproxy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTwoSessionsDoNotInterfere runs two independent sessions
// concurrently and confirms each only ever sees its own packets,
// matching the per-connection isolation spec.md §8 requires.
func TestTwoSessionsDoNotInterfere(t *testing.T) {
	runOne := func(tag uint16) []byte {
		client := newMemPacketQueue(packetWithType(t, tag), packetWithType(t, tag+1))
		upstream := newMemPacketQueue()

		s := &Session{Client: client, ClientW: client, Upstream: upstream}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Run(ctx))

		sent := upstream.Sent()
		require.Len(t, sent, 2)
		require.Equal(t, tag, sent[0].TypeNumber())
		require.Equal(t, tag+1, sent[1].TypeNumber())
		return sent[0].Data()
	}

	var wg sync.WaitGroup
	results := make([][]byte, 2)
	for i, tag := range []uint16{100, 200} {
		i, tag := i, tag
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runOne(tag)
		}()
	}
	wg.Wait()

	require.NotEqual(t, results[0], results[1])
}
