package gameproxy

import (
	"fmt"
	"io"
	"net"

	"github.com/openworld-ambassador/ambassador/internal/gamepacket"
)

// readChunkSize is how much raw socket data StreamClient reads at a
// time while growing its pending buffer toward a complete envelope.
const readChunkSize = 4096

// StreamClient adapts a raw TCP connection to ClientReader and
// ClientWriter: null-terminated envelopes, exactly as spec.md §4.1
// describes framing on a raw byte stream.
type StreamClient struct {
	conn    net.Conn
	pending []byte
}

// NewStreamClient wraps conn.
func NewStreamClient(conn net.Conn) *StreamClient {
	return &StreamClient{conn: conn}
}

// ReadPacket splits the next envelope off the pending buffer via
// gamepacket.SplitEnvelope, reading more from the connection whenever
// the buffer doesn't yet contain a full NUL-terminated envelope.
func (c *StreamClient) ReadPacket() (gamepacket.Packet, error) {
	for {
		if envelope, rest, ok := gamepacket.SplitEnvelope(c.pending); ok {
			c.pending = rest
			return gamepacket.Decode(envelope)
		}

		chunk := make([]byte, readChunkSize)
		n, err := c.conn.Read(chunk)
		if n > 0 {
			c.pending = append(c.pending, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF && len(c.pending) > 0 {
				// A partial, unterminated tail at EOF is not a valid
				// envelope; treat it the same as any other malformed
				// input.
				return gamepacket.Packet{}, gamepacket.ErrMalformedEnvelope
			}
			return gamepacket.Packet{}, err
		}
	}
}

// WritePacket encodes pkt as one null-terminated envelope and writes it
// to the connection.
func (c *StreamClient) WritePacket(pkt gamepacket.Packet) error {
	_, err := c.conn.Write(gamepacket.Encode(pkt))
	if err != nil {
		return fmt.Errorf("gameproxy: writing to client: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *StreamClient) Close() error {
	return c.conn.Close()
}
