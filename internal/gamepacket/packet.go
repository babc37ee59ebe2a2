// Package gamepacket implements the game-packet codec: the on-wire
// envelope (length-prefixed payload, base64, XML wrapper, null
// terminator) and the minimal GamePacket value it carries.
package gamepacket

import (
	"encoding/binary"
	"errors"
)

// MinPacketLen is the minimum valid length of a GamePacket payload.
const MinPacketLen = 13

var (
	// ErrMalformedPacket is returned when a payload violates the
	// minimum-length or leading-byte invariant.
	ErrMalformedPacket = errors.New("gamepacket: malformed packet")

	// ErrMalformedEnvelope is returned when the on-wire envelope
	// doesn't parse: missing <m>...</m> markers or a base64-decoded
	// region shorter than the 4-byte length prefix.
	ErrMalformedEnvelope = errors.New("gamepacket: malformed envelope")
)

// Packet is an immutable value carrying a game packet payload. It is
// produced by Decode on receive and consumed by a session; it is never
// mutated after construction.
type Packet struct {
	data []byte
}

// New validates p and wraps it in a Packet. p must be at least
// MinPacketLen bytes long and must start with 0x01.
func New(p []byte) (Packet, error) {
	if len(p) < MinPacketLen {
		return Packet{}, ErrMalformedPacket
	}
	if p[0] != 0x01 {
		return Packet{}, ErrMalformedPacket
	}
	return Packet{data: p}, nil
}

// Data returns the packet's raw payload.
func (p Packet) Data() []byte {
	return p.data
}

// TypeNumber reads the big-endian uint16 packet type at offset 7.
func (p Packet) TypeNumber() uint16 {
	return binary.BigEndian.Uint16(p.data[7:9])
}
