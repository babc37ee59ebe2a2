package gamepacket

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
)

var (
	openTag  = []byte("<m>")
	closeTag = []byte("</m>")
	nul      = byte(0x00)
)

// Encode produces the on-wire envelope for p: "<m>" followed by the
// base64 of a 4-byte big-endian length prefix (the byte length of
// p.Data(), not of the enveloped form) concatenated with p.Data(),
// followed by "</m>" and a mandatory trailing NUL.
func Encode(p Packet) []byte {
	payload := p.Data()

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(payload)))

	raw := make([]byte, 0, len(lenPrefix)+len(payload))
	raw = append(raw, lenPrefix[:]...)
	raw = append(raw, payload...)

	encoded := base64.StdEncoding.EncodeToString(raw)

	out := make([]byte, 0, len(openTag)+len(encoded)+len(closeTag)+1)
	out = append(out, openTag...)
	out = append(out, encoded...)
	out = append(out, closeTag...)
	out = append(out, nul)
	return out
}

// Decode locates the first "<m>" in buf and takes the bytes up to (but
// not including) the first subsequent "</m>", base64-decodes that
// region, discards the 4-byte length prefix without re-verifying it
// against the remainder (see the baseline behavior noted in the design
// notes), and constructs a Packet from what remains.
//
// Decode accepts both NUL-terminated and non-terminated envelopes; any
// trailing NUL (or other trailing bytes) after "</m>" is ignored.
func Decode(buf []byte) (Packet, error) {
	start := bytes.Index(buf, openTag)
	if start < 0 {
		return Packet{}, ErrMalformedEnvelope
	}
	start += len(openTag)

	end := bytes.Index(buf[start:], closeTag)
	if end < 0 {
		return Packet{}, ErrMalformedEnvelope
	}

	region := buf[start : start+end]

	decoded, err := base64.StdEncoding.DecodeString(string(region))
	if err != nil {
		return Packet{}, ErrMalformedEnvelope
	}

	if len(decoded) < 4 {
		return Packet{}, ErrMalformedEnvelope
	}

	return New(decoded[4:])
}

// SplitEnvelope consumes buf up to and including the next NUL byte,
// returning the envelope bytes preceding it (exclusive) and the
// remainder of buf following it. It reports ok=false if buf contains no
// NUL yet, so the caller can keep buffering a raw byte stream.
func SplitEnvelope(buf []byte) (envelope, rest []byte, ok bool) {
	idx := bytes.IndexByte(buf, nul)
	if idx < 0 {
		return nil, buf, false
	}
	return buf[:idx], buf[idx+1:], true
}
