// Package swf implements the SWF decompressor (C2) and the SWF library
// scanner (C3): detecting one of the three SWF magic signatures,
// returning the decompressed body, and scanning it against the fixed
// dangerous-library blacklist.
package swf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// headerLen is the size of the fixed SWF header (3-byte magic, 1-byte
// version, 4-byte file length) that every variant shares.
const headerLen = 8

// ErrBadSwfHeader is returned when a body begins with an SWF magic but
// the header is malformed or the compressed stream cannot be decoded.
var ErrBadSwfHeader = errors.New("swf: bad header")

var (
	magicFWS = []byte("FWS")
	magicCWS = []byte("CWS")
	magicZWS = []byte("ZWS")
)

// IsSWF reports whether b begins with one of the three SWF magic
// signatures.
func IsSWF(b []byte) bool {
	if len(b) < 3 {
		return false
	}
	prefix := b[:3]
	return bytes.Equal(prefix, magicFWS) ||
		bytes.Equal(prefix, magicCWS) ||
		bytes.Equal(prefix, magicZWS)
}

// Decompress classifies b by its first three bytes and returns the
// payload following the 8-byte fixed header, uncompressed regardless of
// the original compression. It does not further parse SWF tags.
func Decompress(b []byte) ([]byte, error) {
	if len(b) < headerLen {
		return nil, ErrBadSwfHeader
	}

	switch {
	case bytes.Equal(b[:3], magicFWS):
		return b[headerLen:], nil
	case bytes.Equal(b[:3], magicCWS):
		return decompressZlib(b[headerLen:])
	case bytes.Equal(b[:3], magicZWS):
		return decompressLZMA(b[headerLen:])
	default:
		return nil, ErrBadSwfHeader
	}
}

func decompressZlib(body []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, ErrBadSwfHeader
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, ErrBadSwfHeader
	}
	return out, nil
}

// lzmaPropsLen is the size of the LZMA properties used by the SWF ZWS
// variant (one byte encoding the lc/lp/pb triplet + 4-byte dictionary
// size).
const lzmaPropsLen = 5

// unknownSizeMarker is the 8-byte uncompressed-size field value (all
// 0xFF) that a standard .lzma header carries, right after the
// properties, when the uncompressed size is unknown.
var unknownSizeMarker = bytes.Repeat([]byte{0xFF}, 8)

// decompressLZMA skips the 4-byte stored uncompressed size that
// follows the fixed SWF header in a ZWS file, reads the 5-byte LZMA
// properties, and synthesizes a standard LZMA1 stream (properties +
// unknown-size marker + compressed data) that lzma.NewReader can
// decode directly.
func decompressLZMA(body []byte) ([]byte, error) {
	if len(body) < 4+lzmaPropsLen {
		return nil, ErrBadSwfHeader
	}

	props := body[4 : 4+lzmaPropsLen]
	compressed := body[4+lzmaPropsLen:]

	synthesized := make([]byte, 0, lzmaPropsLen+len(unknownSizeMarker)+len(compressed))
	synthesized = append(synthesized, props...)
	synthesized = append(synthesized, unknownSizeMarker...)
	synthesized = append(synthesized, compressed...)

	lr, err := lzma.NewReader(bytes.NewReader(synthesized))
	if err != nil {
		return nil, ErrBadSwfHeader
	}

	out, err := io.ReadAll(lr)
	if err != nil {
		return nil, ErrBadSwfHeader
	}
	return out, nil
}
