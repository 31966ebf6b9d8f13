package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// ByteStream produces the provably-fair byte sequence for one
// (serverSeed, clientSeed, nonce) triple. Each 32-byte round is
// HMAC-SHA256(serverSeed, "clientSeed:nonce:round"); consuming past a
// round boundary advances to the next round.
type ByteStream struct {
	serverSeed string
	clientSeed string
	nonce      uint64
	round      uint64
	pos        int
	buffer     [32]byte
}

// NewByteStream creates a byte stream positioned at the given cursor
// (a byte offset into the overall sequence).
func NewByteStream(serverSeed, clientSeed string, nonce, cursor uint64) *ByteStream {
	bs := &ByteStream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
		round:      cursor / 32,
		pos:        int(cursor % 32),
	}
	bs.fill()
	return bs
}

// Next returns the next byte of the stream.
func (bs *ByteStream) Next() byte {
	if bs.pos >= 32 {
		bs.round++
		bs.pos = 0
		bs.fill()
	}
	b := bs.buffer[bs.pos]
	bs.pos++
	return b
}

// NextFloat consumes exactly 8 bytes and maps them into [0, 1).
func (bs *ByteStream) NextFloat() float64 {
	var b [8]byte
	for i := range b {
		b[i] = bs.Next()
	}
	return bytesToFloat(b)
}

func (bs *ByteStream) fill() {
	h := hmac.New(sha256.New, []byte(bs.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", bs.clientSeed, bs.nonce, bs.round)
	h.Write([]byte(message))
	copy(bs.buffer[:], h.Sum(nil))
}

// bytesToFloat keeps the top 53 bits of the 8-byte big-endian integer
// and scales them into [0, 1), so every float carries the full
// mantissa width of entropy. The result is always in [0, 1).
func bytesToFloat(bytes [8]byte) float64 {
	u := binary.BigEndian.Uint64(bytes[:])
	return float64(u>>11) / (1 << 53)
}

// Floats derives count uniform floats in [0, 1) for the given triple,
// starting at the given byte cursor. Identical inputs always yield
// identical outputs, so any outcome can be reproduced offline from the
// revealed seeds and nonce alone.
func Floats(serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	bs := NewByteStream(serverSeed, clientSeed, nonce, cursor)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		floats[i] = bs.NextFloat()
	}
	return floats
}

// FloatsInto fills dst with count floats, reusing dst when it is large
// enough. Used on hot paths to avoid per-wager allocations.
func FloatsInto(dst []float64, serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	if len(dst) < count {
		dst = make([]float64, count)
	}
	bs := NewByteStream(serverSeed, clientSeed, nonce, cursor)
	for i := 0; i < count; i++ {
		dst[i] = bs.NextFloat()
	}
	return dst[:count]
}
