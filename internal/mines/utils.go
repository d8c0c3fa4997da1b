package mines

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NewCryptoRand returns a generator backed by crypto/rand. Unlike a seeded
// PCG it is safe for concurrent use and its output cannot be predicted from
// earlier layouts.
func NewCryptoRand() *mrand.Rand {
	return mrand.New(cryptoSource{})
}
