package api

import (
	crand "crypto/rand"
	"encoding/binary"
)

// randomSeed draws a non-zero seed from the OS entropy source.
func randomSeed() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	seed := binary.LittleEndian.Uint64(buf[:])
	if seed == 0 {
		seed = 1
	}
	return seed
}
