package service

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CryptoRandomSource implements ports.RandomSource on crypto/rand.
// Outcomes are drawn from the kernel CSPRNG; there is no seed to manage
// and no way to replay a draw.
type CryptoRandomSource struct{}

// NewCryptoRandomSource creates the production random source.
func NewCryptoRandomSource() *CryptoRandomSource {
	return &CryptoRandomSource{}
}

// Float64 returns a uniform draw in [0, 1) with 53 bits of precision.
func (CryptoRandomSource) Float64() float64 {
	var buf [8]byte
	mustReadEntropy(buf[:])
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// Intn returns a uniform draw in [0, n). Panics if n <= 0.
func (CryptoRandomSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: Intn called with n=%d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("rng: entropy source failed: %v", err))
	}
	return int(v.Int64())
}

// Pick returns an index drawn proportionally to weights. Non-positive
// weights are skipped. Panics when no weight is positive.
func (CryptoRandomSource) Pick(weights []int) int {
	var total int64
	for _, w := range weights {
		if w > 0 {
			total += int64(w)
		}
	}
	if total <= 0 {
		panic("rng: Pick called with no positive weights")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(total))
	if err != nil {
		panic(fmt.Sprintf("rng: entropy source failed: %v", err))
	}
	target := v.Int64()
	var cum int64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += int64(w)
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

// NewSeed returns a random hex string attached to each round for
// display. Outcomes are not derived from it.
func NewSeed() string {
	var buf [16]byte
	mustReadEntropy(buf[:])
	return hex.EncodeToString(buf[:])
}

func mustReadEntropy(buf []byte) {
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("rng: entropy source failed: %v", err))
	}
}
