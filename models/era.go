package models

import (
	"math/bits"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
)

const (
	// MinMortalPeriod is the smallest validity window the era encoding
	// can represent.
	MinMortalPeriod uint64 = 4
	// MaxMortalPeriod is the largest validity window the era encoding
	// can represent (2^16 blocks).
	MaxMortalPeriod uint64 = 1 << 16
)

// NewImmortalEra returns the era for a transaction without a validity
// window.
func NewImmortalEra() types.ExtrinsicEra {
	return types.ExtrinsicEra{IsImmortalEra: true}
}

// NewMortalEra returns the two-byte mortal era for a transaction valid
// for roughly period blocks starting at the given checkpoint block
// number. The period is rounded up to the next power of two and clamped
// to [MinMortalPeriod, MaxMortalPeriod]; a zero period yields an
// immortal era.
func NewMortalEra(period uint64, checkpoint uint64) types.ExtrinsicEra {
	if period == 0 {
		return NewImmortalEra()
	}

	period = RoundMortalPeriod(period)
	phase := checkpoint % period

	quantizeFactor := period >> 12
	if quantizeFactor < 1 {
		quantizeFactor = 1
	}
	quantizedPhase := phase / quantizeFactor * quantizeFactor

	// The low four bits carry the period exponent, the rest the
	// quantized phase.
	trailing := uint64(bits.TrailingZeros64(period))
	low := trailing - 1
	if low < 1 {
		low = 1
	}
	if low > 15 {
		low = 15
	}
	encoded := uint16(low) | uint16(quantizedPhase/quantizeFactor)<<4

	return types.ExtrinsicEra{
		IsMortalEra: true,
		AsMortalEra: types.MortalEra{
			First:  byte(encoded & 0xff),
			Second: byte(encoded >> 8),
		},
	}
}

// RoundMortalPeriod rounds a requested validity window up to the next
// power of two and clamps it to the range the era encoding supports.
func RoundMortalPeriod(period uint64) uint64 {
	if period <= MinMortalPeriod {
		return MinMortalPeriod
	}
	if period >= MaxMortalPeriod {
		return MaxMortalPeriod
	}

	if bits.OnesCount64(period) != 1 {
		period = 1 << uint(bits.Len64(period))
	}

	return period
}
