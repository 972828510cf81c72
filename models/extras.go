package models

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
)

// ChainContext carries the chain-level values covered by every
// signature but never shipped with the extrinsic. It is loaded once per
// connection and shared by all envelopes of a run.
type ChainContext struct {
	SpecVersion        types.U32
	TransactionVersion types.U32
	GenesisHash        types.Hash
}

// ExtrasParams is the per-envelope half of the signed-extras tuple:
// mortality, nonce and tip. It is built fresh for every envelope and
// consumed once at signing time.
type ExtrasParams struct {
	Era types.ExtrinsicEra
	// CheckpointHash is the block hash the era is anchored to. It must
	// reference the same block as the number the era was built from;
	// for immortal transactions it is the genesis hash.
	CheckpointHash *types.Hash
	Nonce          types.UCompact
	// HasNonce is false when no explicit nonce was supplied and the
	// signing layer is expected to resolve one. The submission pipeline
	// always sets an explicit nonce to guarantee ordering.
	HasNonce bool
	Tip      types.UCompact
}

type mortality struct {
	checkpointHash   types.Hash
	checkpointNumber uint64
	period           uint64
}

// ExtrasBuilder accumulates the optional adjustments to the signed
// extras of a single envelope. The zero value produces an immortal
// transaction with no tip and no explicit nonce.
type ExtrasBuilder struct {
	mortality *mortality
	tip       *big.Int
	nonce     *uint32
}

func NewExtrasBuilder() *ExtrasBuilder {
	return &ExtrasBuilder{}
}

// Mortal makes the transaction mortal for roughly period blocks
// (rounded to a power of two by the era encoding) starting at the given
// header. The header's hash must be the hash of that same header; this
// is a caller contract, not checked here.
func (b *ExtrasBuilder) Mortal(checkpointHash types.Hash, checkpointNumber uint64, period uint64) *ExtrasBuilder {
	b.mortality = &mortality{
		checkpointHash:   checkpointHash,
		checkpointNumber: checkpointNumber,
		period:           period,
	}
	return b
}

// Tip sets a tip for the block author in the chain's native token.
func (b *ExtrasBuilder) Tip(tip *big.Int) *ExtrasBuilder {
	b.tip = tip
	return b
}

// Nonce sets the account nonce explicitly instead of leaving it to the
// signing layer.
func (b *ExtrasBuilder) Nonce(nonce uint32) *ExtrasBuilder {
	n := nonce
	b.nonce = &n
	return b
}

// Build returns the full extras tuple. It always succeeds: unset
// adjustments fall back to immortal, zero tip and no explicit nonce.
func (b *ExtrasBuilder) Build() ExtrasParams {
	params := ExtrasParams{
		Era: NewImmortalEra(),
		Tip: types.NewUCompactFromUInt(0),
	}

	if b.mortality != nil {
		params.Era = NewMortalEra(b.mortality.period, b.mortality.checkpointNumber)
		if params.Era.IsMortalEra {
			hash := b.mortality.checkpointHash
			params.CheckpointHash = &hash
		}
	}

	if b.tip != nil {
		params.Tip = types.NewUCompact(b.tip)
	}

	if b.nonce != nil {
		params.Nonce = types.NewUCompactFromUInt(uint64(*b.nonce))
		params.HasNonce = true
	}

	return params
}
