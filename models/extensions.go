package models

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v2/scale"
)

// Extension is one slot of the chain's signed-extras tuple. EncodeExtra
// writes the bytes shipped inside the extrinsic, EncodeAdditional the
// bytes covered by the signature only. Both may write nothing for
// zero-width slots; the slot still occupies its tuple position, since
// position fixes the byte layout.
type Extension interface {
	Identifier() string
	EncodeExtra(p ExtrasParams, encoder scale.Encoder) error
	EncodeAdditional(p ExtrasParams, ctx ChainContext, encoder scale.Encoder) error
}

// UnmatchedExtensionError reports a signed extension declared by the
// chain for which no local implementation exists. An envelope built
// without it would be unverifiable, so matching fails loudly instead of
// guessing compatibility.
type UnmatchedExtensionError struct {
	Identifier string
}

func (e *UnmatchedExtensionError) Error() string {
	return fmt.Sprintf("no local implementation for signed extension %q", e.Identifier)
}

// DefaultExtensions returns the local extension set in the tuple order
// the Eden runtime uses.
func DefaultExtensions() []Extension {
	return []Extension{
		CheckSpecVersion{},
		CheckTxVersion{},
		CheckGenesis{},
		CheckMortality{},
		CheckNonce{},
		CheckWeight{},
		ChargeTransactionPayment{},
		ChargeSponsor{},
	}
}

// MatchExtensions resolves each identifier declared in the chain
// metadata against the given local implementations by exact string
// equality. The result preserves the declared order, which is the order
// the slots are encoded in.
func MatchExtensions(declared []string, local []Extension) ([]Extension, error) {
	byName := make(map[string]Extension, len(local))
	for _, ext := range local {
		byName[ext.Identifier()] = ext
	}

	matched := make([]Extension, 0, len(declared))
	for _, identifier := range declared {
		ext, ok := byName[identifier]
		if !ok {
			return nil, &UnmatchedExtensionError{Identifier: identifier}
		}
		matched = append(matched, ext)
	}

	return matched, nil
}

// CheckSpecVersion pins the envelope to the runtime spec version.
type CheckSpecVersion struct{}

func (CheckSpecVersion) Identifier() string { return "CheckSpecVersion" }

func (CheckSpecVersion) EncodeExtra(_ ExtrasParams, _ scale.Encoder) error { return nil }

func (CheckSpecVersion) EncodeAdditional(_ ExtrasParams, ctx ChainContext, encoder scale.Encoder) error {
	return encoder.Encode(ctx.SpecVersion)
}

// CheckTxVersion pins the envelope to the runtime transaction version.
type CheckTxVersion struct{}

func (CheckTxVersion) Identifier() string { return "CheckTxVersion" }

func (CheckTxVersion) EncodeExtra(_ ExtrasParams, _ scale.Encoder) error { return nil }

func (CheckTxVersion) EncodeAdditional(_ ExtrasParams, ctx ChainContext, encoder scale.Encoder) error {
	return encoder.Encode(ctx.TransactionVersion)
}

// CheckGenesis pins the envelope to the chain's genesis hash.
type CheckGenesis struct{}

func (CheckGenesis) Identifier() string { return "CheckGenesis" }

func (CheckGenesis) EncodeExtra(_ ExtrasParams, _ scale.Encoder) error { return nil }

func (CheckGenesis) EncodeAdditional(_ ExtrasParams, ctx ChainContext, encoder scale.Encoder) error {
	return encoder.Encode(ctx.GenesisHash)
}

// CheckMortality ships the era with the extrinsic and signs over the
// checkpoint block hash the era is anchored to.
type CheckMortality struct{}

func (CheckMortality) Identifier() string { return "CheckMortality" }

func (CheckMortality) EncodeExtra(p ExtrasParams, encoder scale.Encoder) error {
	return encoder.Encode(p.Era)
}

func (CheckMortality) EncodeAdditional(p ExtrasParams, ctx ChainContext, encoder scale.Encoder) error {
	if p.Era.IsMortalEra && p.CheckpointHash != nil {
		return encoder.Encode(*p.CheckpointHash)
	}
	return encoder.Encode(ctx.GenesisHash)
}

// CheckNonce ships the account nonce as a compact integer.
type CheckNonce struct{}

func (CheckNonce) Identifier() string { return "CheckNonce" }

func (CheckNonce) EncodeExtra(p ExtrasParams, encoder scale.Encoder) error {
	return encoder.Encode(p.Nonce)
}

func (CheckNonce) EncodeAdditional(_ ExtrasParams, _ ChainContext, _ scale.Encoder) error {
	return nil
}

// CheckWeight contributes no bytes on the wire in the Eden runtime; the
// slot position is kept so the layout matches the declared order.
type CheckWeight struct{}

func (CheckWeight) Identifier() string { return "CheckWeight" }

func (CheckWeight) EncodeExtra(_ ExtrasParams, _ scale.Encoder) error { return nil }

func (CheckWeight) EncodeAdditional(_ ExtrasParams, _ ChainContext, _ scale.Encoder) error {
	return nil
}

// ChargeTransactionPayment ships the tip as a compact integer.
type ChargeTransactionPayment struct{}

func (ChargeTransactionPayment) Identifier() string { return "ChargeTransactionPayment" }

func (ChargeTransactionPayment) EncodeExtra(p ExtrasParams, encoder scale.Encoder) error {
	return encoder.Encode(p.Tip)
}

func (ChargeTransactionPayment) EncodeAdditional(_ ExtrasParams, _ ChainContext, _ scale.Encoder) error {
	return nil
}

// ChargeSponsor is the Eden fee-sponsorship marker. Like CheckWeight it
// is zero-width on the wire but must keep its tuple position.
type ChargeSponsor struct{}

func (ChargeSponsor) Identifier() string { return "ChargeSponsor" }

func (ChargeSponsor) EncodeExtra(_ ExtrasParams, _ scale.Encoder) error { return nil }

func (ChargeSponsor) EncodeAdditional(_ ExtrasParams, _ ChainContext, _ scale.Encoder) error {
	return nil
}

// SignedExtra binds a matched, ordered extension set to the parameters
// of one envelope.
type SignedExtra struct {
	Extensions []Extension
	Params     ExtrasParams
	Context    ChainContext
}

// EncodeExtra writes the concatenated extra bytes of every slot in
// tuple order.
func (e SignedExtra) EncodeExtra(encoder scale.Encoder) error {
	for _, ext := range e.Extensions {
		err := ext.EncodeExtra(e.Params, encoder)
		if err != nil {
			return fmt.Errorf("could not encode extra for %s: %w", ext.Identifier(), err)
		}
	}
	return nil
}

// EncodeAdditional writes the concatenated additional signed bytes of
// every slot in tuple order.
func (e SignedExtra) EncodeAdditional(encoder scale.Encoder) error {
	for _, ext := range e.Extensions {
		err := ext.EncodeAdditional(e.Params, e.Context, encoder)
		if err != nil {
			return fmt.Errorf("could not encode additional data for %s: %w", ext.Identifier(), err)
		}
	}
	return nil
}
