package models

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/scale"
)

// Write-only SCALE types for the XCM v3 subset emitted by the proposer.
// The wrapped relay-chain call itself stays opaque bytes; these types
// only reproduce the envelope around it.

// Weight is the two-dimensional dispatch weight, both fields compact.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

func (w Weight) Encode(encoder scale.Encoder) error {
	err := encoder.EncodeUintCompact(*big.NewInt(0).SetUint64(w.RefTime))
	if err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*big.NewInt(0).SetUint64(w.ProofSize))
}

// Junction is a single step in a location path. Only Parachain is used.
type Junction struct {
	IsParachain bool
	AsParachain uint32
}

func (j Junction) Encode(encoder scale.Encoder) error {
	if !j.IsParachain {
		return fmt.Errorf("unsupported junction variant")
	}
	err := encoder.PushByte(0)
	if err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*big.NewInt(0).SetUint64(uint64(j.AsParachain)))
}

// Junctions is the interior of a location: Here or a single junction.
type Junctions struct {
	IsHere bool
	IsX1   bool
	AsX1   Junction
}

func JunctionsHere() Junctions {
	return Junctions{IsHere: true}
}

func JunctionsX1(j Junction) Junctions {
	return Junctions{IsX1: true, AsX1: j}
}

func (j Junctions) Encode(encoder scale.Encoder) error {
	switch {
	case j.IsHere:
		return encoder.PushByte(0)
	case j.IsX1:
		err := encoder.PushByte(1)
		if err != nil {
			return err
		}
		return encoder.Encode(j.AsX1)
	default:
		return fmt.Errorf("unsupported junctions variant")
	}
}

type MultiLocation struct {
	Parents  uint8
	Interior Junctions
}

func (m MultiLocation) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(m.Parents)
	if err != nil {
		return err
	}
	return encoder.Encode(m.Interior)
}

// AssetID identifies an asset by its location (Concrete variant only).
type AssetID struct {
	AsConcrete MultiLocation
}

func (a AssetID) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(0)
	if err != nil {
		return err
	}
	return encoder.Encode(a.AsConcrete)
}

// Fungibility carries a fungible amount (compact u128).
type Fungibility struct {
	AsFungible *big.Int
}

func (f Fungibility) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(0)
	if err != nil {
		return err
	}
	return encoder.EncodeUintCompact(*f.AsFungible)
}

type MultiAsset struct {
	ID  AssetID
	Fun Fungibility
}

func (m MultiAsset) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(m.ID)
	if err != nil {
		return err
	}
	return encoder.Encode(m.Fun)
}

// NewFeeAsset builds the native-token fee asset used by the proposer.
func NewFeeAsset(amount *big.Int) MultiAsset {
	return MultiAsset{
		ID: AssetID{
			AsConcrete: MultiLocation{
				Parents:  0,
				Interior: JunctionsHere(),
			},
		},
		Fun: Fungibility{AsFungible: amount},
	}
}

// MultiAssetFilter selects assets; only the Wild(All) variant is used.
type MultiAssetFilter struct {
	IsWildAll bool
}

func (m MultiAssetFilter) Encode(encoder scale.Encoder) error {
	if !m.IsWildAll {
		return fmt.Errorf("unsupported multi-asset filter variant")
	}
	// Wild, then All
	err := encoder.PushByte(1)
	if err != nil {
		return err
	}
	return encoder.PushByte(0)
}

// WeightLimit bounds the weight purchased by BuyExecution.
type WeightLimit struct {
	IsUnlimited bool
	IsLimited   bool
	AsLimited   Weight
}

func (w WeightLimit) Encode(encoder scale.Encoder) error {
	if w.IsLimited {
		err := encoder.PushByte(1)
		if err != nil {
			return err
		}
		return encoder.Encode(w.AsLimited)
	}
	return encoder.PushByte(0)
}

// DoubleEncoded wraps an already SCALE-encoded call as opaque bytes.
type DoubleEncoded struct {
	Encoded []byte
}

func (d DoubleEncoded) Encode(encoder scale.Encoder) error {
	return encoder.Encode(d.Encoded)
}

// OriginKind variants.
const (
	OriginKindNative byte = 0
)

// Instruction is one XCM v3 instruction. Variant indices follow the v3
// instruction set.
type Instruction struct {
	IsWithdrawAsset bool
	AsWithdrawAsset []MultiAsset

	IsTransact bool
	AsTransact Transact

	IsDepositAsset bool
	AsDepositAsset DepositAsset

	IsBuyExecution bool
	AsBuyExecution BuyExecution

	IsRefundSurplus bool
}

type Transact struct {
	OriginKind          byte
	RequireWeightAtMost Weight
	Call                DoubleEncoded
}

type BuyExecution struct {
	Fees        MultiAsset
	WeightLimit WeightLimit
}

type DepositAsset struct {
	Assets      MultiAssetFilter
	Beneficiary MultiLocation
}

func (i Instruction) Encode(encoder scale.Encoder) error {
	switch {
	case i.IsWithdrawAsset:
		err := encoder.PushByte(0)
		if err != nil {
			return err
		}
		return encoder.Encode(i.AsWithdrawAsset)
	case i.IsTransact:
		err := encoder.PushByte(6)
		if err != nil {
			return err
		}
		err = encoder.PushByte(i.AsTransact.OriginKind)
		if err != nil {
			return err
		}
		err = encoder.Encode(i.AsTransact.RequireWeightAtMost)
		if err != nil {
			return err
		}
		return encoder.Encode(i.AsTransact.Call)
	case i.IsDepositAsset:
		err := encoder.PushByte(13)
		if err != nil {
			return err
		}
		err = encoder.Encode(i.AsDepositAsset.Assets)
		if err != nil {
			return err
		}
		return encoder.Encode(i.AsDepositAsset.Beneficiary)
	case i.IsBuyExecution:
		err := encoder.PushByte(19)
		if err != nil {
			return err
		}
		err = encoder.Encode(i.AsBuyExecution.Fees)
		if err != nil {
			return err
		}
		return encoder.Encode(i.AsBuyExecution.WeightLimit)
	case i.IsRefundSurplus:
		return encoder.PushByte(20)
	default:
		return fmt.Errorf("unsupported instruction variant")
	}
}

// VersionedXcm is an XCM message tagged with its version (V3 only).
type VersionedXcm struct {
	AsV3 []Instruction
}

func (v VersionedXcm) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(3)
	if err != nil {
		return err
	}
	return encoder.Encode(v.AsV3)
}

// VersionedMultiLocation is a location tagged with its version (V3
// only).
type VersionedMultiLocation struct {
	AsV3 MultiLocation
}

func (v VersionedMultiLocation) Encode(encoder scale.Encoder) error {
	err := encoder.PushByte(3)
	if err != nil {
		return err
	}
	return encoder.Encode(v.AsV3)
}
