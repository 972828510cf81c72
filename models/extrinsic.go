package models

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
)

// Extrinsic is a version 4 extrinsic whose signed extras are produced
// by an ordered extension chain instead of a fixed layout, so that
// chain-specific slots like ChargeSponsor keep their tuple position.
type Extrinsic struct {
	// Version is the encoded version flag (raw transaction version and
	// signing information in one byte).
	Version byte
	// Signature is present depending on the Version flag.
	Signature ExtrinsicSignature
	// Method is the call this extrinsic wraps.
	Method types.Call
}

// ExtrinsicSignature is the signature block of a signed extrinsic. The
// extra section is rendered by the extension chain the envelope was
// signed with.
type ExtrinsicSignature struct {
	Signer    MultiAddress
	Signature types.MultiSignature
	Extra     SignedExtra
}

func (s ExtrinsicSignature) Encode(encoder scale.Encoder) error {
	err := encoder.Encode(s.Signer)
	if err != nil {
		return err
	}

	err = encoder.Encode(s.Signature)
	if err != nil {
		return err
	}

	return s.Extra.EncodeExtra(encoder)
}

// NewExtrinsic creates a new Extrinsic from the provided Call.
func NewExtrinsic(c types.Call) Extrinsic {
	return Extrinsic{
		Version: types.ExtrinsicVersion4,
		Method:  c,
	}
}

// IsSigned returns true if the extrinsic is signed.
func (e Extrinsic) IsSigned() bool {
	return e.Version&types.ExtrinsicBitSigned == types.ExtrinsicBitSigned
}

// Type returns the raw transaction version (not flagged with signing
// information).
func (e Extrinsic) Type() uint8 {
	return e.Version & types.ExtrinsicUnmaskVersion
}

// Sign signs the extrinsic with the given keyring pair. The signed
// payload is the bare method followed by the extra and additional bytes
// of every extension slot in tuple order.
func (e *Extrinsic) Sign(signer signature.KeyringPair, extra SignedExtra) error {
	if e.Type() != types.ExtrinsicVersion4 {
		return fmt.Errorf("unsupported extrinsic version: %v (isSigned: %v, type: %v)", e.Version, e.IsSigned(), e.Type())
	}

	mb, err := types.EncodeToBytes(e.Method)
	if err != nil {
		return err
	}

	var bb = bytes.Buffer{}
	payloadEnc := scale.NewEncoder(&bb)

	err = payloadEnc.Write(mb)
	if err != nil {
		return err
	}
	err = extra.EncodeExtra(*payloadEnc)
	if err != nil {
		return err
	}
	err = extra.EncodeAdditional(*payloadEnc)
	if err != nil {
		return err
	}

	// Payloads longer than 256 bytes are hashed before signing; the
	// signature helper takes care of that.
	sig, err := signature.Sign(bb.Bytes(), signer.URI)
	if err != nil {
		return err
	}

	e.Signature = ExtrinsicSignature{
		Signer:    NewMultiAddressFromAccountID(signer.PublicKey),
		Signature: types.MultiSignature{IsSr25519: true, AsSr25519: types.NewSignature(sig)},
		Extra:     extra,
	}

	// mark the extrinsic as signed
	e.Version |= types.ExtrinsicBitSigned

	return nil
}

func (e Extrinsic) Encode(encoder scale.Encoder) error {
	if e.Type() != types.ExtrinsicVersion4 {
		return fmt.Errorf("unsupported extrinsic version: %v (isSigned: %v, type: %v)", e.Version, e.IsSigned(), e.Type())
	}

	// create a temporary buffer that will receive the plain encoded
	// transaction (version, signature (optional), method/call)
	var bb = bytes.Buffer{}
	tempEnc := scale.NewEncoder(&bb)

	err := tempEnc.Encode(e.Version)
	if err != nil {
		return err
	}

	if e.IsSigned() {
		err = tempEnc.Encode(e.Signature)
		if err != nil {
			return err
		}
	}

	err = tempEnc.Encode(e.Method)
	if err != nil {
		return err
	}

	// take the temporary buffer to determine length, write that as
	// prefix
	eb := bb.Bytes()
	err = encoder.EncodeUintCompact(*big.NewInt(0).SetUint64(uint64(len(eb))))
	if err != nil {
		return err
	}

	return encoder.Write(eb)
}

// Hex returns the length-prefixed hex encoding of the extrinsic, the
// form accepted by author RPC calls and printed by dry runs.
func (e Extrinsic) Hex() (string, error) {
	return types.EncodeToHexString(e)
}
