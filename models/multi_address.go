package models

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v2/scale"
)

// MultiAddress is the address type of the Eden runtime. Only the
// AccountId variant is ever produced by this client.
type MultiAddress struct {
	IsID bool
	AsID [32]byte
}

// NewMultiAddressFromAccountID creates a MultiAddress from a raw 32-byte
// account id.
func NewMultiAddressFromAccountID(b []byte) MultiAddress {
	var id [32]byte
	copy(id[:], b)
	return MultiAddress{
		IsID: true,
		AsID: id,
	}
}

func (m MultiAddress) Encode(encoder scale.Encoder) error {
	if !m.IsID {
		return fmt.Errorf("unsupported multi-address variant")
	}

	err := encoder.PushByte(0)
	if err != nil {
		return err
	}

	return encoder.Write(m.AsID[:])
}

func (m *MultiAddress) Decode(decoder scale.Decoder) error {
	variant, err := decoder.ReadOneByte()
	if err != nil {
		return err
	}
	if variant != 0 {
		return fmt.Errorf("unsupported multi-address variant: %v", variant)
	}

	m.IsID = true
	return decoder.Read(m.AsID[:])
}
