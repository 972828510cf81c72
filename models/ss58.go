package models

import (
	"fmt"

	"github.com/decred/base58"
	subkey "github.com/vedhavyas/go-subkey"
)

// NetworkID is the SS58 address prefix of the Eden network.
const NetworkID = 37

func SS58Address(addr []byte) (string, error) {
	return subkey.SS58Address(addr, NetworkID)
}

func SS58Addr(addr []byte) (out string) {
	out, _ = subkey.SS58Address(addr, NetworkID)
	return
}

// DecodeSS58Address strips the network prefix and checksum from an SS58
// address and returns the raw 32-byte account id.
func DecodeSS58Address(ss58addr string) ([]byte, error) {
	decoded := base58.Decode(ss58addr)
	if len(decoded) != 35 {
		return nil, fmt.Errorf("invalid SS58 address length: %d", len(decoded))
	}
	return decoded[1 : len(decoded)-2], nil
}
