package keyring

import (
	"errors"
	"fmt"
	"os"

	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// SeedLength is the exact plaintext size a keystore must yield.
const SeedLength = 32

var (
	// ErrInvalidSecretURI means the derivation URI could not be turned
	// into a keypair.
	ErrInvalidSecretURI = errors.New("invalid secret URI")
	// ErrInvalidSeedLength means a decrypted seed was not exactly 32
	// bytes. The seed is never truncated or padded.
	ErrInvalidSeedLength = errors.New("invalid seed length")
)

// Resolve produces exactly one signing keypair from the CLI-level
// inputs. An explicit keystore file takes precedence, then a derivation
// URI (seed phrase or 0x-prefixed hex seed, `/soft` and `//hard`
// junctions, optional `///password`); with neither, the well-known
// development pair is returned for use against test endpoints.
func Resolve(suri string, keyFile string, password string) (signature.KeyringPair, error) {
	if keyFile != "" {
		return fromKeyFile(keyFile, password)
	}

	if suri != "" {
		pair, err := signature.KeyringPairFromSecret(suri, models.NetworkID)
		if err != nil {
			return signature.KeyringPair{}, fmt.Errorf("%w: %v", ErrInvalidSecretURI, err)
		}
		return pair, nil
	}

	return signature.TestKeyringPairAlice, nil
}

func fromKeyFile(path string, password string) (signature.KeyringPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return signature.KeyringPair{}, fmt.Errorf("could not read key file: %w", err)
	}

	record, err := models.ParseKeyRecord(data)
	if err != nil {
		return signature.KeyringPair{}, err
	}

	return FromRecord(record, password)
}

// FromRecord decrypts a parsed keystore record and derives the signing
// pair from the recovered seed.
func FromRecord(record models.EncryptedKeyRecord, password string) (signature.KeyringPair, error) {
	seed, err := Decrypt(record.Ciphertext(), password)
	if err != nil {
		return signature.KeyringPair{}, err
	}

	if len(seed) != SeedLength {
		return signature.KeyringPair{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSeedLength, len(seed), SeedLength)
	}

	pair, err := signature.KeyringPairFromSecret(types.HexEncodeToString(seed), models.NetworkID)
	if err != nil {
		return signature.KeyringPair{}, fmt.Errorf("could not derive keypair from seed: %w", err)
	}

	return pair, nil
}
