// Package keyring recovers signing keys from encrypted keystore files
// and resolves the signer for a run.
package keyring

import (
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters of the keystore format. These are fixed: the
	// format derives the key with an empty salt, so changing any of
	// them would make previously generated files undecryptable.
	scryptN   = 1 << 15
	scryptR   = 8
	scryptP   = 1
	keyLength = 32

	nonceLength = 24
)

var (
	// ErrInvalidDerivationParams means the key derivation parameters
	// were rejected. Unreachable with the fixed constants above, but
	// kept as a distinct outcome.
	ErrInvalidDerivationParams = errors.New("invalid key derivation parameters")
	// ErrKeyDerivationFailed means the derivation produced no usable
	// key material.
	ErrKeyDerivationFailed = errors.New("key derivation produced no output")
	// ErrAuthenticationFailed means the ciphertext did not
	// authenticate: wrong password or corrupted file. The two cases are
	// deliberately not distinguished.
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
)

// deriveKey stretches the password into a 32-byte symmetric key. The
// empty salt is part of the keystore format, not an omission.
func deriveKey(password string) (*[keyLength]byte, error) {
	raw, err := scrypt.Key([]byte(password), []byte{}, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, ErrInvalidDerivationParams
	}
	if len(raw) != keyLength {
		return nil, ErrKeyDerivationFailed
	}

	var key [keyLength]byte
	copy(key[:], raw)

	return &key, nil
}

// Decrypt opens a keystore ciphertext with the given password. The
// all-zero nonce is part of the keystore format: every password only
// ever encrypts a single secret, so the nonce is never reused under the
// same key. No plaintext is returned on failure.
func Decrypt(ciphertext []byte, password string) ([]byte, error) {
	key, err := deriveKey(password)
	if err != nil {
		return nil, err
	}

	var nonce [nonceLength]byte
	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, key)
	if !ok {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// Encrypt is the exact inverse of Decrypt and produces ciphertexts
// compatible with existing keystore files.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	key, err := deriveKey(password)
	if err != nil {
		return nil, err
	}

	var nonce [nonceLength]byte
	return secretbox.Seal(nil, plaintext, &nonce, key), nil
}
