package models

import (
	"encoding/json"
	"fmt"
)

// EncryptedKeyRecord is the on-disk JSON form of a password-encrypted
// signing key, as exported by the Eden wallet tooling. The raw bytes of
// the Encoded string are the ciphertext; they are deliberately not
// base64-decoded before decryption.
type EncryptedKeyRecord struct {
	Address  string      `json:"address"`
	Encoded  string      `json:"encoded"`
	Encoding KeyEncoding `json:"encoding"`
	Meta     KeyMeta     `json:"meta"`
}

type KeyEncoding struct {
	Content []string `json:"content"`
	Type    []string `json:"type"`
	Version string   `json:"version"`
}

type KeyMeta struct {
	Name        string `json:"name"`
	WhenCreated uint64 `json:"whenCreated"`
}

// Ciphertext returns the literal byte sequence of the encoded string.
func (r EncryptedKeyRecord) Ciphertext() []byte {
	return []byte(r.Encoded)
}

// ParseKeyRecord parses a keystore file's content.
func ParseKeyRecord(data []byte) (EncryptedKeyRecord, error) {
	var record EncryptedKeyRecord
	err := json.Unmarshal(data, &record)
	if err != nil {
		return EncryptedKeyRecord{}, fmt.Errorf("could not parse key record: %w", err)
	}
	return record, nil
}
