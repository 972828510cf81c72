package keyring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodle-tools/client-eden-golang-api/keyring"
	"github.com/nodle-tools/client-eden-golang-api/models"
)

func TestResolve_DefaultsToDevPair(t *testing.T) {
	pair, err := keyring.Resolve("", "", "")

	require.NoError(t, err)
	assert.Equal(t, signature.TestKeyringPairAlice, pair)
}

func TestResolve_DerivationURI(t *testing.T) {
	pair, err := keyring.Resolve("//Alice", "", "")

	require.NoError(t, err)
	assert.Equal(t, signature.TestKeyringPairAlice.PublicKey, pair.PublicKey)
}

func TestResolve_InvalidURI(t *testing.T) {
	_, err := keyring.Resolve("0xnotahexseed", "", "")

	assert.ErrorIs(t, err, keyring.ErrInvalidSecretURI)
}

func TestResolve_KeyFileTakesPrecedence(t *testing.T) {
	// An unreadable key file must fail the resolution even when a valid
	// URI is also given.
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := keyring.Resolve("//Alice", path, "")

	assert.Error(t, err)
}

func TestResolve_MalformedKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":`), 0o600))

	_, err := keyring.Resolve("", path, "")

	assert.Error(t, err)
}

func testRecord(t *testing.T, plaintext []byte, password string) models.EncryptedKeyRecord {
	t.Helper()

	ciphertext, err := keyring.Encrypt(plaintext, password)
	require.NoError(t, err)

	return models.EncryptedKeyRecord{Encoded: string(ciphertext)}
}

func TestFromRecord(t *testing.T) {
	seed := testSeed()
	record := testRecord(t, seed, "hunter2")

	pair, err := keyring.FromRecord(record, "hunter2")

	require.NoError(t, err)
	assert.Len(t, pair.PublicKey, 32)
	assert.NotEmpty(t, pair.Address)

	// Same seed, same pair.
	again, err := keyring.FromRecord(record, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, pair.PublicKey, again.PublicKey)
}

func TestFromRecord_WrongPassword(t *testing.T) {
	record := testRecord(t, testSeed(), "hunter2")

	_, err := keyring.FromRecord(record, "wrong")

	assert.ErrorIs(t, err, keyring.ErrAuthenticationFailed)
}

func TestFromRecord_ShortSeed(t *testing.T) {
	record := testRecord(t, []byte("too short"), "hunter2")

	_, err := keyring.FromRecord(record, "hunter2")

	assert.ErrorIs(t, err, keyring.ErrInvalidSeedLength)
}
