package handlers_test

import (
	"errors"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodle-tools/client-eden-golang-api/handlers"
	"github.com/nodle-tools/client-eden-golang-api/models"
)

func declaredExtensions() []string {
	return []string{
		"CheckSpecVersion",
		"CheckTxVersion",
		"CheckGenesis",
		"CheckMortality",
		"CheckNonce",
		"CheckWeight",
		"ChargeTransactionPayment",
		"ChargeSponsor",
	}
}

func testContext() models.ChainContext {
	return models.ChainContext{
		SpecVersion:        types.NewU32(3),
		TransactionVersion: types.NewU32(2),
		GenesisHash:        types.NewHash(make([]byte, 32)),
	}
}

func testCall() types.Call {
	return types.Call{
		CallIndex: types.CallIndex{SectionIndex: 1, MethodIndex: 2},
		Args:      types.Args{0x01},
	}
}

func TestNewEnvelopeFactory(t *testing.T) {
	factory, err := handlers.NewEnvelopeFactory(declaredExtensions(), testContext(), signature.TestKeyringPairAlice)

	require.NoError(t, err)
	assert.Equal(t, signature.TestKeyringPairAlice, factory.Signer())
}

func TestNewEnvelopeFactory_UnknownExtension(t *testing.T) {
	declared := append(declaredExtensions(), "ChargeAssetTxPayment")

	_, err := handlers.NewEnvelopeFactory(declared, testContext(), signature.TestKeyringPairAlice)

	require.Error(t, err)
	var unmatched *models.UnmatchedExtensionError
	require.True(t, errors.As(err, &unmatched))
	assert.Equal(t, "ChargeAssetTxPayment", unmatched.Identifier)
}

func TestEnvelopeFactory_Sign(t *testing.T) {
	factory, err := handlers.NewEnvelopeFactory(declaredExtensions(), testContext(), signature.TestKeyringPairAlice)
	require.NoError(t, err)

	params := models.NewExtrasBuilder().Nonce(7).Build()
	ext, err := factory.Sign(testCall(), params)

	require.NoError(t, err)
	assert.True(t, ext.IsSigned())
	assert.Equal(t, models.NewMultiAddressFromAccountID(signature.TestKeyringPairAlice.PublicKey), ext.Signature.Signer)
	assert.True(t, ext.Signature.Extra.Params.HasNonce)
	assert.Equal(t, types.NewUCompactFromUInt(7), ext.Signature.Extra.Params.Nonce)
}
