package models_test

import (
	"math/big"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

func TestExtrasBuilder_Defaults(t *testing.T) {
	params := models.NewExtrasBuilder().Build()

	assert.True(t, params.Era.IsImmortalEra)
	assert.Nil(t, params.CheckpointHash)
	assert.False(t, params.HasNonce)
	assert.Equal(t, types.NewUCompactFromUInt(0), params.Tip)
}

func TestExtrasBuilder_Nonce(t *testing.T) {
	params := models.NewExtrasBuilder().Nonce(7).Build()

	assert.True(t, params.HasNonce)
	assert.Equal(t, types.NewUCompactFromUInt(7), params.Nonce)
}

func TestExtrasBuilder_Tip(t *testing.T) {
	params := models.NewExtrasBuilder().Tip(big.NewInt(42)).Build()

	assert.Equal(t, types.NewUCompactFromUInt(42), params.Tip)
}

func TestExtrasBuilder_Mortal(t *testing.T) {
	hash := types.NewHash([]byte{
		1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8,
		1, 2, 3, 4, 5, 6, 7, 8, 1, 2, 3, 4, 5, 6, 7, 8,
	})

	params := models.NewExtrasBuilder().Mortal(hash, 49, 64).Build()

	assert.True(t, params.Era.IsMortalEra)
	require.NotNil(t, params.CheckpointHash)
	assert.Equal(t, hash, *params.CheckpointHash)
}

func TestExtrasBuilder_MortalZeroPeriod(t *testing.T) {
	hash := types.NewHash(make([]byte, 32))

	params := models.NewExtrasBuilder().Mortal(hash, 49, 0).Build()

	assert.True(t, params.Era.IsImmortalEra)
	assert.Nil(t, params.CheckpointHash)
}

func TestExtrasBuilder_Chaining(t *testing.T) {
	hash := types.NewHash(make([]byte, 32))

	params := models.NewExtrasBuilder().
		Mortal(hash, 100, 32).
		Tip(big.NewInt(5)).
		Nonce(3).
		Build()

	assert.True(t, params.Era.IsMortalEra)
	assert.True(t, params.HasNonce)
	assert.Equal(t, types.NewUCompactFromUInt(3), params.Nonce)
	assert.Equal(t, types.NewUCompactFromUInt(5), params.Tip)
}
