package handlers

import (
	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// EnvelopeFactory signs calls into ready-to-broadcast envelopes. The
// extension set is matched once against the chain's declared list when
// the factory is created, so every envelope of a run shares the same
// verified layout. Dry runs and submissions go through the same build
// path.
type EnvelopeFactory struct {
	extensions []models.Extension
	ctx        models.ChainContext
	signer     signature.KeyringPair
}

// NewEnvelopeFactory matches the chain-declared extension identifiers
// against the local implementations. It fails with an
// UnmatchedExtensionError if the chain declares an extension this
// client cannot encode.
func NewEnvelopeFactory(declared []string, ctx models.ChainContext, signer signature.KeyringPair) (*EnvelopeFactory, error) {
	extensions, err := models.MatchExtensions(declared, models.DefaultExtensions())
	if err != nil {
		return nil, err
	}

	f := EnvelopeFactory{
		extensions: extensions,
		ctx:        ctx,
		signer:     signer,
	}

	return &f, nil
}

// Signer returns the keyring pair envelopes are signed with.
func (f *EnvelopeFactory) Signer() signature.KeyringPair {
	return f.signer
}

// Sign wraps the call in an extrinsic and signs it with the given
// extras.
func (f *EnvelopeFactory) Sign(call types.Call, params models.ExtrasParams) (models.Extrinsic, error) {
	ext := models.NewExtrinsic(call)

	extra := models.SignedExtra{
		Extensions: f.extensions,
		Params:     params,
		Context:    f.ctx,
	}

	err := ext.Sign(f.signer, extra)
	if err != nil {
		return models.Extrinsic{}, err
	}

	return ext, nil
}
