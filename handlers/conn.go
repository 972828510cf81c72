package handlers

import (
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v2"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/rs/zerolog"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// Conn is an established connection to an Eden node. The chain
// metadata, genesis hash and runtime version are loaded once at dial
// time and reused for every envelope of the run.
type Conn struct {
	log     zerolog.Logger
	api     *gsrpc.SubstrateAPI
	meta    *types.Metadata
	genesis types.Hash
	runtime *types.RuntimeVersion
}

// Dial connects to the node at the given websocket URL.
func Dial(log zerolog.Logger, url string) (*Conn, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to node: %w", err)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, fmt.Errorf("could not fetch metadata: %w", err)
	}

	genesis, err := api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return nil, fmt.Errorf("could not fetch genesis hash: %w", err)
	}

	runtime, err := api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return nil, fmt.Errorf("could not fetch runtime version: %w", err)
	}

	log = log.With().Str("component", "conn").Logger()
	log.Info().
		Str("url", url).
		Uint32("spec_version", uint32(runtime.SpecVersion)).
		Uint32("tx_version", uint32(runtime.TransactionVersion)).
		Msg("connection established")

	c := Conn{
		log:     log,
		api:     api,
		meta:    meta,
		genesis: genesis,
		runtime: runtime,
	}

	return &c, nil
}

// Metadata returns the chain metadata loaded at dial time.
func (c *Conn) Metadata() *types.Metadata {
	return c.meta
}

// ChainContext returns the chain-level values covered by every
// signature.
func (c *Conn) ChainContext() models.ChainContext {
	return models.ChainContext{
		SpecVersion:        c.runtime.SpecVersion,
		TransactionVersion: c.runtime.TransactionVersion,
		GenesisHash:        c.genesis,
	}
}

// SignedExtensions returns the ordered signed-extension identifiers the
// chain declares in its metadata.
func (c *Conn) SignedExtensions() ([]string, error) {
	switch {
	case c.meta.IsMetadataV12:
		return c.meta.AsMetadataV12.Extrinsic.SignedExtensions, nil
	case c.meta.IsMetadataV11:
		return c.meta.AsMetadataV11.Extrinsic.SignedExtensions, nil
	default:
		return nil, fmt.Errorf("metadata version %d does not declare signed extensions", c.meta.Version)
	}
}

// NextNonce returns the next free nonce of the given account. An
// account the chain has never seen starts at zero.
func (c *Conn) NextNonce(pubKey []byte) (uint32, error) {
	key, err := types.CreateStorageKey(c.meta, "System", "Account", pubKey, nil)
	if err != nil {
		return 0, fmt.Errorf("could not create account storage key: %w", err)
	}

	var accountInfo types.AccountInfo
	ok, err := c.api.RPC.State.GetStorageLatest(key, &accountInfo)
	if err != nil {
		return 0, fmt.Errorf("could not fetch account info: %w", err)
	}
	if !ok {
		return 0, nil
	}

	return uint32(accountInfo.Nonce), nil
}

// CommitteeMembers returns the current technical committee membership.
func (c *Conn) CommitteeMembers() ([]types.AccountID, error) {
	key, err := types.CreateStorageKey(c.meta, "TechnicalMembership", "Members", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create membership storage key: %w", err)
	}

	var members []types.AccountID
	ok, err := c.api.RPC.State.GetStorageLatest(key, &members)
	if err != nil {
		return nil, fmt.Errorf("could not fetch committee members: %w", err)
	}
	if !ok {
		return nil, nil
	}

	return members, nil
}

// LatestHeader returns the latest chain header, used as the mortality
// checkpoint of mortal transactions.
func (c *Conn) LatestHeader() (*types.Header, error) {
	return c.api.RPC.Chain.GetHeaderLatest()
}

// BlockHash returns the hash of the block at the given height.
func (c *Conn) BlockHash(number uint64) (types.Hash, error) {
	return c.api.RPC.Chain.GetBlockHash(number)
}

// SubmitAndWatch submits a signed envelope and returns a watcher for
// its status, without waiting for inclusion.
func (c *Conn) SubmitAndWatch(ext models.Extrinsic) (StatusWatcher, error) {
	sub, err := submitAndWatch(c.api.Client, ext)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
