package handlers

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/rs/zerolog"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

const (
	// transactRefTime and transactProofSize bound the weight of the
	// wrapped relay-chain call.
	transactRefTime   = 10000000000
	transactProofSize = 1000000

	// beneficiaryParachain receives the surplus fee deposit.
	beneficiaryParachain = 2026
)

// Proposer submits a relay-chain call as a technical-committee
// proposal: the opaque call bytes are wrapped in an XCM message sent to
// the relay chain through the Mandate pallet.
type Proposer struct {
	log      zerolog.Logger
	conn     *Conn
	factory  *EnvelopeFactory
	feeLimit *big.Int
}

func NewProposer(log zerolog.Logger, conn *Conn, factory *EnvelopeFactory, feeLimit *big.Int) *Proposer {
	p := Proposer{
		log:      log.With().Str("component", "proposer").Logger(),
		conn:     conn,
		factory:  factory,
		feeLimit: feeLimit,
	}

	return &p
}

// BuildCall wraps the opaque relay-chain call bytes in the full
// proposal: PolkadotXcm.send inside Mandate.apply inside
// TechnicalCommittee.propose.
func (p *Proposer) BuildCall(transact []byte, threshold uint32, lengthBound uint32) (types.Call, error) {
	meta := p.conn.Metadata()

	message := models.VersionedXcm{AsV3: []models.Instruction{
		{
			IsWithdrawAsset: true,
			AsWithdrawAsset: []models.MultiAsset{models.NewFeeAsset(p.feeLimit)},
		},
		{
			IsBuyExecution: true,
			AsBuyExecution: models.BuyExecution{
				Fees:        models.NewFeeAsset(p.feeLimit),
				WeightLimit: models.WeightLimit{IsUnlimited: true},
			},
		},
		{
			IsTransact: true,
			AsTransact: models.Transact{
				OriginKind: models.OriginKindNative,
				RequireWeightAtMost: models.Weight{
					RefTime:   transactRefTime,
					ProofSize: transactProofSize,
				},
				Call: models.DoubleEncoded{Encoded: transact},
			},
		},
		{
			IsRefundSurplus: true,
		},
		{
			IsDepositAsset: true,
			AsDepositAsset: models.DepositAsset{
				Assets: models.MultiAssetFilter{IsWildAll: true},
				Beneficiary: models.MultiLocation{
					Parents:  0,
					Interior: models.JunctionsX1(models.Junction{IsParachain: true, AsParachain: beneficiaryParachain}),
				},
			},
		},
	}}

	dest := models.VersionedMultiLocation{AsV3: models.MultiLocation{
		Parents:  1,
		Interior: models.JunctionsHere(),
	}}

	sendCall, err := types.NewCall(meta, "PolkadotXcm.send", dest, message)
	if err != nil {
		return types.Call{}, fmt.Errorf("could not build send call: %w", err)
	}

	mandateCall, err := types.NewCall(meta, "Mandate.apply", sendCall)
	if err != nil {
		return types.Call{}, fmt.Errorf("could not build mandate call: %w", err)
	}

	proposal, err := types.NewCall(meta, "TechnicalCommittee.propose",
		types.NewUCompactFromUInt(uint64(threshold)),
		mandateCall,
		types.NewUCompactFromUInt(uint64(lengthBound)),
	)
	if err != nil {
		return types.Call{}, fmt.Errorf("could not build proposal call: %w", err)
	}

	return proposal, nil
}

// Propose builds the proposal envelope and either prints its hex
// encoding (dry run) or submits it and waits for finality.
func (p *Proposer) Propose(transactHex string, threshold uint32, lengthBound uint32, tip *big.Int, dryRun bool) error {
	transact, err := types.HexDecodeString(transactHex)
	if err != nil {
		return fmt.Errorf("could not decode transact bytes: %w", err)
	}

	members, err := p.conn.CommitteeMembers()
	if err != nil {
		return err
	}
	p.log.Info().Int("members", len(members)).Uint32("threshold", threshold).Msg("committee membership fetched")

	call, err := p.BuildCall(transact, threshold, lengthBound)
	if err != nil {
		return err
	}

	nonce, err := p.conn.NextNonce(p.factory.Signer().PublicKey)
	if err != nil {
		return err
	}

	if dryRun {
		params := models.NewExtrasBuilder().Nonce(nonce).Tip(tip).Build()
		ext, err := p.factory.Sign(call, params)
		if err != nil {
			return err
		}

		enc, err := ext.Hex()
		if err != nil {
			return err
		}

		fmt.Println(enc)
		return nil
	}

	pipeline := NewPipeline(p.log, p.conn, p.factory, NewNonceCursor(nonce)).SetTip(tip)

	return pipeline.Run(singleCall{call: call}, 1)
}

// singleCall is the one-envelope workload of a proposal.
type singleCall struct {
	call types.Call
}

func (s singleCall) Units() int {
	return 1
}

func (s singleCall) BuildCall(_ int, _ int) (types.Call, error) {
	return s.call, nil
}
