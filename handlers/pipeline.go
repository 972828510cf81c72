package handlers

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// NonceCursor issues strictly increasing nonces for one account. It is
// seeded once from the chain's next free nonce and never re-queried
// within a run, so a single cursor must own the account for the whole
// run; sharing an account with another sender breaks the sequence.
type NonceCursor struct {
	next uint32
}

func NewNonceCursor(next uint32) *NonceCursor {
	return &NonceCursor{next: next}
}

// Next returns the current nonce and advances the cursor.
func (c *NonceCursor) Next() uint32 {
	n := c.next
	c.next++
	return n
}

// Workload is a batch of N independent work units that can be folded
// into one call per chunk.
type Workload interface {
	// Units returns the number of independent work units.
	Units() int
	// BuildCall builds the single call covering units
	// [first, first+count).
	BuildCall(first int, count int) (types.Call, error)
}

// Submitter submits signed envelopes to the node.
type Submitter interface {
	SubmitAndWatch(ext models.Extrinsic) (StatusWatcher, error)
}

// Pipeline submits a workload in nonce-sequenced chunks. Every chunk is
// signed and submitted without waiting for the previous chunk to
// finalize; only once everything is on the wire are the pending
// envelopes drained, strictly in submission order. This decouples the
// submission rate from confirmation latency.
type Pipeline struct {
	log       zerolog.Logger
	node      Submitter
	factory   *EnvelopeFactory
	cursor    *NonceCursor
	tip       *big.Int
	mortality *pipelineMortality
}

type pipelineMortality struct {
	checkpointHash   types.Hash
	checkpointNumber uint64
	period           uint64
}

type pending struct {
	chunk int
	nonce uint32
	watch StatusWatcher
}

func NewPipeline(log zerolog.Logger, node Submitter, factory *EnvelopeFactory, cursor *NonceCursor) *Pipeline {
	p := Pipeline{
		log:     log.With().Str("component", "pipeline").Logger(),
		node:    node,
		factory: factory,
		cursor:  cursor,
	}

	return &p
}

// SetTip adds a tip to every envelope of the run.
func (p *Pipeline) SetTip(tip *big.Int) *Pipeline {
	p.tip = tip
	return p
}

// SetMortality makes every envelope of the run mortal for the given
// period, anchored at the given checkpoint block.
func (p *Pipeline) SetMortality(checkpointHash types.Hash, checkpointNumber uint64, period uint64) *Pipeline {
	p.mortality = &pipelineMortality{
		checkpointHash:   checkpointHash,
		checkpointNumber: checkpointNumber,
		period:           period,
	}
	return p
}

// Run partitions the workload into ceil(N/batch) ordered chunks, signs
// and submits one envelope per chunk with consecutive nonces, then
// drains all pending envelopes in submission order. A submission
// failure aborts the remaining chunks but the envelopes already on the
// wire are still drained. Finality failures are collected per envelope
// and never retried; the caller owns the re-run decision.
func (p *Pipeline) Run(workload Workload, batch int) error {
	if batch <= 0 {
		return fmt.Errorf("batch ceiling must be positive (have: %d)", batch)
	}

	units := workload.Units()
	chunks := (units + batch - 1) / batch

	p.log.Info().Int("units", units).Int("batch", batch).Int("chunks", chunks).Msg("starting submission")

	var queue []pending
	var submitErr error
	for chunk := 0; chunk < chunks; chunk++ {
		first := chunk * batch
		count := batch
		if first+count > units {
			count = units - first
		}

		call, err := workload.BuildCall(first, count)
		if err != nil {
			submitErr = fmt.Errorf("could not build call (chunk: %d): %w", chunk, err)
			break
		}

		nonce := p.cursor.Next()
		ext, err := p.factory.Sign(call, p.buildParams(nonce))
		if err != nil {
			submitErr = fmt.Errorf("could not sign envelope (chunk: %d, nonce: %d): %w", chunk, nonce, err)
			break
		}

		watch, err := p.node.SubmitAndWatch(ext)
		if err != nil {
			submitErr = &SubmissionError{Chunk: chunk, Nonce: nonce, Err: err}
			break
		}

		p.log.Info().Int("chunk", chunk).Uint32("nonce", nonce).Int("units", count).Msg("envelope submitted")

		queue = append(queue, pending{chunk: chunk, nonce: nonce, watch: watch})
	}

	if submitErr != nil {
		p.log.Error().Err(submitErr).Int("pending", len(queue)).Msg("submission aborted, draining pending envelopes")
	}

	drainErr := p.drain(queue)

	if submitErr != nil {
		if drainErr != nil {
			return multierror.Append(submitErr, drainErr)
		}
		return submitErr
	}

	return drainErr
}

func (p *Pipeline) buildParams(nonce uint32) models.ExtrasParams {
	builder := models.NewExtrasBuilder().Nonce(nonce)
	if p.tip != nil {
		builder.Tip(p.tip)
	}
	if p.mortality != nil {
		builder.Mortal(p.mortality.checkpointHash, p.mortality.checkpointNumber, p.mortality.period)
	}
	return builder.Build()
}

// drain awaits every pending envelope in submission order. Failures are
// collected per envelope so one bad envelope does not hide the outcome
// of the others.
func (p *Pipeline) drain(queue []pending) error {
	var result *multierror.Error
	for _, pend := range queue {
		err := awaitFinalized(pend.watch)
		if err != nil {
			p.log.Error().Int("chunk", pend.chunk).Uint32("nonce", pend.nonce).Err(err).Msg("envelope failed")
			result = multierror.Append(result, &FinalityError{Chunk: pend.chunk, Nonce: pend.nonce, Err: err})
			continue
		}

		p.log.Info().Int("chunk", pend.chunk).Uint32("nonce", pend.nonce).Msg("envelope finalized")
	}

	return result.ErrorOrNil()
}

func awaitFinalized(watch StatusWatcher) error {
	defer watch.Unsubscribe()

	for {
		select {
		case status, ok := <-watch.Chan():
			if !ok {
				return fmt.Errorf("status stream closed before finality")
			}
			switch {
			case status.IsFinalized:
				return nil
			case status.IsDropped:
				return fmt.Errorf("envelope dropped from the pool")
			case status.IsInvalid:
				return fmt.Errorf("envelope invalid")
			case status.IsUsurped:
				return fmt.Errorf("envelope usurped by a conflicting transaction")
			case status.IsFinalityTimeout:
				return fmt.Errorf("finality timed out")
			}
		case err := <-watch.Err():
			return fmt.Errorf("status subscription failed: %w", err)
		}
	}
}
