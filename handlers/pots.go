package handlers

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
)

// Sponsorship types understood by the Eden sponsorship pallet.
const (
	SponsorshipAnySafe uint8 = 0
	SponsorshipUniques uint8 = 1
)

// PotCreator is the workload that creates a run of sponsorship pots
// with consecutive ids. Each chunk folds its pots into one batch call.
type PotCreator struct {
	meta            *types.Metadata
	startID         uint32
	count           int
	sponsorshipType uint8
	feeQuota        *big.Int
	reserveQuota    *big.Int
}

func NewPotCreator(meta *types.Metadata, startID uint32, count int, sponsorshipType uint8, feeQuota *big.Int, reserveQuota *big.Int) *PotCreator {
	w := PotCreator{
		meta:            meta,
		startID:         startID,
		count:           count,
		sponsorshipType: sponsorshipType,
		feeQuota:        feeQuota,
		reserveQuota:    reserveQuota,
	}

	return &w
}

func (w *PotCreator) Units() int {
	return w.count
}

func (w *PotCreator) BuildCall(first int, count int) (types.Call, error) {
	calls := make([]types.Call, 0, count)
	for i := 0; i < count; i++ {
		id := w.startID + uint32(first+i)
		call, err := types.NewCall(w.meta, "Sponsorship.create_pot",
			types.NewU32(id),
			types.NewU8(w.sponsorshipType),
			types.NewU128(*w.feeQuota),
			types.NewU128(*w.reserveQuota),
		)
		if err != nil {
			return types.Call{}, fmt.Errorf("could not build create_pot call (pot: %d): %w", id, err)
		}
		calls = append(calls, call)
	}

	batch, err := types.NewCall(w.meta, "Utility.batch", calls)
	if err != nil {
		return types.Call{}, fmt.Errorf("could not build batch call: %w", err)
	}

	return batch, nil
}
