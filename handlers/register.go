package handlers

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v2/types"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// UserRegistrar is the workload that registers a list of users against
// one sponsorship pot, one register_users call per chunk.
type UserRegistrar struct {
	meta  *types.Metadata
	pot   uint32
	users []types.AccountID
}

// NewUserRegistrar decodes the given SS58 addresses into account ids.
func NewUserRegistrar(meta *types.Metadata, pot uint32, addresses []string) (*UserRegistrar, error) {
	users := make([]types.AccountID, 0, len(addresses))
	for _, address := range addresses {
		raw, err := models.DecodeSS58Address(address)
		if err != nil {
			return nil, fmt.Errorf("could not decode user address %q: %w", address, err)
		}
		users = append(users, types.NewAccountID(raw))
	}

	w := UserRegistrar{
		meta:  meta,
		pot:   pot,
		users: users,
	}

	return &w, nil
}

func (w *UserRegistrar) Units() int {
	return len(w.users)
}

func (w *UserRegistrar) BuildCall(first int, count int) (types.Call, error) {
	call, err := types.NewCall(w.meta, "Sponsorship.register_users",
		types.NewU32(w.pot),
		w.users[first:first+count],
	)
	if err != nil {
		return types.Call{}, fmt.Errorf("could not build register_users call: %w", err)
	}

	return call, nil
}
