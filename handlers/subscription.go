package handlers

import (
	"context"
	"sync"

	"github.com/centrifuge/go-substrate-rpc-client/v2/client"
	"github.com/centrifuge/go-substrate-rpc-client/v2/config"
	gethrpc "github.com/centrifuge/go-substrate-rpc-client/v2/gethrpc"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"

	"github.com/nodle-tools/client-eden-golang-api/models"
)

// StatusWatcher follows the lifecycle of one submitted envelope. The
// submission pipeline only depends on this interface so it can be
// exercised without a node.
type StatusWatcher interface {
	Chan() <-chan types.ExtrinsicStatus
	Err() <-chan error
	Unsubscribe()
}

// submitAndWatch submits a signed envelope and subscribes to its status
// updates without waiting for inclusion.
func submitAndWatch(cli client.Client, xt models.Extrinsic) (*ExtrinsicStatusSubscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Default().SubscribeTimeout)
	defer cancel()

	c := make(chan types.ExtrinsicStatus)

	enc, err := xt.Hex()
	if err != nil {
		return nil, err
	}

	sub, err := cli.Subscribe(ctx, "author", "submitAndWatchExtrinsic", "unwatchExtrinsic", "extrinsicUpdate",
		c, enc)
	if err != nil {
		return nil, err
	}

	return &ExtrinsicStatusSubscription{sub: sub, channel: c}, nil
}

// ExtrinsicStatusSubscription is a status subscription established
// through the author RPC namespace.
type ExtrinsicStatusSubscription struct {
	sub      *gethrpc.ClientSubscription
	channel  chan types.ExtrinsicStatus
	quitOnce sync.Once // ensures the channel is closed once
}

// Chan returns the subscription channel.
//
// The channel is closed when Unsubscribe is called on the subscription.
func (s *ExtrinsicStatusSubscription) Chan() <-chan types.ExtrinsicStatus {
	return s.channel
}

// Err returns the subscription error channel. The error channel
// receives a value when the subscription has ended due to an error; it
// is closed when Unsubscribe is called.
func (s *ExtrinsicStatusSubscription) Err() <-chan error {
	return s.sub.Err()
}

// Unsubscribe unsubscribes the notification and closes the status
// channel. It can safely be called more than once.
func (s *ExtrinsicStatusSubscription) Unsubscribe() {
	s.sub.Unsubscribe()
	s.quitOnce.Do(func() {
		close(s.channel)
	})
}
