package handlers_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v2/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v2/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodle-tools/client-eden-golang-api/handlers"
	"github.com/nodle-tools/client-eden-golang-api/models"
)

// fakeWatcher replays a fixed terminal status for one envelope.
type fakeWatcher struct {
	statuses     chan types.ExtrinsicStatus
	errs         chan error
	unsubscribed bool
}

func newFakeWatcher(status types.ExtrinsicStatus) *fakeWatcher {
	w := fakeWatcher{
		statuses: make(chan types.ExtrinsicStatus, 1),
		errs:     make(chan error),
	}
	w.statuses <- status

	return &w
}

func (w *fakeWatcher) Chan() <-chan types.ExtrinsicStatus {
	return w.statuses
}

func (w *fakeWatcher) Err() <-chan error {
	return w.errs
}

func (w *fakeWatcher) Unsubscribe() {
	w.unsubscribed = true
}

// fakeNode records submitted envelopes and hands out one pre-built
// watcher per submission.
type fakeNode struct {
	submitted []models.Extrinsic
	watchers  []*fakeWatcher
	failAt    int // submission index that is rejected, -1 for none
}

func newFakeNode(statuses ...types.ExtrinsicStatus) *fakeNode {
	n := fakeNode{failAt: -1}
	for _, status := range statuses {
		n.watchers = append(n.watchers, newFakeWatcher(status))
	}

	return &n
}

func (n *fakeNode) SubmitAndWatch(ext models.Extrinsic) (handlers.StatusWatcher, error) {
	if n.failAt == len(n.submitted) {
		return nil, errors.New("pool rejected envelope")
	}

	n.submitted = append(n.submitted, ext)

	return n.watchers[len(n.submitted)-1], nil
}

// fakeWorkload records the chunk bounds it was asked to build.
type fakeWorkload struct {
	units  int
	built  [][2]int
	failAt int // build index that fails, -1 for none
}

func newFakeWorkload(units int) *fakeWorkload {
	return &fakeWorkload{units: units, failAt: -1}
}

func (w *fakeWorkload) Units() int {
	return w.units
}

func (w *fakeWorkload) BuildCall(first int, count int) (types.Call, error) {
	if w.failAt == len(w.built) {
		return types.Call{}, errors.New("could not fold units")
	}

	w.built = append(w.built, [2]int{first, count})

	return testCall(), nil
}

func finalized() types.ExtrinsicStatus {
	return types.ExtrinsicStatus{IsFinalized: true}
}

func dropped() types.ExtrinsicStatus {
	return types.ExtrinsicStatus{IsDropped: true}
}

func extrinsicNonce(t *testing.T, ext models.Extrinsic) uint64 {
	t.Helper()

	require.True(t, ext.Signature.Extra.Params.HasNonce)
	nonce := big.Int(ext.Signature.Extra.Params.Nonce)

	return nonce.Uint64()
}

func testPipeline(t *testing.T, node handlers.Submitter, cursor *handlers.NonceCursor) *handlers.Pipeline {
	t.Helper()

	factory, err := handlers.NewEnvelopeFactory(declaredExtensions(), testContext(), signature.TestKeyringPairAlice)
	require.NoError(t, err)

	return handlers.NewPipeline(zerolog.Nop(), node, factory, cursor)
}

func TestPipeline_Run(t *testing.T) {
	node := newFakeNode(finalized(), finalized(), finalized())
	workload := newFakeWorkload(1200)
	cursor := handlers.NewNonceCursor(7)

	err := testPipeline(t, node, cursor).Run(workload, 500)

	require.NoError(t, err)

	// 1200 units at a ceiling of 500 fold into chunks of 500, 500 and a
	// 200-unit remainder.
	assert.Equal(t, [][2]int{{0, 500}, {500, 500}, {1000, 200}}, workload.built)

	require.Len(t, node.submitted, 3)
	for i, ext := range node.submitted {
		assert.Equal(t, uint64(7+i), extrinsicNonce(t, ext))
	}

	for _, watcher := range node.watchers {
		assert.True(t, watcher.unsubscribed)
	}

	// The cursor points past the submitted sequence.
	assert.Equal(t, uint32(10), cursor.Next())
}

func TestPipeline_Run_InvalidBatch(t *testing.T) {
	node := newFakeNode()
	cursor := handlers.NewNonceCursor(0)

	err := testPipeline(t, node, cursor).Run(newFakeWorkload(10), 0)

	assert.Error(t, err)
	assert.Empty(t, node.submitted)
}

func TestPipeline_Run_SubmissionFailure(t *testing.T) {
	node := newFakeNode(finalized(), finalized())
	node.failAt = 1
	workload := newFakeWorkload(1000)
	cursor := handlers.NewNonceCursor(7)

	err := testPipeline(t, node, cursor).Run(workload, 500)

	require.Error(t, err)

	var submission *handlers.SubmissionError
	require.True(t, errors.As(err, &submission))
	assert.Equal(t, 1, submission.Chunk)
	assert.Equal(t, uint32(8), submission.Nonce)

	// The failing chunk aborts the rest, but the first envelope was
	// already on the wire and still gets drained.
	assert.Len(t, node.submitted, 1)
	assert.True(t, node.watchers[0].unsubscribed)
}

func TestPipeline_Run_BuildFailure(t *testing.T) {
	node := newFakeNode(finalized())
	workload := newFakeWorkload(1000)
	workload.failAt = 1
	cursor := handlers.NewNonceCursor(0)

	err := testPipeline(t, node, cursor).Run(workload, 500)

	require.Error(t, err)
	assert.Len(t, node.submitted, 1)
	assert.True(t, node.watchers[0].unsubscribed)
}

func TestPipeline_Run_FinalityFailure(t *testing.T) {
	node := newFakeNode(finalized(), dropped(), finalized())
	workload := newFakeWorkload(1200)
	cursor := handlers.NewNonceCursor(7)

	err := testPipeline(t, node, cursor).Run(workload, 500)

	require.Error(t, err)

	var finality *handlers.FinalityError
	require.True(t, errors.As(err, &finality))
	assert.Equal(t, 1, finality.Chunk)
	assert.Equal(t, uint32(8), finality.Nonce)

	// A failed envelope never stops the drain of the ones behind it.
	assert.Len(t, node.submitted, 3)
	for _, watcher := range node.watchers {
		assert.True(t, watcher.unsubscribed)
	}
}

func TestPipeline_Run_TipAndMortality(t *testing.T) {
	node := newFakeNode(finalized())
	workload := newFakeWorkload(10)
	cursor := handlers.NewNonceCursor(0)

	checkpoint := types.NewHash(make([]byte, 32))
	pipeline := testPipeline(t, node, cursor).
		SetTip(big.NewInt(25)).
		SetMortality(checkpoint, 49, 64)

	err := pipeline.Run(workload, 500)

	require.NoError(t, err)
	require.Len(t, node.submitted, 1)

	params := node.submitted[0].Signature.Extra.Params
	assert.Equal(t, types.NewUCompactFromUInt(25), params.Tip)
	assert.True(t, params.Era.IsMortalEra)
	require.NotNil(t, params.CheckpointHash)
	assert.Equal(t, checkpoint, *params.CheckpointHash)
}

func TestNonceCursor(t *testing.T) {
	cursor := handlers.NewNonceCursor(41)

	assert.Equal(t, uint32(41), cursor.Next())
	assert.Equal(t, uint32(42), cursor.Next())
	assert.Equal(t, uint32(43), cursor.Next())
}
