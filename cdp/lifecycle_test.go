package cdp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	index  int
	state  StepState
	txHash string
}

func collect(ch <-chan StepStatus) []transition {
	result := []transition{}
	for status := range ch {
		result = append(result, transition{
			index:  status.Index,
			state:  status.State,
			txHash: status.TxHash,
		})
	}
	return result
}

func submittingStep(contract, method, hash string) step {
	return step{
		contract: contract,
		method:   method,
		run: func(pending func(hash string)) error {
			pending(hash)
			return nil
		},
	}
}

func TestOperationNotifiesStepsInOrder(t *testing.T) {
	op := newOperation([]step{
		submittingStep("ProxyRegistry", "build", "0x01"),
		submittingStep("ProxyActions", "openLockETHAndDraw", "0x02"),
	}, func() (*Position, error) {
		return &Position{ID: 7, Ilk: "ETH-A"}, nil
	})

	ch := op.Subscribe()
	pos, err := op.Run()
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, uint64(7), pos.ID)

	assert.Equal(t, []transition{
		{1, StepPending, "0x01"},
		{1, StepMined, "0x01"},
		{2, StepPending, "0x02"},
		{2, StepMined, "0x02"},
	}, collect(ch))
}

// A step whose effect is already in place submits nothing but still has
// to surface both transitions so observers see a uniform sequence.
func TestOperationSkippedStepStillNotifies(t *testing.T) {
	op := newOperation([]step{
		{contract: "ProxyRegistry", method: "build", run: func(pending func(hash string)) error {
			return nil
		}},
	}, nil)

	ch := op.Subscribe()
	_, err := op.Run()
	require.NoError(t, err)

	assert.Equal(t, []transition{
		{1, StepPending, ""},
		{1, StepMined, ""},
	}, collect(ch))
}

func TestOperationHaltsOnFailedStep(t *testing.T) {
	ranThird := false
	op := newOperation([]step{
		submittingStep("ProxyRegistry", "build", "0x01"),
		{contract: "GemJoin", method: "make", run: func(pending func(hash string)) error {
			return fmt.Errorf("nonce too low")
		}},
		{contract: "ProxyActions", method: "lockGemAndDraw", run: func(pending func(hash string)) error {
			ranThird = true
			return nil
		}},
	}, func() (*Position, error) {
		return &Position{ID: 1}, nil
	})

	ch := op.Subscribe()
	pos, err := op.Run()
	require.Error(t, err)
	assert.Nil(t, pos)
	assert.Contains(t, err.Error(), "step 2/3 (GemJoin.make) failed")
	assert.False(t, ranThird)

	transitions := collect(ch)
	require.Len(t, transitions, 4)
	assert.Equal(t, transition{2, StepErrored, ""}, transitions[3])

	statuses := op.Steps()
	assert.Equal(t, StepMined, statuses[0].State)
	assert.Equal(t, StepErrored, statuses[1].State)
	assert.Equal(t, StepNotStarted, statuses[2].State)
}

func TestOperationStartTwiceRunsOnce(t *testing.T) {
	runs := 0
	op := newOperation([]step{
		{contract: "a", method: "b", run: func(pending func(hash string)) error {
			runs++
			return nil
		}},
	}, nil)

	op.Start()
	op.Start()
	_, err := op.Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestOperationSettleErrorIsReturned(t *testing.T) {
	op := newOperation([]step{
		submittingStep("a", "b", "0x01"),
	}, func() (*Position, error) {
		return nil, fmt.Errorf("cdp did not show up")
	})

	_, err := op.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cdp did not show up")
}

func TestOperationIDsAreUnique(t *testing.T) {
	a := newOperation(nil, nil)
	b := newOperation(nil, nil)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
