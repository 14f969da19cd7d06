package cdp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vcommon "github.com/vaultis/vaultis/common"
)

type fakeStatuser struct {
	status string
}

func (s fakeStatuser) BlockingWait(tx string) vcommon.TxInfo {
	return vcommon.TxInfo{Status: s.status}
}

type fakeReasoner struct {
	reason string
	err    error
	calls  int
}

func (r *fakeReasoner) TxRevertReason(hash string) (string, error) {
	r.calls++
	return r.reason, r.err
}

func TestChainWaiterMinedTx(t *testing.T) {
	reasons := &fakeReasoner{}
	w := NewChainWaiter(fakeStatuser{status: "done"}, reasons)

	require.NoError(t, w.Wait("0xabc"))
	assert.Equal(t, 0, reasons.calls)
}

func TestChainWaiterKeepsRevertReasonVerbatim(t *testing.T) {
	reasons := &fakeReasoner{reason: "cdp-not-allowed"}
	w := NewChainWaiter(fakeStatuser{status: "reverted"}, reasons)

	err := w.Wait("0xdead")
	require.Error(t, err)
	var revert *ContractRevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "0xdead", revert.TxHash)
	assert.Equal(t, "cdp-not-allowed", revert.Reason)
	assert.Contains(t, revert.Error(), "cdp-not-allowed")
	assert.Equal(t, 1, reasons.calls)
}

func TestChainWaiterRevertWithUnrecoverableReason(t *testing.T) {
	reasons := &fakeReasoner{err: errors.New("all nodes down")}
	w := NewChainWaiter(fakeStatuser{status: "reverted"}, reasons)

	err := w.Wait("0xdead")
	var revert *ContractRevertError
	require.True(t, errors.As(err, &revert))
	assert.Empty(t, revert.Reason)
	assert.Contains(t, revert.Error(), "reverted")
}

func TestChainWaiterLostTx(t *testing.T) {
	w := NewChainWaiter(fakeStatuser{status: "lost"}, nil)

	err := w.Wait("0xbeef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disappeared")
}
