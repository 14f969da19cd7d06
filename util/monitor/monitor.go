package monitor

import (
	"time"

	"github.com/vaultis/vaultis/common"
	"github.com/vaultis/vaultis/util/reader"
)

// TxMonitor polls the nodes for the status of a tx until it reaches a
// terminal state (done, reverted or lost).
type TxMonitor struct {
	reader *reader.EthReader
}

func NewGenericTxMonitor(r *reader.EthReader) *TxMonitor {
	return &TxMonitor{r}
}

func (self TxMonitor) periodicCheck(tx string, info chan common.TxInfo) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	for {
		t := <-ticker.C
		txinfo, _ := self.reader.TxInfoFromHash(tx)
		switch txinfo.Status {
		case "error":
			continue
		case "notfound":
			if t.Sub(startTime) > 3*time.Minute && !isOnNode {
				info <- common.TxInfo{Status: "lost", Tx: txinfo.Tx, Receipt: txinfo.Receipt}
				return
			} else {
				continue
			}
		case "pending":
			isOnNode = true
			continue
		case "reverted":
			info <- common.TxInfo{Status: "reverted", Tx: txinfo.Tx, Receipt: txinfo.Receipt}
			return
		case "done":
			info <- common.TxInfo{Status: "done", Tx: txinfo.Tx, Receipt: txinfo.Receipt}
			return
		}
	}
}

func (self TxMonitor) MakeWaitChannel(tx string) <-chan common.TxInfo {
	result := make(chan common.TxInfo)
	go self.periodicCheck(tx, result)
	return result
}

func (self TxMonitor) BlockingWait(tx string) common.TxInfo {
	wChannel := self.MakeWaitChannel(tx)
	return <-wChannel
}

