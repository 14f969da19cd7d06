package cdp

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	vcommon "github.com/vaultis/vaultis/common"
	"github.com/vaultis/vaultis/util/reader"
)

// ray is the vat's fixed point scale for rates.
var ray = new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil)

// ChainLedger answers Ledger reads from the canonical contracts through
// an EthReader.
type ChainLedger struct {
	reader *reader.EthReader
	deploy Deployment
}

func NewChainLedger(r *reader.EthReader, deploy Deployment) *ChainLedger {
	return &ChainLedger{reader: r, deploy: deploy}
}

func (l *ChainLedger) ProxyOf(owner common.Address) (common.Address, error) {
	addr, err := l.reader.AddressFromContractWithABI(
		l.deploy.ProxyRegistry.Hex(),
		vcommon.GetProxyRegistryABI(),
		"proxies",
		owner,
	)
	if err != nil {
		return common.Address{}, err
	}
	return *addr, nil
}

func (l *ChainLedger) managerUint(method string, args ...interface{}) (uint64, error) {
	result := big.NewInt(0)
	err := l.reader.ReadContractWithABI(
		&result,
		l.deploy.CdpManager.Hex(),
		vcommon.GetCdpManagerABI(),
		method,
		args...,
	)
	if err != nil {
		return 0, err
	}
	return result.Uint64(), nil
}

func (l *ChainLedger) CdpCount(proxy common.Address) (uint64, error) {
	return l.managerUint("count", proxy)
}

func (l *ChainLedger) FirstCdp(proxy common.Address) (uint64, error) {
	return l.managerUint("first", proxy)
}

func (l *ChainLedger) NextCdp(id uint64) (uint64, error) {
	var result struct {
		Prev *big.Int
		Next *big.Int
	}
	err := l.reader.ReadContractWithABI(
		&result,
		l.deploy.CdpManager.Hex(),
		vcommon.GetCdpManagerABI(),
		"list",
		new(big.Int).SetUint64(id),
	)
	if err != nil {
		return 0, err
	}
	return result.Next.Uint64(), nil
}

func (l *ChainLedger) CdpIlk(id uint64) (string, error) {
	var result [32]byte
	err := l.reader.ReadContractWithABI(
		&result,
		l.deploy.CdpManager.Hex(),
		vcommon.GetCdpManagerABI(),
		"ilks",
		new(big.Int).SetUint64(id),
	)
	if err != nil {
		return "", err
	}
	return vcommon.Bytes32ToIlk(result), nil
}

func (l *ChainLedger) CdpUrn(id uint64) (common.Address, error) {
	addr, err := l.reader.AddressFromContractWithABI(
		l.deploy.CdpManager.Hex(),
		vcommon.GetCdpManagerABI(),
		"urns",
		new(big.Int).SetUint64(id),
	)
	if err != nil {
		return common.Address{}, err
	}
	return *addr, nil
}

func (l *ChainLedger) CdpOwner(id uint64) (common.Address, error) {
	addr, err := l.reader.AddressFromContractWithABI(
		l.deploy.CdpManager.Hex(),
		vcommon.GetCdpManagerABI(),
		"owns",
		new(big.Int).SetUint64(id),
	)
	if err != nil {
		return common.Address{}, err
	}
	return *addr, nil
}

// UrnDebt is the urn's normalized debt multiplied by the ilk's
// accumulated rate, scaled back down to dai wei.
func (l *ChainLedger) UrnDebt(ilk string, urn common.Address) (*big.Int, error) {
	ilkBytes := vcommon.IlkToBytes32(ilk)

	var urnData struct {
		Ink *big.Int
		Art *big.Int
	}
	err := l.reader.ReadContractWithABI(
		&urnData,
		l.deploy.Vat.Hex(),
		vcommon.GetVatABI(),
		"urns",
		ilkBytes,
		urn,
	)
	if err != nil {
		return nil, err
	}

	var ilkData struct {
		Art  *big.Int
		Rate *big.Int
		Spot *big.Int
		Line *big.Int
		Dust *big.Int
	}
	err = l.reader.ReadContractWithABI(
		&ilkData,
		l.deploy.Vat.Hex(),
		vcommon.GetVatABI(),
		"ilks",
		ilkBytes,
	)
	if err != nil {
		return nil, err
	}

	debt := new(big.Int).Mul(urnData.Art, ilkData.Rate)
	return debt.Div(debt, ray), nil
}

func (l *ChainLedger) BagOf(proxy common.Address, adapter common.Address) (common.Address, error) {
	addr, err := l.reader.AddressFromContractWithABI(
		adapter.Hex(),
		vcommon.GetGemJoinABI(),
		"bags",
		proxy,
	)
	if err != nil {
		return common.Address{}, err
	}
	return *addr, nil
}

func (l *ChainLedger) TokenBalance(token common.Address, holder common.Address) (*big.Int, error) {
	return l.reader.ERC20Balance(token.Hex(), holder.Hex())
}

// TxSender turns calldata into a pending transaction on the network,
// taking care of nonce, gas and signing. It returns once the tx is
// broadcasted.
type TxSender interface {
	SendTx(to common.Address, value *big.Int, data []byte) (hash string, err error)
}

// TxWaiter blocks until a broadcasted tx reaches a terminal state.
type TxWaiter interface {
	Wait(hash string) error
}

// TxStatuser blocks until a tx reaches a terminal state and reports the
// outcome.
type TxStatuser interface {
	BlockingWait(tx string) vcommon.TxInfo
}

// RevertReasoner recovers the revert message of a mined, reverted tx.
type RevertReasoner interface {
	TxRevertReason(hash string) (string, error)
}

// ChainWaiter adapts the tx monitor to TxWaiter, mapping mining
// outcomes to the core's error taxonomy. Reverts are replayed through
// reasons so the contract's require() message travels with the error,
// verbatim.
type ChainWaiter struct {
	monitor TxStatuser
	reasons RevertReasoner
}

func NewChainWaiter(m TxStatuser, r RevertReasoner) *ChainWaiter {
	return &ChainWaiter{monitor: m, reasons: r}
}

func (w *ChainWaiter) Wait(hash string) error {
	info := w.monitor.BlockingWait(hash)
	switch info.Status {
	case "done":
		return nil
	case "reverted":
		revert := &ContractRevertError{TxHash: hash}
		if w.reasons != nil {
			reason, err := w.reasons.TxRevertReason(hash)
			if err != nil {
				zap.S().Debugw("couldn't recover revert reason", "tx", hash, "err", err)
			} else {
				revert.Reason = reason
			}
		}
		return revert
	case "lost":
		return fmt.Errorf("tx %s disappeared from the network before being mined", hash)
	}
	return fmt.Errorf("tx %s ended in unexpected status '%s'", hash, info.Status)
}

type chainPendingTx struct {
	hash   string
	waiter TxWaiter
}

func (t *chainPendingTx) Hash() string {
	return t.hash
}

func (t *chainPendingTx) Wait() error {
	return t.waiter.Wait(t.hash)
}

// ChainBackend implements TxBackend by packing calldata for the
// deployment's contracts and handing it to a sender. Every vault action
// goes through the proxy's execute, delegatecalling into the proxy
// actions contract.
type ChainBackend struct {
	sender TxSender
	waiter TxWaiter
	deploy Deployment
}

func NewChainBackend(sender TxSender, waiter TxWaiter, deploy Deployment) *ChainBackend {
	return &ChainBackend{sender: sender, waiter: waiter, deploy: deploy}
}

func (b *ChainBackend) send(to common.Address, value *big.Int, data []byte) (PendingTx, error) {
	hash, err := b.sender.SendTx(to, value, data)
	if err != nil {
		return nil, err
	}
	zap.S().Debugw("submitted vault tx", "to", to.Hex(), "value", value, "hash", hash)
	return &chainPendingTx{hash: hash, waiter: b.waiter}, nil
}

// proxyExecute wraps a proxy actions call into DSProxy.execute.
func (b *ChainBackend) proxyExecute(proxy common.Address, value *big.Int, calldata []byte) (PendingTx, error) {
	data, err := vcommon.GetDSProxyABI().Pack("execute", b.deploy.ProxyActions, calldata)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack proxy execute: %w", err)
	}
	return b.send(proxy, value, data)
}

func (b *ChainBackend) BuildProxy() (PendingTx, error) {
	data, err := vcommon.GetProxyRegistryABI().Pack("build")
	if err != nil {
		return nil, fmt.Errorf("couldn't pack proxy build: %w", err)
	}
	return b.send(b.deploy.ProxyRegistry, big.NewInt(0), data)
}

func (b *ChainBackend) CreateBag(proxy common.Address, join common.Address) (PendingTx, error) {
	calldata, err := vcommon.GetProxyActionsABI().Pack("makeGemBag", join)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack makeGemBag: %w", err)
	}
	return b.proxyExecute(proxy, big.NewInt(0), calldata)
}

func (b *ChainBackend) TransferToBag(token common.Address, bag common.Address, amount *big.Int) (PendingTx, error) {
	data, err := vcommon.PackERC20Data("transfer", bag, amount)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack bag transfer: %w", err)
	}
	return b.send(token, big.NewInt(0), data)
}

func (b *ChainBackend) Open(proxy common.Address, ilk Ilk) (PendingTx, error) {
	calldata, err := vcommon.GetProxyActionsABI().Pack(
		"open",
		b.deploy.CdpManager,
		ilk.Bytes32(),
		proxy,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack open: %w", err)
	}
	return b.proxyExecute(proxy, big.NewInt(0), calldata)
}

func (b *ChainBackend) LockAndDraw(
	proxy common.Address,
	method LockMethod,
	ilk Ilk,
	cdpID uint64,
	lock *big.Int,
	draw *big.Int,
) (PendingTx, error) {
	actions := vcommon.GetProxyActionsABI()
	var calldata []byte
	var err error
	value := big.NewInt(0)

	switch method {
	case LockETHAndDraw:
		calldata, err = actions.Pack(
			"lockETHAndDraw",
			b.deploy.CdpManager, b.deploy.Jug, ilk.Join, b.deploy.DaiJoin,
			new(big.Int).SetUint64(cdpID), draw,
		)
		value = lock
	case OpenLockETHAndDraw:
		calldata, err = actions.Pack(
			"openLockETHAndDraw",
			b.deploy.CdpManager, b.deploy.Jug, ilk.Join, b.deploy.DaiJoin,
			ilk.Bytes32(), draw,
		)
		value = lock
	case LockGemAndDraw:
		// bag ilks already hold the collateral in the bag so the contract
		// must not pull it again with transferFrom
		calldata, err = actions.Pack(
			"lockGemAndDraw",
			b.deploy.CdpManager, b.deploy.Jug, ilk.Join, b.deploy.DaiJoin,
			new(big.Int).SetUint64(cdpID), lock, draw, !ilk.RequiresBag,
		)
	case OpenLockGemAndDraw:
		calldata, err = actions.Pack(
			"openLockGemAndDraw",
			b.deploy.CdpManager, b.deploy.Jug, ilk.Join, b.deploy.DaiJoin,
			ilk.Bytes32(), lock, draw, !ilk.RequiresBag,
		)
	default:
		return nil, fmt.Errorf("unknown lock method %d", method)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	return b.proxyExecute(proxy, value, calldata)
}

func (b *ChainBackend) FreeCollateral(
	proxy common.Address,
	ilk Ilk,
	cdpID uint64,
	amount *big.Int,
) (PendingTx, error) {
	actions := vcommon.GetProxyActionsABI()
	var calldata []byte
	var err error
	if ilk.IsEther {
		calldata, err = actions.Pack(
			"freeETH",
			b.deploy.CdpManager, ilk.Join,
			new(big.Int).SetUint64(cdpID), amount,
		)
	} else {
		calldata, err = actions.Pack(
			"freeGem",
			b.deploy.CdpManager, ilk.Join,
			new(big.Int).SetUint64(cdpID), amount,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't pack free: %w", err)
	}
	return b.proxyExecute(proxy, big.NewInt(0), calldata)
}
