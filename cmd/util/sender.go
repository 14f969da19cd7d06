package util

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vaultis/vaultis/config"
	"github.com/vaultis/vaultis/networks"
)

// Sender binds the context manager to one wallet and network, turning
// calldata into signed, broadcasted transactions. Flag overrides from
// the config package take precedence over node suggested values.
type Sender struct {
	cm      *ContextManager
	wallet  common.Address
	network networks.Network
}

func NewSender(cm *ContextManager, wallet common.Address, network networks.Network) *Sender {
	return &Sender{cm: cm, wallet: wallet, network: network}
}

func (s *Sender) SendTx(to common.Address, value *big.Int, data []byte) (string, error) {
	var nonce *big.Int
	if config.Nonce != 0 {
		nonce = big.NewInt(int64(config.Nonce))
	}

	tx, err := s.cm.BuildTx(
		s.wallet, to,
		nonce,
		value,
		config.GasLimit,
		config.GasPrice,
		config.TipGas,
		data,
		s.network,
	)
	if err != nil {
		return "", err
	}

	if config.DontBroadcast {
		signed, err := s.cm.SignTx(s.wallet, tx, s.network)
		if err != nil {
			return "", err
		}
		return "", fmt.Errorf(
			"dry run, signed tx %s was not broadcasted", signed.Hash().Hex(),
		)
	}

	signed, broadcasted, err := s.cm.SignTxAndBroadcast(s.wallet, tx, s.network)
	if !broadcasted {
		return "", fmt.Errorf("couldn't broadcast tx: %w", err)
	}
	return signed.Hash().Hex(), nil
}
