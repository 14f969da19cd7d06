package cdp

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	vcommon "github.com/vaultis/vaultis/common"
)

// Deployment is the set of contract addresses one network's cdp system
// lives at, plus its supported collateral types.
type Deployment struct {
	CdpManager    common.Address
	Vat           common.Address
	Jug           common.Address
	ProxyRegistry common.Address
	ProxyActions  common.Address
	DaiJoin       common.Address
	Dai           common.Address
	Ilks          *IlkTable
}

func MainnetDeployment() Deployment {
	return Deployment{
		CdpManager:    vcommon.HexToAddress("0x5ef30b9986345249bc32d8928B7ee64DE9435E39"),
		Vat:           vcommon.HexToAddress("0x35D1b3F3D7966A1DFe207aa4514C12a259A0492B"),
		Jug:           vcommon.HexToAddress("0x19c0976f590D67707E62397C87829d896Dc0f1F1"),
		ProxyRegistry: vcommon.HexToAddress("0x4678f0a6958e4D2Bc4F1BAF7Bc52E8F3564f3fE4"),
		ProxyActions:  vcommon.HexToAddress("0x82ecD135Dce65Fbc6DbdD0e4237E0AF93FFD5038"),
		DaiJoin:       vcommon.HexToAddress("0x9759A6Ac90977b93B58547b4A71c78317f391A28"),
		Dai:           vcommon.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"),
		Ilks: NewIlkTable(
			Ilk{
				Symbol:    "ETH-A",
				Currency:  "ETH",
				IsEther:   true,
				Precision: BaseUnit,
				Join:      vcommon.HexToAddress("0x2F0b23f53734252Bda2277357e97e1517d6B042A"),
			},
			Ilk{
				Symbol:    "BAT-A",
				Currency:  "BAT",
				Precision: 18,
				Gem:       vcommon.HexToAddress("0x0D8775F648430679A709E98d2b0Cb6250d2887EF"),
				Join:      vcommon.HexToAddress("0x3D0B1912B66114d4096F48A8CEe3A56C231772cA"),
			},
			Ilk{
				Symbol:    "USDC-A",
				Currency:  "USDC",
				Precision: 6,
				Gem:       vcommon.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
				Join:      vcommon.HexToAddress("0xA191e578a6736167326d05c119CE0c90849E84B7"),
			},
			Ilk{
				Symbol:    "WBTC-A",
				Currency:  "WBTC",
				Precision: 8,
				Gem:       vcommon.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"),
				Join:      vcommon.HexToAddress("0xBF72Da2Bd84c5170618Fbe5914B0ECA9638d5eb5"),
			},
			Ilk{
				Symbol:    "TUSD-A",
				Currency:  "TUSD",
				Precision: 18,
				Gem:       vcommon.HexToAddress("0x0000000000085d4780B73119b644AE5ecd22b376"),
				Join:      vcommon.HexToAddress("0x4454aF7C8bb9463203b66C816220D41ED7837f44"),
			},
		),
	}
}

func KovanDeployment() Deployment {
	return Deployment{
		CdpManager:    vcommon.HexToAddress("0x1476483dD8C35F25e568113C5f70249D3976ba21"),
		Vat:           vcommon.HexToAddress("0xbA987bDB501d131f766fEe8180Da5d81b34b69d9"),
		Jug:           vcommon.HexToAddress("0xcbB7718c9F39d05aEEDE1c472ca8Bf804b2f1EaD"),
		ProxyRegistry: vcommon.HexToAddress("0x64A436ae831C1672AE81F674CAb8B6775df3475C"),
		ProxyActions:  vcommon.HexToAddress("0xd1D24637b9109B7f61459176EdcfF9Be56283a7B"),
		DaiJoin:       vcommon.HexToAddress("0x5AA71a3ae1C0bd6ac27A1f28e1415fFFB6F15B8c"),
		Dai:           vcommon.HexToAddress("0x4F96Fe3b7A6Cf9725f59d353F723c1bDb64CA6Aa"),
		Ilks: NewIlkTable(
			Ilk{
				Symbol:    "ETH-A",
				Currency:  "ETH",
				IsEther:   true,
				Precision: BaseUnit,
				Join:      vcommon.HexToAddress("0x775787933e92b709f2a3C70aa87999696e74A9F8"),
			},
			Ilk{
				Symbol:    "BAT-A",
				Currency:  "BAT",
				Precision: 18,
				Gem:       vcommon.HexToAddress("0x9f8cFB61D3B2aF62864408DD703F9C3BEB55dff7"),
				Join:      vcommon.HexToAddress("0x2a4C485B1B8dFb46acCfbeCaF75b6188A59dBd0a"),
			},
			// GNT's token accounting can't receive transferFrom pulls so
			// its collateral goes in through a custodial bag
			Ilk{
				Symbol:      "GNT-A",
				Currency:    "GNT",
				Precision:   18,
				Gem:         vcommon.HexToAddress("0xAf30F6A6B09728a4e793ED6d9D0A7f13271562e1"),
				Join:        vcommon.HexToAddress("0xc667AC878FD8Eb4412DCAd07988Fea80008B65Ee"),
				RequiresBag: true,
			},
		),
	}
}

// DeploymentByChainID maps a chain id to its deployment.
func DeploymentByChainID(chainID int64) (Deployment, error) {
	switch chainID {
	case 1:
		return MainnetDeployment(), nil
	case 42:
		return KovanDeployment(), nil
	}
	return Deployment{}, fmt.Errorf("no cdp deployment is known for chain id %d", chainID)
}
