package explorers

type BlockExplorer interface {
	RecommendedGasPrice() (float64, error)
}

func NewMainnetEtherscan() *EtherscanLikeExplorer {
	return NewEtherscanLikeExplorer(
		"https://api.etherscan.io",
		"UBB257TI824FC7HUSPT66KZUMGBPRN3IWV",
	)
}

func NewKovanEtherscan() *EtherscanLikeExplorer {
	return NewEtherscanLikeExplorer(
		"https://api-kovan.etherscan.io",
		"UBB257TI824FC7HUSPT66KZUMGBPRN3IWV",
	)
}
