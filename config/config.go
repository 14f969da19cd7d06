package config

var Network string

const (
	TxTypeLegacy     = "legacy"
	TxTypeDynamicFee = "dynamicfee"
)

var (
	GasPrice      float64
	ExtraGasPrice float64
	GasLimit      uint64
	ExtraGasLimit uint64
	Nonce         uint64
	TipGas        float64
	TxType        string = TxTypeDynamicFee
	From          string

	IlkSymbol string
	CdpID     uint64
	LockValue float64
	DrawValue float64

	DontBroadcast     bool
	DontWaitToBeMined bool
	JSONOutputFile    string
)
