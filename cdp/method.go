package cdp

// LockMethod identifies which proxy actions entry point a lock-and-draw
// request resolves to. The underlying contract exposes distinct methods
// for ether vs generic tokens and for attaching collateral to an existing
// cdp vs opening a new one, so the dispatch is a closed enum instead of a
// method name assembled at runtime.
type LockMethod int

const (
	LockETHAndDraw LockMethod = iota
	OpenLockETHAndDraw
	LockGemAndDraw
	OpenLockGemAndDraw
)

// SelectLockMethod resolves the method for any combination of the two
// axes. It is total, all four quadrants are valid.
func SelectLockMethod(isEther bool, hasExistingID bool) LockMethod {
	if isEther {
		if hasExistingID {
			return LockETHAndDraw
		}
		return OpenLockETHAndDraw
	}
	if hasExistingID {
		return LockGemAndDraw
	}
	return OpenLockGemAndDraw
}

func (m LockMethod) String() string {
	switch m {
	case LockETHAndDraw:
		return "lockETHAndDraw"
	case OpenLockETHAndDraw:
		return "openLockETHAndDraw"
	case LockGemAndDraw:
		return "lockGemAndDraw"
	case OpenLockGemAndDraw:
		return "openLockGemAndDraw"
	}
	return "unknown"
}

// Signature returns the fully qualified signature. The gem variants need
// it spelled out because the contract overloads them and name-only lookup
// would be ambiguous.
func (m LockMethod) Signature() string {
	switch m {
	case LockETHAndDraw:
		return "lockETHAndDraw(address,address,address,address,uint256,uint256)"
	case OpenLockETHAndDraw:
		return "openLockETHAndDraw(address,address,address,address,bytes32,uint256)"
	case LockGemAndDraw:
		return "lockGemAndDraw(address,address,address,address,uint256,uint256,uint256,bool)"
	case OpenLockGemAndDraw:
		return "openLockGemAndDraw(address,address,address,address,bytes32,uint256,uint256,bool)"
	}
	return ""
}

// OpensCdp reports whether the method creates a new cdp as part of the
// call.
func (m LockMethod) OpensCdp() bool {
	return m == OpenLockETHAndDraw || m == OpenLockGemAndDraw
}

// IsEther reports whether the method takes its collateral as call value.
func (m LockMethod) IsEther() bool {
	return m == LockETHAndDraw || m == OpenLockETHAndDraw
}
