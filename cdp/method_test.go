package cdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectLockMethod(t *testing.T) {
	tests := []struct {
		name          string
		isEther       bool
		hasExistingID bool
		want          LockMethod
	}{
		{"ether into existing cdp", true, true, LockETHAndDraw},
		{"ether into new cdp", true, false, OpenLockETHAndDraw},
		{"token into existing cdp", false, true, LockGemAndDraw},
		{"token into new cdp", false, false, OpenLockGemAndDraw},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectLockMethod(tc.isEther, tc.hasExistingID))
		})
	}
}

func TestLockMethodNames(t *testing.T) {
	assert.Equal(t, "lockETHAndDraw", LockETHAndDraw.String())
	assert.Equal(t, "openLockETHAndDraw", OpenLockETHAndDraw.String())
	assert.Equal(t, "lockGemAndDraw", LockGemAndDraw.String())
	assert.Equal(t, "openLockGemAndDraw", OpenLockGemAndDraw.String())
}

// The gem methods are overloaded on the contract, their signatures have
// to be fully qualified including the trailing transferFrom bool.
func TestLockMethodSignatures(t *testing.T) {
	assert.Equal(t,
		"lockETHAndDraw(address,address,address,address,uint256,uint256)",
		LockETHAndDraw.Signature())
	assert.Equal(t,
		"openLockETHAndDraw(address,address,address,address,bytes32,uint256)",
		OpenLockETHAndDraw.Signature())
	assert.Equal(t,
		"lockGemAndDraw(address,address,address,address,uint256,uint256,uint256,bool)",
		LockGemAndDraw.Signature())
	assert.Equal(t,
		"openLockGemAndDraw(address,address,address,address,bytes32,uint256,uint256,bool)",
		OpenLockGemAndDraw.Signature())
}

func TestLockMethodProperties(t *testing.T) {
	assert.False(t, LockETHAndDraw.OpensCdp())
	assert.True(t, OpenLockETHAndDraw.OpensCdp())
	assert.False(t, LockGemAndDraw.OpensCdp())
	assert.True(t, OpenLockGemAndDraw.OpensCdp())

	assert.True(t, LockETHAndDraw.IsEther())
	assert.True(t, OpenLockETHAndDraw.IsEther())
	assert.False(t, LockGemAndDraw.IsEther())
	assert.False(t, OpenLockGemAndDraw.IsEther())
}
