package cdp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCdpEventsParsesIndexerResponse(t *testing.T) {
	var gotURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		fmt.Fprint(w, `{
			"status": "1",
			"message": "OK",
			"result": [
				{"ilk": "ETH-A", "type": "lock", "amount": "2000000000000000000", "timestamp": 1574035200, "txHash": "0xabc", "block": 8900000},
				{"ilk": "BAT-A", "type": "draw", "amount": "100000000000000000000", "timestamp": 1574038800, "txHash": "0xdef", "block": 8900123}
			]
		}`)
	}))
	defer server.Close()

	q := NewHTTPQueryService(server.URL)
	events, err := q.CdpEvents([]IlkUrn{
		{Ilk: "ETH-A", Urn: testAddr(0x10)},
		{Ilk: "BAT-A", Urn: testAddr(0x20)},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Contains(t, gotURL, "action=cdpevents")
	assert.Contains(t, gotURL, "ilks=ETH-A,BAT-A")

	assert.Equal(t, "ETH-A", events[0].Ilk)
	assert.Equal(t, "lock", events[0].Type)
	assert.Equal(t, "2000000000000000000", events[0].Amount.String())
	assert.Equal(t, uint64(8900000), events[0].Block)
	assert.Equal(t, int64(1574035200), events[0].Timestamp.Unix())
	assert.Equal(t, "0xdef", events[1].TxHash)
}

func TestCdpEventsEmptyPairsSkipsTheNetwork(t *testing.T) {
	q := NewHTTPQueryService("http://127.0.0.1:1")
	events, err := q.CdpEvents(nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCdpEventsIndexerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "0", "message": "NOTOK", "result": []}`)
	}))
	defer server.Close()

	q := NewHTTPQueryService(server.URL)
	_, err := q.CdpEvents([]IlkUrn{{Ilk: "ETH-A", Urn: testAddr(0x10)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTOK")
}

func TestCdpEventsRejectsBadAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "1", "message": "OK", "result": [{"ilk": "ETH-A", "type": "lock", "amount": "1.5"}]}`)
	}))
	defer server.Close()

	q := NewHTTPQueryService(server.URL)
	_, err := q.CdpEvents([]IlkUrn{{Ilk: "ETH-A", Urn: testAddr(0x10)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}
