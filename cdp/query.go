package cdp

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// HTTPQueryService answers CdpEvents from a remote vault event indexer
// exposing a getCdpEventsForArrayOfIlksAndUrns style endpoint. The
// indexer's row order is returned untouched.
type HTTPQueryService struct {
	Domain string
	client *http.Client
}

func NewHTTPQueryService(domain string) *HTTPQueryService {
	return &HTTPQueryService{
		Domain: domain,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (q *HTTPQueryService) CdpEventsAPIURL(pairs []IlkUrn) string {
	ilks := make([]string, 0, len(pairs))
	urns := make([]string, 0, len(pairs))
	for _, p := range pairs {
		ilks = append(ilks, p.Ilk)
		urns = append(urns, p.Urn.Hex())
	}
	return fmt.Sprintf(
		"%s/api?action=cdpevents&ilks=%s&urns=%s",
		q.Domain,
		strings.Join(ilks, ","),
		strings.Join(urns, ","),
	)
}

type queryEventRow struct {
	Ilk       string `json:"ilk"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	TxHash    string `json:"txHash"`
	Block     uint64 `json:"block"`
}

type queryEventsResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  []queryEventRow `json:"result"`
}

func (q *HTTPQueryService) CdpEvents(pairs []IlkUrn) ([]RawEvent, error) {
	if len(pairs) == 0 {
		return []RawEvent{}, nil
	}
	url := q.CdpEventsAPIURL(pairs)
	resp, err := q.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	eventsresp := queryEventsResponse{}
	err = json.Unmarshal(body, &eventsresp)
	if err != nil {
		return nil, fmt.Errorf(
			"couldn't unmarshal %s to cdp events, err: %w",
			string(body),
			err,
		)
	}
	if eventsresp.Status != "1" {
		return nil, fmt.Errorf("error from %s: %s", url, eventsresp.Message)
	}

	result := make([]RawEvent, 0, len(eventsresp.Result))
	for _, row := range eventsresp.Result {
		amount, ok := new(big.Int).SetString(row.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("event amount '%s' is not an integer", row.Amount)
		}
		result = append(result, RawEvent{
			Ilk:       row.Ilk,
			Type:      row.Type,
			Amount:    amount,
			Timestamp: time.Unix(row.Timestamp, 0),
			TxHash:    row.TxHash,
			Block:     row.Block,
		})
	}
	return result, nil
}
