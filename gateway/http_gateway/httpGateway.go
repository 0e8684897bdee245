// Package http_gateway submits execution orders to an external executor
// service over HTTP. The executor is the component holding the actual ledger
// credentials; this client only ferries orders and classifies outcomes.
package http_gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/hoepeyemi/fusee-sub001/gateway"
)

const (
	defaultSubmitTimeout = 30 * time.Second

	idempotencyHeader = "X-Idempotency-Key"
)

type errorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type HTTPGateway struct {
	endpoint string
	client   *http.Client
}

func NewHTTPGateway(endpoint string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = defaultSubmitTimeout
	}

	return &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit POSTs the order to the executor. Outcome classification:
// a parseable JSON rejection from the executor is definitive (it was alive
// and refused), everything else, transport failures and half-read responses
// included, is ambiguous.
func (g *HTTPGateway) Submit(ctx context.Context, order gateway.ExecutionOrder) (*gateway.Receipt, error) {
	data, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execution order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/submitTransfer", g.endpoint), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyHeader, fmt.Sprintf("%s/%d", order.MultisigID, order.TransactionIndex))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, gateway.NewAmbiguousErr("transport",
			"failed to send order for proposal %s: %v", order.ProposalID, err)
	}
	defer resp.Body.Close()

	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, gateway.NewAmbiguousErr("transport",
			"failed to read executor response for proposal %s: %v", order.ProposalID, err)
	}

	if resp.StatusCode == http.StatusOK {
		var receipt gateway.Receipt
		if err := json.Unmarshal(responseBody, &receipt); err != nil {
			return nil, gateway.NewAmbiguousErr("bad_receipt",
				"executor accepted proposal %s but the receipt is unreadable: %v", order.ProposalID, err)
		}
		if receipt.TxHash == "" {
			return nil, gateway.NewAmbiguousErr("bad_receipt",
				"executor accepted proposal %s without a transaction hash", order.ProposalID)
		}
		return &receipt, nil
	}

	var rejection errorResponse
	if err := json.Unmarshal(responseBody, &rejection); err != nil || rejection.ErrorMessage == "" {
		return nil, gateway.NewAmbiguousErr("http_status",
			"executor answered %d for proposal %s without a structured rejection", resp.StatusCode, order.ProposalID)
	}

	code := rejection.ErrorCode
	if code == "" {
		code = fmt.Sprintf("http_%d", resp.StatusCode)
	}
	return nil, gateway.NewDefinitiveErr(code, "%s", rejection.ErrorMessage)
}
