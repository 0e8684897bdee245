package http_gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hoepeyemi/fusee-sub001/gateway"
	"github.com/hoepeyemi/fusee-sub001/gateway/http_gateway"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testOrder() gateway.ExecutionOrder {
	return gateway.ExecutionOrder{
		ProposalID:       "proposal-1",
		MultisigID:       "multisig-1",
		TransactionIndex: 7,
		FromVault:        "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		ToAddress:        "9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde",
		Amount:           decimal.RequireFromString("10"),
		Fee:              decimal.RequireFromString("0.025"),
		Currency:         "SOL",
	}
}

func TestHTTPGateway_Submit(t *testing.T) {
	req := require.New(t)

	var gotIdempotencyKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdempotencyKey = r.Header.Get("X-Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tx_hash":"fe12","submitted_at":"2022-05-10T12:00:00Z"}`))
	}))
	defer server.Close()

	gw := http_gateway.NewHTTPGateway(server.URL, time.Second)
	receipt, err := gw.Submit(context.Background(), testOrder())
	req.NoError(err)
	req.Equal("fe12", receipt.TxHash)
	req.Equal("multisig-1/7", gotIdempotencyKey)
}

func TestHTTPGateway_DefinitiveRejection(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_code":"insufficient_funds","error_message":"vault balance too low"}`))
	}))
	defer server.Close()

	gw := http_gateway.NewHTTPGateway(server.URL, time.Second)
	_, err := gw.Submit(context.Background(), testOrder())
	req.Error(err)
	req.True(gateway.IsDefinitive(err))

	var gwErr *gateway.Error
	req.ErrorAs(err, &gwErr)
	req.Equal("insufficient_funds", gwErr.Code())
}

func TestHTTPGateway_AmbiguousOutcomes(t *testing.T) {
	t.Run("unstructured 5xx stays ambiguous", func(t *testing.T) {
		req := require.New(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream proxy error"))
		}))
		defer server.Close()

		gw := http_gateway.NewHTTPGateway(server.URL, time.Second)
		_, err := gw.Submit(context.Background(), testOrder())
		req.Error(err)
		req.False(gateway.IsDefinitive(err))
	})

	t.Run("transport timeout stays ambiguous", func(t *testing.T) {
		req := require.New(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer server.Close()

		gw := http_gateway.NewHTTPGateway(server.URL, 50*time.Millisecond)
		_, err := gw.Submit(context.Background(), testOrder())
		req.Error(err)
		req.False(gateway.IsDefinitive(err))
	})

	t.Run("200 without a hash stays ambiguous", func(t *testing.T) {
		req := require.New(t)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		gw := http_gateway.NewHTTPGateway(server.URL, time.Second)
		_, err := gw.Submit(context.Background(), testOrder())
		req.Error(err)
		req.False(gateway.IsDefinitive(err))
	})
}
