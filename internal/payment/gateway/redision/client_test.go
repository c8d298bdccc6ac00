package redision

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smscentra/portal/internal/config"
	"github.com/smscentra/portal/internal/payment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{}
	cfg.Redision.BaseURL = srv.URL
	cfg.Redision.AppKey = "key-1"
	cfg.Redision.AppID = "app-1"
	cfg.Redision.AppSecret = "secret-1"
	cfg.Redision.NotifyURL = "https://portal.example.com/api/payment/notify"
	return New(cfg)
}

func TestSignIsURLSafe(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	body := []byte(`{"reference_id":"PAY_202603_1","amount":47500}`)
	sig := client.Sign(body)

	assert.NotContains(t, sig, "+")
	assert.NotContains(t, sig, "/")

	// Undo the url-safe substitution and verify the MAC.
	std := strings.ReplaceAll(strings.ReplaceAll(sig, "-", "+"), "_", "/")
	raw, err := base64.StdEncoding.DecodeString(std)
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("secret-1"))
	mac.Write(body)
	assert.True(t, hmac.Equal(mac.Sum(nil), raw))
}

func TestCreateTransactionSignsBody(t *testing.T) {
	var gotSig string
	var gotBody []byte

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transactions", func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("signature")
		assert.Equal(t, "key-1", r.Header.Get("appkey"))
		assert.Equal(t, "app-1", r.Header.Get("appid"))
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(CreateResponse{TransactionID: "rd_9", CheckoutURL: "https://pay/rd_9"})
	})
	client := newTestClient(t, mux)

	resp, err := client.CreateTransaction(context.Background(), CreateRequest{
		ReferenceID: "PAY_202603_1",
		Amount:      47500,
		Currency:    "IDR",
	})
	require.NoError(t, err)
	assert.Equal(t, "rd_9", resp.TransactionID)
	assert.Equal(t, client.Sign(gotBody), gotSig, "signature must cover the body exactly as sent")

	var sent CreateRequest
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Equal(t, "https://portal.example.com/api/payment/notify", sent.NotifyURL)
}

func TestCreateTransactionSurfacesGatewayMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/transactions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "amount below minimum"})
	})
	client := newTestClient(t, mux)

	_, err := client.CreateTransaction(context.Background(), CreateRequest{ReferenceID: "PAY_X", Amount: 1})
	require.Error(t, err)
	assert.True(t, domain.IsGatewayError(err))
	assert.Contains(t, err.Error(), "amount below minimum")

	var ge *domain.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusUnprocessableEntity, ge.StatusCode)
}

func TestBinLookupPassthrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/bin/411111", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"bank": "BCA", "scheme": "visa", "type": "credit"})
	})
	client := newTestClient(t, mux)

	out, err := client.BinLookup(context.Background(), "411111")
	require.NoError(t, err)
	assert.Equal(t, "BCA", out["bank"])
	assert.Equal(t, "visa", out["scheme"])
}
