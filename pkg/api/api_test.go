package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rc5-go/pkg/config"
)

const zeroKey = "00000000000000000000000000000000"

func post(t *testing.T, a *API, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func testAPI(mutate func(*config.Config)) *API {
	cfg := config.DefaultConfig()
	cfg.RateLimit = 0
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg)
}

func TestHealthz(t *testing.T) {
	a := testAPI(nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestEncodeDecode(t *testing.T) {
	a := testAPI(nil)

	resp := decodeResponse(t, post(t, a, "/v1/encode",
		`{"key":"`+zeroKey+`","data":"0000000000000000"}`))
	assert.Equal(t, "21a5dbee154b8f6d", resp.Data)
	assert.Equal(t, 32, resp.WordSize)
	assert.Equal(t, 12, resp.Rounds)

	resp = decodeResponse(t, post(t, a, "/v1/decode",
		`{"key":"915f4619be41b2516355a50110a9ce91","data":"f7c013ac5b2b8952"}`))
	assert.Equal(t, "21a5dbee154b8f6d", resp.Data)
}

func TestRequestParameters(t *testing.T) {
	a := testAPI(nil)
	body := `{"key":"` + zeroKey + `","data":"AAAAAAAAAAAAAAAAAAAAAA==","word_size":64,"rounds":20,"encoding":"base64"}`
	enc := decodeResponse(t, post(t, a, "/v1/encode", body))
	assert.Equal(t, 64, enc.WordSize)
	assert.Equal(t, 20, enc.Rounds)

	dec := decodeResponse(t, post(t, a, "/v1/decode",
		`{"key":"`+zeroKey+`","data":"`+enc.Data+`","word_size":64,"rounds":20,"encoding":"base64"}`))
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAA==", dec.Data)
}

func TestErrors(t *testing.T) {
	a := testAPI(nil)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"key":`, http.StatusBadRequest},
		{"bad key hex", `{"key":"xyz","data":"00"}`, http.StatusBadRequest},
		{"short key", `{"key":"0011","data":"0000000000000000"}`, http.StatusBadRequest},
		{"bad word size", `{"key":"` + zeroKey + `","data":"00","word_size":24}`, http.StatusBadRequest},
		{"bad rounds", `{"key":"` + zeroKey + `","data":"00","rounds":300}`, http.StatusBadRequest},
		{"bad encoding", `{"key":"` + zeroKey + `","data":"00","encoding":"morse"}`, http.StatusBadRequest},
		{"bad data", `{"key":"` + zeroKey + `","data":"zz"}`, http.StatusBadRequest},
		{"wrong size", `{"key":"` + zeroKey + `","data":"000000000000"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, a, "/v1/encode", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), zeroKey)
		})
	}
}

func TestAnyKeySizeWhenPolicyDisabled(t *testing.T) {
	a := testAPI(func(c *config.Config) { c.KeySize = 0 })
	resp := decodeResponse(t, post(t, a, "/v1/encode", `{"key":"","data":"0000000000000000"}`))
	assert.Len(t, resp.Data, 16)
}

func TestRateLimit(t *testing.T) {
	a := testAPI(func(c *config.Config) {
		c.RateLimit = 0.001
		c.RateBurst = 2
	})
	body := `{"key":"` + zeroKey + `","data":"0000000000000000"}`
	assert.Equal(t, http.StatusOK, post(t, a, "/v1/encode", body).Code)
	assert.Equal(t, http.StatusOK, post(t, a, "/v1/encode", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(t, a, "/v1/encode", body).Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	a := testAPI(func(c *config.Config) {
		c.ListenAddr = "127.0.0.1:0"
		c.ShutdownTimeout = time.Second
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Echo.ListenerAddr() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
