package clients

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Params json.RawMessage
}

func newFakeService(t *testing.T, results map[string]interface{}) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		var params json.RawMessage
		if len(req.Params) > 0 {
			params = req.Params[0]
		}
		calls = append(calls, recordedCall{Method: req.Method, Params: params})

		result, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"jsonrpc": jsonRPCVersion,
				"id":      req.ID,
				"error":   map[string]interface{}{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": jsonRPCVersion,
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestOrgRegistryCode(t *testing.T) {
	ts, calls := newFakeService(t, map[string]interface{}{
		"org_code": map[string]string{"code": "ACME"},
	})
	registry := NewOrgRegistry(New(ts.URL))

	code, err := registry.Code("acme")
	require.NoError(t, err)
	require.Equal(t, "ACME", code)
	require.Len(t, *calls, 1)
	require.JSONEq(t, `{"org":"acme"}`, string((*calls)[0].Params))
}

func TestCallSurfacesRPCError(t *testing.T) {
	ts, _ := newFakeService(t, nil)
	registry := NewOrgRegistry(New(ts.URL))

	_, err := registry.Code("acme")
	require.ErrorContains(t, err, "method not found")
}

func TestTransferSendEncodesAmount(t *testing.T) {
	ts, calls := newFakeService(t, map[string]interface{}{
		"transfer_send": true,
	})
	transfers := NewTransferService(New(ts.URL))

	require.NoError(t, transfers.Transfer("bank", "bounties", "carol", "GOLD", big.NewInt(488), "Distribution from bounty"))
	require.Len(t, *calls, 1)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal((*calls)[0].Params, &decoded))
	require.Equal(t, "488", decoded["amount"])
	require.Equal(t, "carol", decoded["to"])
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": jsonRPCVersion, "id": req.ID, "result": true,
		})
	}))
	t.Cleanup(ts.Close)

	client := New(ts.URL, WithAuthToken("token"))
	require.NoError(t, client.Call("transfer_send", map[string]string{}, nil))
	require.Equal(t, "Bearer token", gotAuth)
}
