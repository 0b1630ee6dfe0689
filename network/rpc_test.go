package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns an RPCClient wired to a JSON-RPC test server whose
// responses are produced by handle(method, params).
func newTestServer(t *testing.T, handle func(method string, params []interface{}) (interface{}, *rpcError)) *RPCClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handle(req.Method, req.Params)
		resp := map[string]interface{}{"id": req.ID, "result": result, "error": rpcErr}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return NewRPCClient(RPCConfig{URL: server.URL})
}

func makeOwnerHex(seed byte) string {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = seed
	}
	return hex.EncodeToString(addr)
}

func TestRPCClient_TotalItems(t *testing.T) {
	client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		assert.Equal(t, "gettotalitems", method)
		assert.Empty(t, params)
		return uint64(4200), nil
	})

	total, err := client.TotalItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4200), total)
}

func TestRPCClient_OwnerOf(t *testing.T) {
	client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		assert.Equal(t, "getitemowner", method)
		require.Len(t, params, 1)
		assert.EqualValues(t, 7, params[0])
		return makeOwnerHex(0xAA), nil
	})

	owner, err := client.OwnerOf(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), owner[0])
	assert.Equal(t, byte(0xAA), owner[19])
}

func TestRPCClient_OwnerOf_NotFound(t *testing.T) {
	client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return nil, &rpcError{Code: rpcCodeNotFound, Message: "no such item"}
	})

	_, err := client.OwnerOf(context.Background(), 404)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRPCClient_MissingResultTolerated(t *testing.T) {
	// A success response may omit the result field entirely; the call
	// succeeds and the target is left at its zero value.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := map[string]interface{}{"id": req.ID}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	client := NewRPCClient(RPCConfig{URL: server.URL})

	var out string
	err := client.Call(context.Background(), "ping", nil, &out)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRPCClient_OwnerOf_MalformedAddress(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not hex", "zzzz"},
		{"wrong length", "aabbcc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
				return tt.value, nil
			})
			_, err := client.OwnerOf(context.Background(), 1)
			assert.ErrorIs(t, err, ErrInvalidOwner)
		})
	}
}

func TestRPCClient_BroadcastTx(t *testing.T) {
	client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		assert.Equal(t, "sendrawtransaction", method)
		return "deadbeef", nil
	})

	txid, err := client.BroadcastTx(context.Background(), "0100")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", txid)
}

func TestRPCClient_RPCError(t *testing.T) {
	client := newTestServer(t, func(method string, params []interface{}) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	_, err := client.TotalItems(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
	assert.NotErrorIs(t, err, ErrItemNotFound)
}

func TestRPCClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.TotalItems(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestRPCClient_IDMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{"id": 9999, "result": uint64(1)}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL})
	_, err := client.TotalItems(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRPCClient_ConnectionRefused(t *testing.T) {
	client := NewRPCClient(RPCConfig{URL: "http://127.0.0.1:1"})
	_, err := client.TotalItems(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestRPCClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "secret", pass)

		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]interface{}{"id": req.ID, "result": uint64(1)}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRPCClient(RPCConfig{URL: server.URL, User: "alice", Password: "secret"})
	_, err := client.TotalItems(context.Background())
	assert.NoError(t, err)
}
