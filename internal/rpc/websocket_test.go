package rpc

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goOracle/internal/core/engine"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/crypto/secp256k1"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFixture struct {
	http *httptest.Server
	ws   *WebSocketServer
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	services := newTestServices(t)
	server := NewServer(5*time.Second, services, nil)
	ws := NewWebSocketServer(5*time.Second, server.Registry(), nil)
	services.Engine.OnPriceUpdate(NewPublisher(ws).PublishPriceUpdate)

	mux := http.NewServeMux()
	mux.Handle("/", server)
	mux.Handle("/ws", ws)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ws.Close()
		ts.Close()
	})
	return &wsFixture{http: ts, ws: ws}
}

func (f *wsFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	return readJSON(t, conn)
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out map[string]interface{}
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestWebSocketMethodCall(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	resp := roundTrip(t, conn, map[string]interface{}{"id": 1, "command": "ping"})
	assert.Equal(t, "success", resp["status"])
	assert.EqualValues(t, 1, resp["id"])

	resp = roundTrip(t, conn, map[string]interface{}{"id": 2, "command": "nope"})
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "unknownCmd", resp["error"])

	resp = roundTrip(t, conn, map[string]interface{}{"id": 3})
	assert.Equal(t, "missingCommand", resp["error"])
}

func TestWebSocketSubscribeValidation(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	resp := roundTrip(t, conn, map[string]interface{}{"id": 1, "command": "subscribe", "streams": []string{"ledger"}})
	assert.Equal(t, "malformedStream", resp["error"])

	resp = roundTrip(t, conn, map[string]interface{}{"id": 2, "command": "subscribe"})
	assert.Equal(t, "invalidParams", resp["error"])

	resp = roundTrip(t, conn, map[string]interface{}{"id": 3, "command": "subscribe", "streams": []string{"prices"}})
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, 1, f.ws.GetSubscriberCount("prices"))

	resp = roundTrip(t, conn, map[string]interface{}{"id": 4, "command": "unsubscribe", "streams": []string{"prices"}})
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, 0, f.ws.GetSubscriberCount("prices"))
}

func TestWebSocketPriceStream(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	resp := roundTrip(t, conn, map[string]interface{}{"id": 1, "command": "subscribe", "streams": []string{"prices"}})
	require.Equal(t, "success", resp["status"])

	key, err := secp256k1.GenerateKey()
	require.NoError(t, err)
	resp = roundTrip(t, conn, map[string]interface{}{"id": 2, "command": "account_create", "public_key": key.PublicKey().String()})
	require.Equal(t, "success", resp["status"])
	admin, err := types.ParseAccountAddress(resp["result"].(map[string]interface{})["account"].(string))
	require.NoError(t, err)

	auth, err := engine.Sign(key, admin, engine.FirstSequence, "instantiate_oracle", engine.InstantiateOracleArgs(1)...)
	require.NoError(t, err)
	resp = roundTrip(t, conn, map[string]interface{}{
		"id": 3, "command": "instantiate_oracle", "num_of_admins": 1,
		"account": admin.String(), "sequence": auth.Sequence, "signature": hex.EncodeToString(auth.Signature),
	})
	require.Equal(t, "success", resp["status"])
	component, err := types.ParseComponentAddress(resp["result"].(map[string]interface{})["component"].(string))
	require.NoError(t, err)

	btc := types.NewResourceAddress([]byte("BTC"))
	usd := types.NewResourceAddress([]byte("USD"))
	price, err := types.ParseDecimal("1.5")
	require.NoError(t, err)
	auth, err = engine.Sign(key, admin, engine.FirstSequence+1, "update_price", engine.UpdatePriceArgs(component, btc, usd, price)...)
	require.NoError(t, err)

	// The event is queued before the response to the call that caused it.
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"id": 4, "command": "update_price",
		"account": admin.String(), "sequence": auth.Sequence, "signature": hex.EncodeToString(auth.Signature),
		"component": component.String(), "base": btc.String(), "quote": usd.String(), "price": "1.5",
	}))

	event := readJSON(t, conn)
	assert.Equal(t, "priceUpdate", event["type"])
	assert.Equal(t, component.String(), event["component"])
	assert.Equal(t, btc.String(), event["base"])
	assert.Equal(t, usd.String(), event["quote"])
	assert.Equal(t, "1.5", event["price"])
	assert.Equal(t, "0.666666666666666666", event["inverse_price"])

	resp = readJSON(t, conn)
	assert.Equal(t, "success", resp["status"])
	assert.EqualValues(t, 4, resp["id"])
}

func TestWebSocketCloseDropsConnections(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t)

	resp := roundTrip(t, conn, map[string]interface{}{"id": 1, "command": "subscribe", "streams": []string{"prices"}})
	require.Equal(t, "success", resp["status"])

	f.ws.Close()
	assert.Equal(t, 0, f.ws.GetSubscriberCount("prices"))
}
