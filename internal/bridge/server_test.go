package bridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"tfsettings/internal/bridge"
	"tfsettings/internal/domain"
	"tfsettings/internal/testutil"
)

func startHTTPBridge(t *testing.T, limit float64, burst int) *httptest.Server {
	t.Helper()
	dispatcher, _ := newDispatcher(t)
	srv := bridge.NewServer(dispatcher, "127.0.0.1:0", limit, burst, testutil.Logger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postInvocation(t *testing.T, url string, inv domain.Invocation) (int, domain.Result) {
	t.Helper()
	body, err := json.Marshal(inv)
	require.NoError(t, err)

	resp, err := http.Post(url+"/invoke", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result domain.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func TestServer_InvokeOverHTTP(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)

	status, result := postInvocation(t, ts.URL, domain.Invocation{
		ID:      "1",
		Command: domain.CommandWriteFile,
		Args:    map[string]string{"path": "/tmp/a.txt", "contents": "hello"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, result.OK, result.Error)

	status, result = postInvocation(t, ts.URL, domain.Invocation{
		ID:      "2",
		Command: domain.CommandReadFile,
		Args:    map[string]string{"path": "/tmp/a.txt"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.Result{ID: "2", OK: true, Value: "hello"}, result)
}

func TestServer_ErrorResultIsStillOK(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)

	status, result := postInvocation(t, ts.URL, domain.Invocation{
		ID:      "3",
		Command: domain.CommandReadFile,
		Args:    map[string]string{"path": "/tmp/does-not-exist.txt"},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "does not exist")
}

func TestServer_MalformedJSON(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)

	resp, err := http.Post(ts.URL+"/invoke", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)

	resp, err := http.Get(ts.URL + "/invoke")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestServer_RateLimited(t *testing.T) {
	ts := startHTTPBridge(t, 0.001, 1)
	inv := domain.Invocation{ID: "rl", Command: domain.CommandReadConfig}

	status, _ := postInvocation(t, ts.URL, inv)
	assert.Equal(t, http.StatusOK, status)

	status, result := postInvocation(t, ts.URL, inv)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "rl", result.ID)
	assert.False(t, result.OK)
}

func TestServer_Health(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_InvokeOverWebSocket(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(ctx, conn, domain.Invocation{
		ID:      "ws-1",
		Command: domain.CommandWriteFile,
		Args:    map[string]string{"path": "/tmp/ws.txt", "contents": "over the socket"},
	}))
	var written domain.Result
	require.NoError(t, wsjson.Read(ctx, conn, &written))
	assert.Equal(t, domain.Result{ID: "ws-1", OK: true}, written)

	require.NoError(t, wsjson.Write(ctx, conn, domain.Invocation{
		ID:      "ws-2",
		Command: domain.CommandReadFile,
		Args:    map[string]string{"path": "/tmp/ws.txt"},
	}))
	var read domain.Result
	require.NoError(t, wsjson.Read(ctx, conn, &read))
	assert.Equal(t, domain.Result{ID: "ws-2", OK: true, Value: "over the socket"}, read)

	require.NoError(t, wsjson.Write(ctx, conn, domain.Invocation{ID: "ws-3", Command: "format_disk"}))
	var rejected domain.Result
	require.NoError(t, wsjson.Read(ctx, conn, &rejected))
	assert.Equal(t, "ws-3", rejected.ID)
	assert.False(t, rejected.OK)
	assert.Equal(t, "unknown command 'format_disk'", rejected.Error)
}

func TestServer_WebSocketRejectsForeignOrigin(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://settings.example.com"}},
	})
	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "")
	}

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_WebSocketAcceptsLocalOrigin(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://localhost:5173"}},
	})
	require.NoError(t, err)
	conn.Close(websocket.StatusNormalClosure, "")
}

func TestServer_WebSocketLargeContents(t *testing.T) {
	ts := startHTTPBridge(t, 100, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")
	conn.SetReadLimit(1 << 20)

	contents := strings.Repeat("x", 256<<10)
	require.NoError(t, wsjson.Write(ctx, conn, domain.Invocation{
		ID:      "big",
		Command: domain.CommandWriteFile,
		Args:    map[string]string{"path": "/tmp/big.txt", "contents": contents},
	}))
	var result domain.Result
	require.NoError(t, wsjson.Read(ctx, conn, &result))
	assert.True(t, result.OK, result.Error)
}

func TestServer_StartAndStop(t *testing.T) {
	dispatcher, _ := newDispatcher(t)
	srv := bridge.NewServer(dispatcher, "127.0.0.1:0", 100, 100, testutil.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not start")
	}

	resp, err := http.Get("http://" + srv.BoundAddr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}
}
