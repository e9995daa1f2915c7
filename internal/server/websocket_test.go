package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func dialTestServer(t *testing.T, s *Server) (*websocket.Conn, context.Context) {
	t.Helper()

	ts := httptest.NewServer(s.WebsocketHandler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { c.CloseNow() })
	return c, ctx
}

func roundTrip(t *testing.T, ctx context.Context, c *websocket.Conn, msg string) MCPResponse {
	t.Helper()

	if err := c.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if typ != websocket.MessageText {
		t.Errorf("message type: got %v, want text", typ)
	}

	var resp MCPResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("invalid response %q: %v", data, err)
	}
	return resp
}

func TestWebsocket_Session(t *testing.T) {
	c, ctx := dialTestServer(t, newTestServer())

	resp := roundTrip(t, ctx, c, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if resp.Error != nil || resp.ID != float64(1) {
		t.Errorf("initialize: got %+v", resp)
	}

	// Notifications get no reply, so the next message read answers the ping.
	if err := c.Write(ctx, websocket.MessageText, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	resp = roundTrip(t, ctx, c, `{"jsonrpc":"2.0","id":"p","method":"ping"}`)
	if resp.Error != nil || resp.ID != "p" {
		t.Errorf("ping: got %+v", resp)
	}

	resp = roundTrip(t, ctx, c, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"fractal_iterate_point","arguments":{"point":"1+i","max_iterations":1000}}}`)
	if resp.Error != nil {
		t.Fatalf("fractal_iterate_point failed: %+v", resp.Error)
	}
	content := resp.Result.(map[string]interface{})["content"].([]interface{})
	text := content[0].(map[string]interface{})["text"].(string)

	var result iteratePointResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if !result.Escaped || result.Iterations != 2 {
		t.Errorf("1+i: got escaped=%v iterations=%d, want escaped after 2", result.Escaped, result.Iterations)
	}

	resp = roundTrip(t, ctx, c, `{"jsonrpc":`)
	if resp.Error == nil || resp.Error.Code != -32700 {
		t.Errorf("malformed message: got %+v, want parse error", resp.Error)
	}
}

func TestWebsocket_RejectsBinary(t *testing.T) {
	c, ctx := dialTestServer(t, newTestServer())

	if err := c.Write(ctx, websocket.MessageBinary, []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	_, _, err := c.Read(ctx)
	if status := websocket.CloseStatus(err); status != websocket.StatusUnsupportedData {
		t.Errorf("close status: got %v (%v), want StatusUnsupportedData", status, err)
	}
}

func TestServeWebsocket_Shutdown(t *testing.T) {
	// Reserve a free port, then hand it to ServeWebsocket.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- newTestServer().ServeWebsocket(ctx, addr)
	}()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()

	var c *websocket.Conn
	for {
		c, _, err = websocket.Dial(dialCtx, "ws://"+addr+WebsocketPath, nil)
		if err == nil {
			break
		}
		if dialCtx.Err() != nil {
			t.Fatalf("Dial failed: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	resp := roundTrip(t, dialCtx, c, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if resp.Error != nil {
		t.Errorf("ping: got %+v", resp.Error)
	}
	c.Close(websocket.StatusNormalClosure, "")

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ServeWebsocket returned %v, want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ServeWebsocket did not return after cancel")
	}
}
