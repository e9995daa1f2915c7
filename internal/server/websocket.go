package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// WebsocketPath is the endpoint ServeWebsocket listens on.
const WebsocketPath = "/mcp"

// maxMessageSize matches the stdio transport's line limit.
const maxMessageSize = 1024 * 1024

// ServeWebsocket serves MCP over websocket at addr until ctx is cancelled.
// Each text message carries one JSON-RPC request and gets at most one
// response message.
func (s *Server) ServeWebsocket(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(WebsocketPath, s.WebsocketHandler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Printf("listening on ws://%s%s", ln.Addr(), WebsocketPath)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// WebsocketHandler upgrades requests to websocket connections speaking MCP.
func (s *Server) WebsocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Printf("websocket accept: %v", err)
			return
		}
		defer c.CloseNow()

		c.SetReadLimit(maxMessageSize)
		s.serveConn(r.Context(), c)
	})
}

func (s *Server) serveConn(ctx context.Context, c *websocket.Conn) {
	s.debugf("websocket connection opened")
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				s.debugf("websocket read: %v", err)
			}
			return
		}
		if typ != websocket.MessageText {
			c.Close(websocket.StatusUnsupportedData, "expected text messages")
			return
		}

		resp := s.handleMessage(ctx, msg)
		if resp == nil {
			continue
		}
		b, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}
		if err := c.Write(ctx, websocket.MessageText, b); err != nil {
			s.debugf("websocket write: %v", err)
			return
		}
	}
}
