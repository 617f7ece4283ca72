package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"
)

// fakeServerResponder returns the raw JSON-RPC response line to send back
// for a given request, letting each test script the server's behavior.
type fakeServerResponder func(req rpcRequest) string

func startFakeServer(t *testing.T, respond fakeServerResponder) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				return
			}
			var req rpcRequest
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			resp := respond(req)
			if _, err := conn.Write([]byte(resp + "\n")); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestTCPTransportCallRoundTrip(t *testing.T) {
	addr := startFakeServer(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"` + req.ID + `","result":{"echo":"hi"}}`
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	transport, err := DialTCP(ctx, addr)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer transport.Close()

	var result struct {
		Echo string `json:"echo"`
	}
	if err := transport.Call(ctx, "ping", map[string]string{}, &result); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.Echo != "hi" {
		t.Fatalf("expected echo %q, got %q", "hi", result.Echo)
	}
}

func TestTCPTransportCallSurfacesProtocolError(t *testing.T) {
	addr := startFakeServer(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"` + req.ID + `","error":{"code":-32601,"message":"method not found"}}`
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	transport, err := DialTCP(ctx, addr)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer transport.Close()

	var result map[string]any
	err = transport.Call(ctx, "unknown", map[string]string{}, &result)
	if err == nil {
		t.Fatalf("expected a protocol error")
	}
}

func TestTCPTransportCallClassifiesImplicationUndecided(t *testing.T) {
	addr := startFakeServer(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"` + req.ID + `","error":{"code":-32003,"message":"implication check failed"}}`
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	transport, err := DialTCP(ctx, addr)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer transport.Close()

	var result map[string]any
	err = transport.Call(ctx, "implies", map[string]string{}, &result)
	if !errors.Is(err, ErrImplicationUndecided) {
		t.Fatalf("expected ErrImplicationUndecided, got %v", err)
	}
	if errors.Is(err, ErrProtocol) {
		t.Fatalf("code -32003 on implies must not be classified as a protocol error")
	}
}

func TestTCPTransportCallKeepsOtherMethodsAsProtocolErrors(t *testing.T) {
	addr := startFakeServer(t, func(req rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"` + req.ID + `","error":{"code":-32003,"message":"implication check failed"}}`
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	transport, err := DialTCP(ctx, addr)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer transport.Close()

	var result map[string]any
	err = transport.Call(ctx, "execute", map[string]string{}, &result)
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol when code -32003 arrives on a method other than implies, got %v", err)
	}
}

func TestDialTCPFailsOnUnreachableAddress(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := DialTCP(ctx, "127.0.0.1:1"); err == nil {
		t.Fatalf("expected an error dialing an unreachable address")
	}
}
