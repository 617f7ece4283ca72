package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// rpcRequest is a JSON-RPC 2.0 request, per §6's external interface table.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// rpcResponse is a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("client: backend error %d: %s", e.Code, e.Message)
}

// implicationUndecidedCode is the backend's "implication check failed" code
// for the implies method, per §7's error-kind table: a backend semantic
// error, not a protocol error, so it must not abort the proof.
const implicationUndecidedCode = -32003

// Transport sends one JSON-RPC request and returns its matching response.
// Every request carries a fresh uuid as its ID and a reply must echo it,
// so a Transport implementation is free to pipeline requests over one
// connection.
type Transport interface {
	Call(ctx context.Context, method string, params any, result any) error
	Close() error
}

// TCPTransport is a Transport over a newline-delimited JSON-RPC connection,
// the shape §6 describes ("JSON-RPC 2.0 over TCP or HTTP"). Each call
// writes one line and reads one line back; it does not pipeline multiple
// requests concurrently over a single connection — one in-flight per
// worker, matching §5's "one connection per worker" resource model.
type TCPTransport struct {
	conn   net.Conn
	reader *bufio.Reader
}

// DialTCP opens a TCPTransport to addr.
func DialTCP(ctx context.Context, addr string) (*TCPTransport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w: %w", addr, ErrTransport, err)
	}
	return &TCPTransport{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Call sends method(params) and decodes the result into result.
func (t *TCPTransport) Call(ctx context.Context, method string, params any, result any) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetDeadline(deadline)
	} else {
		_ = t.conn.SetDeadline(time.Time{})
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("client: marshal params for %s: %w", method, err)
	}
	req := rpcRequest{JSONRPC: "2.0", ID: uuid.NewString(), Method: method, Params: paramsJSON}
	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("client: marshal request for %s: %w", method, err)
	}
	if _, err := t.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("client: write %s: %w: %w", method, ErrTransport, err)
	}

	respLine, err := t.reader.ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("client: read reply to %s: %w: %w", method, ErrTransport, err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(respLine, &resp); err != nil {
		return fmt.Errorf("client: unmarshal reply to %s: %w: %w", method, ErrProtocol, err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("client: reply to %s has id %q, want %q: %w", method, resp.ID, req.ID, ErrProtocol)
	}
	if resp.Error != nil {
		if method == "implies" && resp.Error.Code == implicationUndecidedCode {
			return fmt.Errorf("client: %s: %w: %w", method, ErrImplicationUndecided, resp.Error)
		}
		return fmt.Errorf("client: %s: %w: %w", method, ErrProtocol, resp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("client: unmarshal result of %s: %w: %w", method, ErrProtocol, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (t *TCPTransport) Close() error { return t.conn.Close() }
