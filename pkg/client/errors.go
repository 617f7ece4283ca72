package client

import "errors"

var (
	// ErrTransport wraps a transport-level failure (connection refused,
	// timeout, connection reset) that is worth retrying.
	ErrTransport = errors.New("client: transport error")

	// ErrProtocol wraps a JSON-RPC protocol-level failure (malformed JSON,
	// unknown method, invalid params, a server error response) that is not
	// worth retrying — the request itself is bad.
	ErrProtocol = errors.New("client: protocol error")

	// ErrAborted is returned by Execute when the backend responds with its
	// aborted reason: fatal to the current proof step, not to the process.
	ErrAborted = errors.New("client: backend aborted execution")

	// ErrImplicationUndecided wraps the backend's "implication check
	// failed" response (JSON-RPC error code -32003). Per §7's error table
	// this is a backend semantic error, not a protocol error: it is
	// recorded as "implication undecided" and the proof stays PENDING,
	// distinct from ErrProtocol's abort-the-proof disposition.
	ErrImplicationUndecided = errors.New("client: implication undecided")

	// ErrBackendTimeout is returned when a call's retries are exhausted
	// without a reply.
	ErrBackendTimeout = errors.New("client: backend call timed out")

	// ErrUnknownSort is returned by the translator when asked to inject a
	// term into a sort absent from the subsort lattice.
	ErrUnknownSort = errors.New("client: unknown sort in subsort lattice")
)
