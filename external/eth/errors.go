package eth

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingResult is returned when the node's envelope carries neither
// an error nor a result but the caller requires one. Absence of result
// is a distinct outcome from a node-reported error.
var ErrMissingResult = errors.New("no result field in rpc response")

// TransportError wraps a failure to complete the HTTP round trip, which
// includes connection refusal and the per-request timeout.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc %s: request failed: %s", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indicates an HTTP response that cannot be treated as a
// JSON-RPC envelope: bad status, unsupported content type, or a body
// that is not valid JSON.
type ProtocolError struct {
	Method string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("rpc %s: %s", e.Method, e.Reason)
}

// NodeError carries the error payload reported by the remote node.
type NodeError struct {
	Method  string
	Payload json.RawMessage
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("rpc %s: node returned error: %s", e.Method, string(e.Payload))
}

// MalformedResultError indicates a result field whose shape does not
// match what the method is documented to return.
type MalformedResultError struct {
	Method string
	Reason string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("rpc %s: malformed result: %s", e.Method, e.Reason)
}
