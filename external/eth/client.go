package eth

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/depositlabs/deposit-auditor/deposit"
	"github.com/depositlabs/deposit-auditor/types"
	"github.com/depositlabs/deposit-auditor/util"
)

// Client is a minimal JSON-RPC 2.0 client for an execution-layer
// endpoint. Every call is an independent HTTP POST, no connection state
// is shared between requests and no request is ever retried.
type Client struct {
	hc       *http.Client
	endpoint string
}

// NewClient returns a new execution client. The timeout bounds each
// request individually and fires as an ordinary transport failure.
func NewClient(endpoint string, timeout time.Duration) *Client {
	transport := &http.Transport{
		DisableCompression:  true,
		MaxIdleConnsPerHost: 1000,
		MaxConnsPerHost:     1000,
		IdleConnTimeout:     90 * time.Second,
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	return &Client{hc: client, endpoint: endpoint}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// call performs one JSON-RPC round trip and returns the raw result
// field. A nil result with nil error means the envelope had no result.
func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("rpc %s: failed to marshal request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	defer r.Body.Close()

	respBz, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	if r.StatusCode != http.StatusOK {
		return nil, &ProtocolError{Method: method, Reason: fmt.Sprintf("received non-OK response status: %s", r.Status)}
	}
	if err := checkContentType(r.Header.Get("Content-Type")); err != nil {
		return nil, &ProtocolError{Method: method, Reason: err.Error()}
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBz, &resp); err != nil {
		return nil, &ProtocolError{Method: method, Reason: fmt.Sprintf("response body is not valid JSON: %s", err)}
	}
	if len(resp.Error) != 0 {
		return nil, &NodeError{Method: method, Payload: resp.Error}
	}
	return resp.Result, nil
}

// checkContentType accepts application/json, optionally with a UTF-8
// charset qualifier, and nothing else.
func checkContentType(contentType string) error {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("unsupported content type %q: %s", contentType, err)
	}
	if mediaType != "application/json" {
		return fmt.Errorf("unsupported content type %q", contentType)
	}
	if charset, ok := params["charset"]; ok && charset != "utf-8" && charset != "UTF-8" {
		return fmt.Errorf("unsupported content type charset %q", charset)
	}
	return nil
}

// callForString runs a call that must return a JSON string result.
func (c *Client) callForString(ctx context.Context, method string, params interface{}) (string, error) {
	result, err := c.call(ctx, method, params)
	if err != nil {
		return "", err
	}
	if len(result) == 0 {
		return "", fmt.Errorf("rpc %s: %w", method, ErrMissingResult)
	}
	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return "", &MalformedResultError{Method: method, Reason: "result is not a string"}
	}
	return s, nil
}

// BlockNumber returns the current head block number of the endpoint.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := c.callForString(ctx, "eth_blockNumber", []interface{}{})
	if err != nil {
		return 0, err
	}
	number, err := util.ParseHexUint64(result)
	if err != nil {
		return 0, &MalformedResultError{Method: "eth_blockNumber", Reason: err.Error()}
	}
	return number, nil
}

// ChainID returns the chain id of the endpoint.
func (c *Client) ChainID(ctx context.Context) (Network, error) {
	result, err := c.callForString(ctx, "eth_chainId", []interface{}{})
	if err != nil {
		return 0, err
	}
	id, err := util.ParseHexUint64(result)
	if err != nil {
		return 0, &MalformedResultError{Method: "eth_chainId", Reason: err.Error()}
	}
	return Network(id), nil
}

// NetworkVersion returns the network id of the endpoint. Unlike
// eth_chainId the result is a decimal string.
func (c *Client) NetworkVersion(ctx context.Context) (Network, error) {
	result, err := c.callForString(ctx, "net_version", []interface{}{})
	if err != nil {
		return 0, err
	}
	id, err := util.StringToUint64(result)
	if err != nil {
		return 0, &MalformedResultError{Method: "net_version", Reason: fmt.Sprintf("failed to parse network id %q: %s", result, err)}
	}
	return Network(id), nil
}

type logFilter struct {
	Address   string   `json:"address"`
	Topics    []string `json:"topics"`
	FromBlock string   `json:"fromBlock"`
	ToBlock   string   `json:"toBlock"`
}

// logEntry uses string pointers so that absent and mistyped fields are
// both caught before the hex parse.
type logEntry struct {
	BlockNumber *string `json:"blockNumber"`
	Data        *string `json:"data"`
}

// DepositLogs returns the raw DepositEvent logs emitted by the given
// contract in the given block range.
//
// The Ethereum JSON-RPC docs do not say whether the toBlock bound is
// inclusive, so adjacent chunks may see overlapping logs; callers must
// tolerate re-delivery of identical entries.
func (c *Client) DepositLogs(ctx context.Context, contract string, r types.BlockRange) ([]types.RawLog, error) {
	params := []interface{}{logFilter{
		Address:   contract,
		Topics:    []string{deposit.EventTopic},
		FromBlock: util.Uint64ToHex(r.Start),
		ToBlock:   util.Uint64ToHex(r.End),
	}}
	result, err := c.call(ctx, "eth_getLogs", params)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("rpc %s: %w", "eth_getLogs", ErrMissingResult)
	}

	var entries []logEntry
	if err := json.Unmarshal(result, &entries); err != nil {
		return nil, &MalformedResultError{Method: "eth_getLogs", Reason: fmt.Sprintf("result is not an array of logs: %s", err)}
	}

	logs := make([]types.RawLog, 0, len(entries))
	for i, entry := range entries {
		if entry.BlockNumber == nil {
			return nil, &MalformedResultError{Method: "eth_getLogs", Reason: fmt.Sprintf("log %d has no blockNumber field", i)}
		}
		if entry.Data == nil {
			return nil, &MalformedResultError{Method: "eth_getLogs", Reason: fmt.Sprintf("log %d has no data field", i)}
		}
		blockNumber, err := util.ParseHexUint64(*entry.BlockNumber)
		if err != nil {
			return nil, &MalformedResultError{Method: "eth_getLogs", Reason: fmt.Sprintf("log %d blockNumber: %s", i, err)}
		}
		logs = append(logs, types.RawLog{BlockNumber: blockNumber, Data: *entry.Data})
	}
	return logs, nil
}

type callArgs struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// DepositCount reads the contract's own deposit counter via eth_call.
// The return payload is an offset word, a length word, then the count
// as a little-endian u64 padded to 32 bytes.
func (c *Client) DepositCount(ctx context.Context, contract string) (uint64, error) {
	raw, err := c.contractCall(ctx, contract, deposit.CountFnSelector)
	if err != nil {
		return 0, err
	}
	if len(raw) != deposit.CountResponseBytes {
		return 0, &MalformedResultError{Method: "eth_call", Reason: fmt.Sprintf("deposit count response has %d bytes, expected %d", len(raw), deposit.CountResponseBytes)}
	}
	return binary.LittleEndian.Uint64(raw[64 : 64+8]), nil
}

// DepositRoot reads the contract's deposit tree root via eth_call.
func (c *Client) DepositRoot(ctx context.Context, contract string) ([]byte, error) {
	raw, err := c.contractCall(ctx, contract, deposit.RootFnSelector)
	if err != nil {
		return nil, err
	}
	if len(raw) != deposit.RootResponseBytes {
		return nil, &MalformedResultError{Method: "eth_call", Reason: fmt.Sprintf("deposit root response has %d bytes, expected %d", len(raw), deposit.RootResponseBytes)}
	}
	return raw, nil
}

func (c *Client) contractCall(ctx context.Context, contract, selector string) ([]byte, error) {
	params := []interface{}{callArgs{To: contract, Data: selector}, "latest"}
	result, err := c.callForString(ctx, "eth_call", params)
	if err != nil {
		return nil, err
	}
	stripped, err := util.StripHexPrefix(result)
	if err != nil {
		return nil, &MalformedResultError{Method: "eth_call", Reason: err.Error()}
	}
	raw, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, &MalformedResultError{Method: "eth_call", Reason: fmt.Sprintf("result is not valid hex: %s", err)}
	}
	return raw, nil
}
