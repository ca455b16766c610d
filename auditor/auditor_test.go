package auditor

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depositlabs/deposit-auditor/config"
	"github.com/depositlabs/deposit-auditor/deposit"
	"github.com/depositlabs/deposit-auditor/util"
)

// mockNode serves a fixed set of deposit logs over a JSON-RPC endpoint,
// re-delivering boundary logs for adjacent ranges to exercise the
// duplicate-tolerant path.
type mockNode struct {
	logs []mockLog // index position in slice == deposit index
}

type mockLog struct {
	blockNumber uint64
	data        string
}

func newMockNode(depositBlocks []uint64) *mockNode {
	node := &mockNode{}
	for i, block := range depositBlocks {
		node.logs = append(node.logs, mockLog{
			blockNumber: block,
			data:        encodeTestEvent(uint64(i)),
		})
	}
	return node
}

func encodeTestEvent(index uint64) string {
	field := func(length int, fill byte) []byte {
		b := make([]byte, length)
		for i := range b {
			b[i] = fill
		}
		return b
	}
	le := func(v uint64) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, v)
		return b
	}
	word := func(v uint64) []byte {
		b := make([]byte, 32)
		binary.BigEndian.PutUint64(b[24:], v)
		return b
	}
	pad := func(b []byte) []byte {
		padded := (len(b) + 31) / 32 * 32
		return append(b, make([]byte, padded-len(b))...)
	}

	fields := [][]byte{
		field(deposit.PubkeyLength, byte(index)),
		field(deposit.CredentialsLength, byte(index)),
		le(32_000_000_000),
		field(deposit.SignatureLength, byte(index)),
		le(index),
	}
	buf := make([]byte, 0, deposit.EncodedLength)
	offset := uint64(len(fields) * 32)
	for _, f := range fields {
		buf = append(buf, word(offset)...)
		offset += 32 + uint64(len(pad(f)))
	}
	for _, f := range fields {
		buf = append(buf, word(uint64(len(f)))...)
		buf = append(buf, pad(f)...)
	}
	return "0x" + hex.EncodeToString(buf)
}

func (n *mockNode) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")

		switch req.Method {
		case "eth_chainId":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x1"}`)
		case "net_version":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"1"}`)
		case "eth_blockNumber":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x14"}`)
		case "eth_getLogs":
			n.serveLogs(t, w, req.Params)
		case "eth_call":
			n.serveCall(t, w, req.Params)
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}
	}
}

// serveLogs treats both range bounds as inclusive, the worst case for
// chunk overlap.
func (n *mockNode) serveLogs(t *testing.T, w http.ResponseWriter, params []json.RawMessage) {
	var filter struct {
		FromBlock string `json:"fromBlock"`
		ToBlock   string `json:"toBlock"`
	}
	require.Len(t, params, 1)
	require.NoError(t, json.Unmarshal(params[0], &filter))
	from, err := util.ParseHexUint64(filter.FromBlock)
	require.NoError(t, err)
	to, err := util.ParseHexUint64(filter.ToBlock)
	require.NoError(t, err)

	entries := make([]map[string]string, 0)
	for _, log := range n.logs {
		if log.blockNumber >= from && log.blockNumber <= to {
			entries = append(entries, map[string]string{
				"blockNumber": util.Uint64ToHex(log.blockNumber),
				"data":        log.data,
			})
		}
	}
	result, err := json.Marshal(entries)
	require.NoError(t, err)
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, result)
}

func (n *mockNode) serveCall(t *testing.T, w http.ResponseWriter, params []json.RawMessage) {
	var args struct {
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(params[0], &args))
	switch args.Data {
	case deposit.CountFnSelector:
		count := make([]byte, deposit.CountResponseBytes)
		count[31] = 0x20
		count[63] = 0x08
		binary.LittleEndian.PutUint64(count[64:72], uint64(len(n.logs)))
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%s"}`, hex.EncodeToString(count))
	case deposit.RootFnSelector:
		root := make([]byte, deposit.RootResponseBytes)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"0x%s"}`, hex.EncodeToString(root))
	default:
		t.Fatalf("unexpected eth_call data %s", args.Data)
	}
}

func testConfig(endpoint string, start, end, chunkSize uint64) *config.Config {
	return &config.Config{
		AuditConfig: config.AuditConfig{
			RPCAddrs:        []string{endpoint},
			DepositContract: deposit.MainnetContract,
			StartBlock:      start,
			EndBlock:        end,
			ChunkSize:       chunkSize,
		},
	}
}

func TestAuditorRunAcrossChunks(t *testing.T) {
	// deposits at blocks straddling the chunk boundary at 10; block 10
	// is served by both the [0,10) and [10,20) queries
	node := newMockNode([]uint64{1, 4, 10, 10, 15, 19})
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	a := NewAuditor(nil, testConfig(srv.URL, 0, 20, 10))
	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, uint64(6), a.validator.NextExpected())
	require.Equal(t, 6, a.validator.AcceptedCount())
}

func TestAuditorRunUsesChainHead(t *testing.T) {
	node := newMockNode([]uint64{0, 3})
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	// end block 0 resolves to the mock head 0x14
	a := NewAuditor(nil, testConfig(srv.URL, 0, 0, 7))
	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, uint64(2), a.validator.NextExpected())
}

func TestAuditorRunFailsOnGap(t *testing.T) {
	node := newMockNode([]uint64{1, 2, 3})
	// drop the middle deposit: indices become 0, 2
	node.logs = append(node.logs[:1], node.logs[2:]...)
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	a := NewAuditor(nil, testConfig(srv.URL, 0, 20, 10))
	err := a.Run(context.Background())
	var gap *GapError
	require.ErrorAs(t, err, &gap)
	require.Equal(t, uint64(1), gap.Expected)
	require.Equal(t, uint64(2), gap.Got)
}

func TestAuditorRunFailsOnCorruptedDuplicate(t *testing.T) {
	node := newMockNode([]uint64{1, 10, 11})
	// a later log re-delivers index 1 with a different signature
	node.logs = append(node.logs, mockLog{blockNumber: 12, data: corruptSignature(node.logs[1].data)})
	srv := httptest.NewServer(node.handler(t))
	defer srv.Close()

	a := NewAuditor(nil, testConfig(srv.URL, 0, 20, 10))
	err := a.Run(context.Background())
	var mismatch *DuplicateMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint64(1), mismatch.Index)
}

// corruptSignature flips one signature byte of an encoded event,
// leaving the index intact.
func corruptSignature(data string) string {
	raw, err := hex.DecodeString(data[2:])
	if err != nil {
		panic(err)
	}
	raw[deposit.SignatureOffset] ^= 0xff
	return "0x" + hex.EncodeToString(raw)
}
