package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testVault    = "test-vault-fast"
	testDecimals = uint8(9)
)

var (
	testProgramID = solana.MustPublicKeyFromBase58("BEgy2zPNRLFFmo3LdpQrW8qyYYjw6NhdF1RwUCLrPh7T")
	testMint      = solana.MustPublicKeyFromBase58("EV9BocFxbKU1HtCwCH4jVmizHKNeRJ4USTy6zzgBBa6z")
	testOwner     = solana.MustPublicKeyFromBase58("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU")
	testBlockhash = solana.MustHashFromBase58("5NzX7jrPWeTkGsDnVnszdEa7T3Yyr3nSgyc78z3CwjWQ")
)

// fakeRPC is an in-memory JSON-RPC backend. Handlers return values that are
// round-tripped through encoding/json into the client's result type.
type fakeRPC struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	handlers map[string]func(params []interface{}) (any, error)
	calls    map[string]int
}

func newFakeRPC() *fakeRPC {
	f := &fakeRPC{
		accounts: make(map[solana.PublicKey][]byte),
		handlers: make(map[string]func(params []interface{}) (any, error)),
		calls:    make(map[string]int),
	}
	f.handlers["getAccountInfo"] = f.getAccountInfo
	f.handlers["getLatestBlockhash"] = func([]interface{}) (any, error) {
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"blockhash":            testBlockhash.String(),
				"lastValidBlockHeight": 100,
			},
		}, nil
	}
	f.handlers["getHealth"] = func([]interface{}) (any, error) { return "ok", nil }
	return f
}

func (f *fakeRPC) setAccount(addr solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[addr] = data
}

func (f *fakeRPC) handle(method string, h func(params []interface{}) (any, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeRPC) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRPC) getAccountInfo(params []interface{}) (any, error) {
	addr, ok := params[0].(solana.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected account param %T", params[0])
	}
	f.mu.Lock()
	data, found := f.accounts[addr]
	f.mu.Unlock()

	if !found {
		return map[string]any{"context": map[string]any{"slot": 1}, "value": nil}, nil
	}
	return map[string]any{
		"context": map[string]any{"slot": 1},
		"value": map[string]any{
			"lamports":   1_000_000,
			"owner":      testProgramID.String(),
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"rentEpoch":  0,
			"space":      len(data),
		},
	}, nil
}

func (f *fakeRPC) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls[method]++
	h := f.handlers[method]
	f.mu.Unlock()
	if h == nil {
		return fmt.Errorf("unexpected rpc method %s", method)
	}

	res, err := h(params)
	if err != nil {
		return err
	}
	body, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (f *fakeRPC) CallWithCallback(context.Context, string, []interface{}, func(*http.Request, *http.Response) error) error {
	return errors.New("not implemented")
}

func (f *fakeRPC) CallBatch(context.Context, jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, errors.New("not implemented")
}

func newTestClient(f *fakeRPC) *Client {
	return newClient(rpc.NewWithCustomRPCClient(f), rpc.CommitmentConfirmed, nil, zerolog.Nop())
}

func testAddresses() Addresses {
	return NewAddresses(testProgramID, testMint)
}

func encodeAccount(t *testing.T, name string, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(bin.SighashAccount(name))
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(v))
	return buf.Bytes()
}

// tokenAccountData lays out a token account with amount at offset 64.
func tokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, 165)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	for i := 0; i < 8; i++ {
		data[64+i] = byte(amount >> (8 * i))
	}
	return data
}
