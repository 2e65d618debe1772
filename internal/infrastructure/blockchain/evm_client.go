package blockchain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	dialEVMClient    = ethclient.Dial
	getClientChainID = func(client *ethclient.Client, ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	}
)

// EVMClient provides EVM blockchain interaction
type EVMClient struct {
	client  *ethclient.Client
	chainID *big.Int
	rpcURL  string
	// testCallView/testSendTx allow deterministic unit tests without
	// network sockets.
	testCallView func(ctx context.Context, to string, data []byte) ([]byte, error)
	testSendTx   func(ctx context.Context, tx *types.Transaction) error
}

// NewEVMClient creates a new EVM client
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}

	chainID, err := getClientChainID(client, context.Background())
	if err != nil {
		return nil, err
	}

	return &EVMClient{
		client:  client,
		chainID: chainID,
		rpcURL:  rpcURL,
	}, nil
}

// NewEVMClientWithHooks creates an EVM client that uses injected call and
// send implementations. This is intended for unit tests where RPC sockets
// are unavailable.
func NewEVMClientWithHooks(
	chainID *big.Int,
	callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error),
	sendTxFn func(ctx context.Context, tx *types.Transaction) error,
) *EVMClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &EVMClient{
		chainID:      chainID,
		testCallView: callViewFn,
		testSendTx:   sendTxFn,
	}
}

// ChainID returns the chain ID
func (c *EVMClient) ChainID() *big.Int {
	return c.chainID
}

// GetBalance gets the native coin balance of an address
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	addr := common.HexToAddress(address)
	return c.client.BalanceAt(ctx, addr, nil)
}

// GetTokenBalance gets the ERC20 token balance of an address
func (c *EVMClient) GetTokenBalance(ctx context.Context, tokenAddress, ownerAddress string) (*big.Int, error) {
	owner := common.HexToAddress(ownerAddress)

	// balanceOf(address) selector: 0x70a08231
	data := append(common.Hex2Bytes("70a08231"), common.LeftPadBytes(owner.Bytes(), 32)...)

	result, err := c.CallView(ctx, tokenAddress, data)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(result), nil
}

// CallView executes a read-only contract call
func (c *EVMClient) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if c.testCallView != nil {
		return c.testCallView(ctx, to, data)
	}
	addr := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// PendingNonceAt returns the next nonce for an account
func (c *EVMClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	if c.client == nil {
		return 0, nil
	}
	return c.client.PendingNonceAt(ctx, address)
}

// SuggestGasPrice returns the suggested gas price
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if c.client == nil {
		return big.NewInt(1), nil
	}
	return c.client.SuggestGasPrice(ctx)
}

// SendTransaction broadcasts a signed transaction
func (c *EVMClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if c.testSendTx != nil {
		return c.testSendTx(ctx, tx)
	}
	return c.client.SendTransaction(ctx, tx)
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
