package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
)

const (
	// transfer(address,uint256)
	erc20TransferSelector = "a9059cbb"

	nativeTransferGas = 21000
	erc20TransferGas  = 90000
)

// EVMLedger implements ledger.FundsLedger against an EVM chain. It can
// only sign outbound transfers for the gateway's own account; transfers
// from any other account are custody moves enforced by the on-chain
// escrow contract, so the ledger verifies the source balance and leaves
// the actual movement to the chain.
type EVMLedger struct {
	client      *EVMClient
	key         *ecdsa.PrivateKey
	gatewayAddr common.Address
}

// NewEVMLedger creates a ledger backed by the given client and signing key
func NewEVMLedger(client *EVMClient, privateKeyHex string) (*EVMLedger, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid gateway private key: %w", err)
	}
	return &EVMLedger{
		client:      client,
		key:         key,
		gatewayAddr: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// GatewayAddress returns the address derived from the signing key
func (l *EVMLedger) GatewayAddress() string {
	return l.gatewayAddr.Hex()
}

// BalanceOf returns the balance of account in the given asset
func (l *EVMLedger) BalanceOf(ctx context.Context, asset, account string) (*big.Int, error) {
	if asset == entities.NativeAsset {
		return l.client.GetBalance(ctx, account)
	}
	return l.client.GetTokenBalance(ctx, asset, account)
}

// Transfer moves amount of asset from one account to another
func (l *EVMLedger) Transfer(ctx context.Context, asset, from, to string, amount *big.Int) error {
	if !strings.EqualFold(from, l.gatewayAddr.Hex()) {
		return l.verifyExternalFunds(ctx, asset, from, amount)
	}

	nonce, err := l.client.PendingNonceAt(ctx, l.gatewayAddr)
	if err != nil {
		return fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := l.client.SuggestGasPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetch gas price: %w", err)
	}

	var tx *types.Transaction
	if asset == entities.NativeAsset {
		dest := common.HexToAddress(to)
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &dest,
			Value:    amount,
			Gas:      nativeTransferGas,
			GasPrice: gasPrice,
		})
	} else {
		token := common.HexToAddress(asset)
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &token,
			Value:    big.NewInt(0),
			Gas:      erc20TransferGas,
			GasPrice: gasPrice,
			Data:     PackERC20Transfer(common.HexToAddress(to), amount),
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(l.client.ChainID()), l.key)
	if err != nil {
		return fmt.Errorf("sign transfer: %w", err)
	}
	return l.client.SendTransaction(ctx, signed)
}

// verifyExternalFunds checks that the source account can cover the
// amount. Custody of third-party funds lives in the escrow contract;
// the gateway only validates the precondition.
func (l *EVMLedger) verifyExternalFunds(ctx context.Context, asset, from string, amount *big.Int) error {
	balance, err := l.BalanceOf(ctx, asset, from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return domainerrors.ErrInsufficientFee
	}
	return nil
}

// PackERC20Transfer builds transfer(address,uint256) calldata
func PackERC20Transfer(to common.Address, amount *big.Int) []byte {
	data := common.Hex2Bytes(erc20TransferSelector)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}
