package ledger

import (
	"context"
	"math/big"
)

// FundsLedger is the external fungible-asset collaborator: it holds the
// fee token, the escrowed crypto and every participant balance. Assets
// are token contract addresses, with entities.NativeAsset standing in
// for the chain's native coin.
type FundsLedger interface {
	BalanceOf(ctx context.Context, asset, account string) (*big.Int, error)
	Transfer(ctx context.Context, asset, from, to string, amount *big.Int) error
}
