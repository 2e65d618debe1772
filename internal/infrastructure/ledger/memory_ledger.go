package ledger

import (
	"context"
	"math/big"
	"sync"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
)

// MemoryLedger is an in-process FundsLedger used in simulation mode and
// in tests. Balances are tracked per (asset, account); transfers debit
// and credit atomically under one lock.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]map[string]*big.Int
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]map[string]*big.Int),
	}
}

// Mint credits an account out of thin air. Simulation seeding only.
func (l *MemoryLedger) Mint(asset, account string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(asset, account, amount)
}

// BalanceOf returns the account balance in the given asset
func (l *MemoryLedger) BalanceOf(_ context.Context, asset, account string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if accounts, ok := l.balances[asset]; ok {
		if bal, ok := accounts[account]; ok {
			return new(big.Int).Set(bal), nil
		}
	}
	return new(big.Int), nil
}

// Transfer moves amount of asset between accounts, failing without any
// mutation when the source balance does not cover the amount.
func (l *MemoryLedger) Transfer(_ context.Context, asset, from, to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	accounts, ok := l.balances[asset]
	if !ok {
		return domainerrors.ErrInsufficientFee
	}
	bal, ok := accounts[from]
	if !ok || bal.Cmp(amount) < 0 {
		return domainerrors.ErrInsufficientFee
	}

	bal.Sub(bal, amount)
	l.credit(asset, to, amount)
	return nil
}

func (l *MemoryLedger) credit(asset, account string, amount *big.Int) {
	accounts, ok := l.balances[asset]
	if !ok {
		accounts = make(map[string]*big.Int)
		l.balances[asset] = accounts
	}
	bal, ok := accounts[account]
	if !ok {
		bal = new(big.Int)
		accounts[account] = bal
	}
	bal.Add(bal, amount)
}
