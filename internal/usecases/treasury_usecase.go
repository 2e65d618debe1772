package usecases

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/domain/ledger"
	jwtpkg "github.com/DrZedd42/fiat-gateway/pkg/jwt"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
)

// TreasuryUsecase manages the gateway's pooled fee-token account
type TreasuryUsecase struct {
	funds       ledger.FundsLedger
	feeToken    string
	gatewayAddr string
	ownerAddr   string
}

// NewTreasuryUsecase creates a new treasury usecase
func NewTreasuryUsecase(funds ledger.FundsLedger, feeToken, gatewayAddr, ownerAddr string) *TreasuryUsecase {
	return &TreasuryUsecase{
		funds:       funds,
		feeToken:    feeToken,
		gatewayAddr: gatewayAddr,
		ownerAddr:   ownerAddr,
	}
}

// FeeBalance returns the gateway's current fee-token balance
func (u *TreasuryUsecase) FeeBalance(ctx context.Context) (*big.Int, error) {
	return u.funds.BalanceOf(ctx, u.feeToken, u.gatewayAddr)
}

// WithdrawFeeToken sweeps the gateway's entire fee-token balance to the
// owner. Owner-only; a zero balance withdraws nothing and succeeds.
func (u *TreasuryUsecase) WithdrawFeeToken(ctx context.Context, callerRole string) (*big.Int, error) {
	if callerRole != jwtpkg.RoleOwner {
		return nil, domainerrors.ErrUnauthorized
	}

	balance, err := u.funds.BalanceOf(ctx, u.feeToken, u.gatewayAddr)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return balance, nil
	}
	if err := u.funds.Transfer(ctx, u.feeToken, u.gatewayAddr, u.ownerAddr, balance); err != nil {
		return nil, err
	}

	logger.Info(ctx, "fee token withdrawn",
		zap.String("owner", u.ownerAddr),
		zap.String("amount", balance.String()))
	return balance, nil
}
