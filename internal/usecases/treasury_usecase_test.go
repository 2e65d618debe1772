package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	jwtpkg "github.com/DrZedd42/fiat-gateway/pkg/jwt"
)

func TestWithdrawFeeTokenSweepsBalance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.fundFees(3)

	withdrawn, err := e.treasury.WithdrawFeeToken(ctx, jwtpkg.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, "3000000000000000000", withdrawn.String())

	assert.Zero(t, e.balance(t, testFeeToken, testGateway).Sign())
	assert.Equal(t, "3000000000000000000", e.balance(t, testFeeToken, testOwner).String())
}

func TestWithdrawFeeTokenOwnerOnly(t *testing.T) {
	e := newEnv(t)
	e.fundFees(1)

	_, err := e.treasury.WithdrawFeeToken(context.Background(), "maker")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Equal(t, testFee, e.balance(t, testFeeToken, testGateway).String())
}

func TestWithdrawFeeTokenZeroBalance(t *testing.T) {
	e := newEnv(t)

	withdrawn, err := e.treasury.WithdrawFeeToken(context.Background(), jwtpkg.RoleOwner)
	require.NoError(t, err)
	assert.Zero(t, withdrawn.Sign())
}
