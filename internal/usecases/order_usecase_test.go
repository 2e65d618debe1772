package usecases_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/internal/usecases"
)

// oneToken is 1 unit at 18 decimals
const oneToken = "1000000000000000000"

func fundTaker(e *env, amount string) {
	n, _ := new(big.Int).SetString(amount, 10)
	e.funds.Mint(testCrypto, testTaker, n)
}

func createOrder(t *testing.T, e *env, methodIdx int64) *usecases.CreateOrderResult {
	t.Helper()
	result, err := e.orders.CreateBuyOrder(context.Background(), testTaker, &usecases.CreateOrderInput{
		Crypto:               testCrypto,
		Fiat:                 "AUD",
		Amount:               oneToken,
		FiatPaymentMethodIdx: methodIdx,
	})
	require.NoError(t, err)
	return result
}

func TestCreateBuyOrderLocksEscrowAndDispatchesAudit(t *testing.T) {
	e := newEnv(t)
	method := e.addWeChatMethod(t)
	e.fundFees(3)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	order := result.Order

	assert.Equal(t, entities.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, testTaker, order.Taker)
	assert.Equal(t, oneToken, order.Amount)
	assert.Equal(t, method.BuyCryptoOrderJobID, result.OracleRequest.JobID)

	// the full amount moved from the taker into escrow
	assert.Zero(t, e.balance(t, testCrypto, testTaker).Sign())
	assert.Equal(t, oneToken, e.balance(t, testCrypto, testEscrow).String())
	assert.Equal(t, 1, e.published.count(events.TypeOrderCreated))
}

func TestCreateBuyOrderValidation(t *testing.T) {
	e := newEnv(t)
	method := e.addWeChatMethod(t)
	e.fundFees(3)
	ctx := context.Background()

	_, err := e.orders.CreateBuyOrder(ctx, testTaker, &usecases.CreateOrderInput{
		Crypto: testCrypto, Fiat: "AUD", Amount: oneToken, FiatPaymentMethodIdx: 77,
	})
	assert.ErrorIs(t, err, domainerrors.ErrMethodNotFound)

	_, err = e.orders.CreateBuyOrder(ctx, testTaker, &usecases.CreateOrderInput{
		Crypto: testCrypto, Fiat: "AUD", Amount: "0", FiatPaymentMethodIdx: method.Idx,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	_, err = e.orders.CreateBuyOrder(ctx, testTaker, &usecases.CreateOrderInput{
		Crypto: testCrypto, Fiat: "AUD", Amount: "not-a-number", FiatPaymentMethodIdx: method.Idx,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)

	// no maker activated yet
	_, err = e.orders.CreateBuyOrder(ctx, testTaker, &usecases.CreateOrderInput{
		Crypto: testCrypto, Fiat: "AUD", Amount: oneToken, FiatPaymentMethodIdx: method.Idx,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNoActiveMaker)
}

func TestOrderAuditFulfillmentKeepsStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(3)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01}))

	order, err := e.orders.GetOrder(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusAwaitingPayment, order.Status, "audit is a checkpoint, not a transition")
	assert.True(t, order.OracleConfirmedAt.Valid)
}

func TestOrderFullLifecycleSettles(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(5)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	orderID := result.Order.ID
	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01}))

	paidReq, err := e.orders.ConfirmFiatSent(ctx, testTaker, orderID)
	require.NoError(t, err)
	assert.Equal(t, method.BuyCryptoOrderPayedJobID, paidReq.JobID)

	order, err := e.orders.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusPaid, order.Status)

	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, paidReq.RequestID, []byte{0x01}))

	order, err = e.orders.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusSettled, order.Status)
	assert.True(t, order.SettledAt.Valid)

	// escrow released to the taker
	assert.Equal(t, oneToken, e.balance(t, testCrypto, testTaker).String())
	assert.Zero(t, e.balance(t, testCrypto, testEscrow).Sign())
	assert.Equal(t, 1, e.published.count(events.TypeOrderSettled))
}

func TestConfirmFiatSentGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(5)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	orderID := result.Order.ID

	// only the taker may confirm
	_, err := e.orders.ConfirmFiatSent(ctx, testMaker, orderID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// the audit request is still pending for this order
	_, err = e.orders.ConfirmFiatSent(ctx, testTaker, orderID)
	assert.ErrorIs(t, err, domainerrors.ErrRequestPending)

	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01}))
	_, err = e.orders.ConfirmFiatSent(ctx, testTaker, orderID)
	require.NoError(t, err)

	// PAID orders cannot be confirmed again
	_, err = e.orders.ConfirmFiatSent(ctx, testTaker, orderID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatus)
}

func TestCancelOrderRefundsAndKillsPendingRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(5)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	orderID := result.Order.ID

	require.NoError(t, e.orders.CancelOrder(ctx, testMaker, orderID))

	order, err := e.orders.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusCancelled, order.Status)
	assert.True(t, order.CancelledAt.Valid)

	// escrow refunded to the taker
	assert.Equal(t, oneToken, e.balance(t, testCrypto, testTaker).String())

	// a late fulfillment of the expired audit request finds nothing
	err = e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01})
	assert.ErrorIs(t, err, domainerrors.ErrUnknownRequest)
	assert.Equal(t, 1, e.published.count(events.TypeOrderCancelled))
}

func TestCancelOrderGuards(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(5)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, oneToken)

	result := createOrder(t, e, method.Idx)
	orderID := result.Order.ID

	// the taker has no cancel right
	err := e.orders.CancelOrder(ctx, testTaker, orderID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// the owner does
	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01}))
	_, err = e.orders.ConfirmFiatSent(ctx, testTaker, orderID)
	require.NoError(t, err)

	// PAID orders are past the point of no return
	err = e.orders.CancelOrder(ctx, testOwner, orderID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatus)
}

func TestListOrdersByTaker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	method := e.addWeChatMethod(t)
	e.fundFees(10)
	e.registerActiveMaker(t, method.Idx)
	fundTaker(e, "3000000000000000000")

	for i := 0; i < 3; i++ {
		createOrder(t, e, method.Idx)
	}

	orders, total, err := e.orders.ListOrders(ctx, testTaker, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, orders, 2)

	orders, total, err = e.orders.ListOrders(ctx, "0x0000000000000000000000000000000000000123", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}
