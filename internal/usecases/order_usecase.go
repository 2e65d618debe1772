package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/domain/ledger"
	"github.com/DrZedd42/fiat-gateway/internal/domain/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
	"github.com/DrZedd42/fiat-gateway/pkg/metrics"
)

// OrderUsecase drives the buy order lifecycle. Transitions that depend
// on off-chain facts go through the oracle bridge; escrow movements go
// through the funds ledger, atomically with the transition that causes
// them.
type OrderUsecase struct {
	orderRepo  repositories.OrderRepository
	makerRepo  repositories.MakerRepository
	methodRepo repositories.PaymentMethodRepository
	reqRepo    repositories.OracleRequestRepository
	uow        repositories.UnitOfWork
	bridge     *OracleBridge
	funds      ledger.FundsLedger
	publisher  events.Publisher
	escrowAddr string
	ownerAddr  string
}

// NewOrderUsecase creates a new order usecase and registers the audit
// and settle callbacks on the bridge.
func NewOrderUsecase(
	orderRepo repositories.OrderRepository,
	makerRepo repositories.MakerRepository,
	methodRepo repositories.PaymentMethodRepository,
	reqRepo repositories.OracleRequestRepository,
	uow repositories.UnitOfWork,
	bridge *OracleBridge,
	funds ledger.FundsLedger,
	publisher events.Publisher,
	escrowAddr string,
	ownerAddr string,
) *OrderUsecase {
	u := &OrderUsecase{
		orderRepo:  orderRepo,
		makerRepo:  makerRepo,
		methodRepo: methodRepo,
		reqRepo:    reqRepo,
		uow:        uow,
		bridge:     bridge,
		funds:      funds,
		publisher:  publisher,
		escrowAddr: escrowAddr,
		ownerAddr:  ownerAddr,
	}
	bridge.RegisterCallback(entities.CallbackOrderAudit, u.onAudit)
	bridge.RegisterCallback(entities.CallbackOrderSettle, u.onSettle)
	return u
}

// CreateOrderInput holds fields for a new buy order
type CreateOrderInput struct {
	Crypto               string `json:"crypto" binding:"required"`
	Fiat                 string `json:"fiat" binding:"required"`
	Amount               string `json:"amount" binding:"required"`
	FiatPaymentMethodIdx int64  `json:"fiatPaymentMethodIdx"`
}

// CreateOrderResult pairs the created order with its audit request
type CreateOrderResult struct {
	Order         *entities.BuyOrder      `json:"order"`
	OracleRequest *entities.OracleRequest `json:"oracleRequest"`
}

// CreateBuyOrder creates an order against the first active maker for
// the pair, locks the amount into escrow and dispatches the
// order-created audit job. The order lands in AWAITING_PAYMENT with
// the escrow already held, or not at all.
func (u *OrderUsecase) CreateBuyOrder(ctx context.Context, callerAddr string, input *CreateOrderInput) (*CreateOrderResult, error) {
	method, err := u.methodRepo.GetByIdx(ctx, input.FiatPaymentMethodIdx)
	if err != nil {
		return nil, err
	}

	amount, ok := new(big.Int).SetString(input.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}

	maker, err := u.makerRepo.FirstActiveForPair(ctx, input.FiatPaymentMethodIdx, input.Crypto, input.Fiat)
	if err != nil {
		return nil, err
	}

	if err := u.funds.Transfer(ctx, input.Crypto, callerAddr, u.escrowAddr, amount); err != nil {
		return nil, err
	}

	order := &entities.BuyOrder{
		Taker:                callerAddr,
		MakerID:              maker.ID,
		Crypto:               input.Crypto,
		Fiat:                 input.Fiat,
		Amount:               amount.String(),
		FiatPaymentMethodIdx: input.FiatPaymentMethodIdx,
		Status:               entities.OrderStatusCreated,
	}

	var request *entities.OracleRequest
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.orderRepo.Create(txCtx, order); err != nil {
			return err
		}
		payload, err := orderPayload(order, maker)
		if err != nil {
			return err
		}
		request, err = u.bridge.SendRequest(txCtx,
			method.OracleAddr, method.BuyCryptoOrderJobID,
			entities.CallbackOrderAudit, entities.SubjectOrder, order.ID,
			payload)
		if err != nil {
			return err
		}
		return u.orderRepo.UpdateStatus(txCtx, order.ID, entities.OrderStatusAwaitingPayment)
	})
	if err != nil {
		// escrow was locked outside the transaction, release it back
		if refundErr := u.funds.Transfer(ctx, input.Crypto, u.escrowAddr, callerAddr, amount); refundErr != nil {
			logger.Error(ctx, "escrow refund after failed order creation",
				zap.String("taker", callerAddr), zap.Error(refundErr))
		}
		return nil, err
	}
	order.Status = entities.OrderStatusAwaitingPayment

	logger.Info(ctx, "buy order created",
		zap.Uint64("order_id", order.ID),
		zap.String("taker", order.Taker),
		zap.Uint64("maker_id", maker.ID),
		zap.String("amount", order.Amount))
	metrics.OrdersCreated.Inc()

	result := &CreateOrderResult{Order: order, OracleRequest: request}
	u.publisher.Publish(ctx, events.TypeOrderCreated, result)
	return result, nil
}

// ConfirmFiatSent is the taker's assertion that the fiat payment went
// out. It dispatches the payment-verification job and moves the order
// to PAID; settlement waits for the oracle's answer.
func (u *OrderUsecase) ConfirmFiatSent(ctx context.Context, callerAddr string, orderID uint64) (*entities.OracleRequest, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(callerAddr, order.Taker) {
		return nil, domainerrors.ErrForbidden
	}
	if order.Status != entities.OrderStatusAwaitingPayment {
		return nil, domainerrors.ErrInvalidStatus
	}

	method, err := u.methodRepo.GetByIdx(ctx, order.FiatPaymentMethodIdx)
	if err != nil {
		return nil, err
	}
	maker, err := u.makerRepo.GetByID(ctx, order.MakerID)
	if err != nil {
		return nil, err
	}

	var request *entities.OracleRequest
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		payload, err := orderPayload(order, maker)
		if err != nil {
			return err
		}
		request, err = u.bridge.SendRequest(txCtx,
			method.OracleAddr, method.BuyCryptoOrderPayedJobID,
			entities.CallbackOrderSettle, entities.SubjectOrder, order.ID,
			payload)
		if err != nil {
			return err
		}
		return u.orderRepo.UpdateStatus(txCtx, order.ID, entities.OrderStatusPaid)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "fiat payment confirmed by taker",
		zap.Uint64("order_id", orderID),
		zap.String("request_id", request.RequestID))
	return request, nil
}

// CancelOrder withdraws an order before settlement can start. Only the
// order's maker or the owner may cancel, and only before PAID. Any
// pending oracle request is expired first, so a late fulfillment finds
// nothing to consume.
func (u *OrderUsecase) CancelOrder(ctx context.Context, callerAddr string, orderID uint64) error {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	maker, err := u.makerRepo.GetByID(ctx, order.MakerID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(callerAddr, maker.MakerAddr) && !strings.EqualFold(callerAddr, u.ownerAddr) {
		return domainerrors.ErrForbidden
	}
	if order.Status != entities.OrderStatusCreated && order.Status != entities.OrderStatusAwaitingPayment {
		return domainerrors.ErrInvalidStatus
	}

	amount, ok := new(big.Int).SetString(order.Amount, 10)
	if !ok {
		return domainerrors.ErrInvalidAmount
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		pending, err := u.reqRepo.GetPendingBySubject(txCtx, entities.SubjectOrder, order.ID)
		if err == nil {
			if err := u.bridge.Expire(txCtx, pending.RequestID); err != nil {
				return err
			}
		} else if !errors.Is(err, domainerrors.ErrUnknownRequest) {
			return err
		}
		if err := u.orderRepo.MarkCancelled(txCtx, order.ID); err != nil {
			return err
		}
		return u.funds.Transfer(txCtx, order.Crypto, u.escrowAddr, order.Taker, amount)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order cancelled",
		zap.Uint64("order_id", orderID),
		zap.String("cancelled_by", callerAddr))
	u.publisher.Publish(ctx, events.TypeOrderCancelled, map[string]interface{}{
		"orderId":     orderID,
		"cancelledBy": callerAddr,
	})
	return nil
}

// GetOrder returns one order by id
func (u *OrderUsecase) GetOrder(ctx context.Context, id uint64) (*entities.BuyOrder, error) {
	return u.orderRepo.GetByID(ctx, id)
}

// ListOrders returns orders with pagination, optionally scoped to a taker
func (u *OrderUsecase) ListOrders(ctx context.Context, taker string, limit, offset int) ([]*entities.BuyOrder, int, error) {
	limit, offset = clampPage(limit, offset)
	if taker != "" {
		return u.orderRepo.GetByTaker(ctx, taker, limit, offset)
	}
	return u.orderRepo.List(ctx, limit, offset)
}

// onAudit records the oracle's confirmation that the order was seen by
// the payment rail. An audit checkpoint only, the status stays put.
func (u *OrderUsecase) onAudit(ctx context.Context, request *entities.OracleRequest, _ []byte) error {
	if err := u.orderRepo.MarkOracleConfirmed(ctx, request.SubjectID); err != nil {
		return err
	}
	logger.Info(ctx, "order audit confirmed", zap.Uint64("order_id", request.SubjectID))
	return nil
}

// onSettle releases escrow to the taker once the oracle confirms the
// fiat arrived. Consuming the request, flipping the status and moving
// the funds commit or roll back together.
func (u *OrderUsecase) onSettle(ctx context.Context, request *entities.OracleRequest, _ []byte) error {
	order, err := u.orderRepo.GetByID(ctx, request.SubjectID)
	if err != nil {
		return err
	}
	if order.Status != entities.OrderStatusPaid {
		return domainerrors.ErrInvalidStatus
	}

	amount, ok := new(big.Int).SetString(order.Amount, 10)
	if !ok {
		return domainerrors.ErrInvalidAmount
	}
	if err := u.orderRepo.MarkSettled(ctx, order.ID); err != nil {
		return err
	}
	if err := u.funds.Transfer(ctx, order.Crypto, u.escrowAddr, order.Taker, amount); err != nil {
		return err
	}

	logger.Info(ctx, "order settled",
		zap.Uint64("order_id", order.ID),
		zap.String("taker", order.Taker),
		zap.String("amount", order.Amount))
	u.publisher.Publish(ctx, events.TypeOrderSettled, map[string]interface{}{
		"orderId": order.ID,
		"taker":   order.Taker,
		"amount":  order.Amount,
	})
	return nil
}

// orderPayload builds the JSON the oracle job receives: enough to check
// the off-chain leg without another gateway round trip.
func orderPayload(order *entities.BuyOrder, maker *entities.Maker) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"orderId":            order.ID,
		"taker":              order.Taker,
		"makerAddr":          maker.MakerAddr,
		"paymentDestination": maker.PaymentDestination,
		"apiCredsHash":       maker.APICredsHash,
		"crypto":             order.Crypto,
		"fiat":               order.Fiat,
		"amount":             order.Amount,
	})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
