package usecases

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/domain/ledger"
	"github.com/DrZedd42/fiat-gateway/internal/domain/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
	"github.com/DrZedd42/fiat-gateway/pkg/metrics"
)

// FulfillmentCallback applies the lifecycle transition bound to a
// consumed oracle request. It runs inside the same transaction that
// consumed the request.
type FulfillmentCallback func(ctx context.Context, request *entities.OracleRequest, result []byte) error

// OracleBridge owns the request/fulfillment handshake with the oracle
// network: it pays the per-request fee out of the gateway's pooled fee
// account, tracks every outstanding request and routes fulfillments to
// the registered callback exactly once.
type OracleBridge struct {
	requestRepo repositories.OracleRequestRepository
	uow         repositories.UnitOfWork
	funds       ledger.FundsLedger
	publisher   events.Publisher

	feeToken    string
	gatewayAddr string
	feeAmount   *big.Int

	mu        sync.RWMutex
	callbacks map[entities.CallbackSelector]FulfillmentCallback
}

// NewOracleBridge creates a new oracle bridge
func NewOracleBridge(
	requestRepo repositories.OracleRequestRepository,
	uow repositories.UnitOfWork,
	funds ledger.FundsLedger,
	publisher events.Publisher,
	feeToken string,
	gatewayAddr string,
	feeAmount string,
) *OracleBridge {
	fee, ok := new(big.Int).SetString(feeAmount, 10)
	if !ok || fee.Sign() <= 0 {
		fee, _ = new(big.Int).SetString(DefaultOracleFee, 10)
	}
	return &OracleBridge{
		requestRepo: requestRepo,
		uow:         uow,
		funds:       funds,
		publisher:   publisher,
		feeToken:    feeToken,
		gatewayAddr: gatewayAddr,
		feeAmount:   fee,
		callbacks:   make(map[entities.CallbackSelector]FulfillmentCallback),
	}
}

// RegisterCallback binds a callback selector to its transition. Must be
// called during wiring, before any fulfillment can arrive.
func (b *OracleBridge) RegisterCallback(selector entities.CallbackSelector, fn FulfillmentCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks[selector] = fn
}

func (b *OracleBridge) callback(selector entities.CallbackSelector) (FulfillmentCallback, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn, ok := b.callbacks[selector]
	return fn, ok
}

// FeeAmount returns the configured per-request fee
func (b *OracleBridge) FeeAmount() *big.Int {
	return new(big.Int).Set(b.feeAmount)
}

// SendRequest pays the oracle fee and records a new pending request for
// the subject. At most one request may be pending per subject; the fee
// comes out of the gateway's pooled fee-token account, so callers must
// have funded it beforehand.
func (b *OracleBridge) SendRequest(
	ctx context.Context,
	oracleAddr, jobID string,
	selector entities.CallbackSelector,
	subjectType entities.SubjectType,
	subjectID uint64,
	payload string,
) (*entities.OracleRequest, error) {
	if _, err := b.requestRepo.GetPendingBySubject(ctx, subjectType, subjectID); err == nil {
		return nil, domainerrors.ErrRequestPending
	} else if !errors.Is(err, domainerrors.ErrUnknownRequest) {
		return nil, err
	}

	balance, err := b.funds.BalanceOf(ctx, b.feeToken, b.gatewayAddr)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(b.feeAmount) < 0 {
		return nil, domainerrors.ErrInsufficientFee
	}
	if err := b.funds.Transfer(ctx, b.feeToken, b.gatewayAddr, oracleAddr, b.feeAmount); err != nil {
		return nil, err
	}

	request := &entities.OracleRequest{
		RequestID:        b.deriveRequestID(),
		OracleAddr:       oracleAddr,
		JobID:            jobID,
		CallbackSelector: selector,
		SubjectType:      subjectType,
		SubjectID:        subjectID,
		FeeAmount:        b.feeAmount.String(),
		Payload:          payload,
	}
	if err := b.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	logger.Info(ctx, "oracle request sent",
		zap.String("request_id", request.RequestID),
		zap.String("oracle", oracleAddr),
		zap.String("job_id", jobID),
		zap.String("callback", string(selector)))
	metrics.OracleRequestsSent.WithLabelValues(string(selector)).Inc()
	b.publisher.Publish(ctx, events.TypeOracleRequest, request)

	return request, nil
}

// Fulfill consumes a pending request and applies its transition. Only
// the oracle the request was addressed to may fulfill it, and each
// request id is honored at most once even under concurrent delivery.
// An empty or all-zero result is a negative verdict: the request is
// consumed and the subject stays in its current state.
func (b *OracleBridge) Fulfill(ctx context.Context, callerAddr, requestID string, result []byte) error {
	request, err := b.requestRepo.GetPending(ctx, requestID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(callerAddr, request.OracleAddr) {
		return domainerrors.ErrUnauthorized
	}

	accepted := positiveResult(result)
	err = b.uow.Do(ctx, func(txCtx context.Context) error {
		if err := b.requestRepo.Consume(txCtx, requestID); err != nil {
			return err
		}
		if !accepted {
			return nil
		}
		fn, ok := b.callback(request.CallbackSelector)
		if !ok {
			return domainerrors.ErrUnknownRequest
		}
		return fn(txCtx, request, result)
	})
	if err != nil {
		return err
	}

	outcome := metrics.ResultAccepted
	if !accepted {
		outcome = metrics.ResultRejected
	}
	logger.Info(ctx, "oracle request fulfilled",
		zap.String("request_id", requestID),
		zap.String("callback", string(request.CallbackSelector)),
		zap.String("result", outcome))
	metrics.OracleFulfillments.WithLabelValues(string(request.CallbackSelector), outcome).Inc()
	b.publisher.Publish(ctx, events.TypeOracleFulfilled, map[string]interface{}{
		"requestId": requestID,
		"callback":  request.CallbackSelector,
		"accepted":  accepted,
	})

	return nil
}

// Reissue expires a pending request and dispatches a fresh one with the
// same job and subject. It is the recovery path for requests the oracle
// network will provably never answer.
func (b *OracleBridge) Reissue(ctx context.Context, requestID string) (*entities.OracleRequest, error) {
	request, err := b.requestRepo.GetPending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	var reissued *entities.OracleRequest
	err = b.uow.Do(ctx, func(txCtx context.Context) error {
		if err := b.requestRepo.Consume(txCtx, requestID); err != nil {
			return err
		}
		reissued, err = b.SendRequest(txCtx,
			request.OracleAddr, request.JobID,
			request.CallbackSelector, request.SubjectType, request.SubjectID,
			request.Payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reissued, nil
}

// Expire consumes a pending request without dispatching a replacement.
// Used when the subject itself is being withdrawn, e.g. an order
// cancellation racing an in-flight audit.
func (b *OracleBridge) Expire(ctx context.Context, requestID string) error {
	return b.requestRepo.Consume(ctx, requestID)
}

// deriveRequestID produces a globally unique request id from the
// gateway address and a fresh nonce, matching the oracle convention of
// 32-byte hex identifiers.
func (b *OracleBridge) deriveRequestID() string {
	nonce := uuid.New()
	sum := ethcrypto.Keccak256(append(common.HexToAddress(b.gatewayAddr).Bytes(), nonce[:]...))
	return hexutil.Encode(sum)
}

// positiveResult reports whether the oracle's answer confirms the
// checked condition. Oracles answer with an opaque byte string; empty
// or all-zero bytes mean the check failed.
func positiveResult(result []byte) bool {
	for _, b := range result {
		if b != 0 {
			return true
		}
	}
	return false
}
