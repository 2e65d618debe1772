package usecases_test

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	infraledger "github.com/DrZedd42/fiat-gateway/internal/infrastructure/ledger"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/models"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/usecases"
)

const (
	testOwner    = "0x00000000000000000000000000000000000000aa"
	testGateway  = "0x00000000000000000000000000000000000000bb"
	testEscrow   = "0x00000000000000000000000000000000000000cc"
	testOracle   = "0x00000000000000000000000000000000000000dd"
	testMaker    = "0x00000000000000000000000000000000000000ee"
	testTaker    = "0x00000000000000000000000000000000000000ff"
	testFeeToken = "0x0000000000000000000000000000000000000fee"
	testCrypto   = "0x000000000000000000000000000000000000c0de"

	testFee = "1000000000000000000"
)

// capturePublisher records every published event for assertions
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Type string
	Data interface{}
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Type: eventType, Data: data})
}

func (p *capturePublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// env wires real sqlite-backed repositories, an in-memory funds ledger
// and the full usecase graph.
type env struct {
	db        *gorm.DB
	funds     *infraledger.MemoryLedger
	published *capturePublisher
	reqRepo   *repositories.OracleRequestRepository
	makerRepo *repositories.MakerRepository
	orderRepo *repositories.OrderRepository
	bridge    *usecases.OracleBridge
	methods   *usecases.PaymentMethodUsecase
	makers    *usecases.MakerUsecase
	orders    *usecases.OrderUsecase
	treasury  *usecases.TreasuryUsecase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(
		&models.FiatPaymentMethod{},
		&models.Maker{},
		&models.BuyOrder{},
		&models.OracleRequest{},
	))

	methodRepo := repositories.NewPaymentMethodRepository(db)
	makerRepo := repositories.NewMakerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reqRepo := repositories.NewOracleRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	funds := infraledger.NewMemoryLedger()
	published := &capturePublisher{}

	bridge := usecases.NewOracleBridge(reqRepo, uow, funds, published, testFeeToken, testGateway, testFee)

	return &env{
		db:        db,
		funds:     funds,
		published: published,
		reqRepo:   reqRepo,
		makerRepo: makerRepo,
		orderRepo: orderRepo,
		bridge:    bridge,
		methods:   usecases.NewPaymentMethodUsecase(methodRepo, published, testOwner),
		makers:    usecases.NewMakerUsecase(makerRepo, methodRepo, uow, bridge, published),
		orders: usecases.NewOrderUsecase(orderRepo, makerRepo, methodRepo, reqRepo, uow,
			bridge, funds, published, testEscrow, testOwner),
		treasury: usecases.NewTreasuryUsecase(funds, testFeeToken, testGateway, testOwner),
	}
}

func (e *env) fundFees(n int64) {
	fee, _ := new(big.Int).SetString(testFee, 10)
	e.funds.Mint(testFeeToken, testGateway, new(big.Int).Mul(fee, big.NewInt(n)))
}

func (e *env) balance(t *testing.T, asset, account string) *big.Int {
	t.Helper()
	bal, err := e.funds.BalanceOf(context.Background(), asset, account)
	require.NoError(t, err)
	return bal
}

func (e *env) addWeChatMethod(t *testing.T) *entities.FiatPaymentMethod {
	t.Helper()
	method, err := e.methods.AddMethod(context.Background(), testOwner, &usecases.AddMethodInput{
		DisplayName:              "WeChat Pay",
		OracleAddr:               testOracle,
		NewMakerJobID:            "4c7b7ffb66b344fbaa64995af81e355a",
		BuyCryptoOrderJobID:      "c089d2eac5f5455ba0380b9e68d3a9f5",
		BuyCryptoOrderPayedJobID: "575e4aeb93324578a4a5f1e0b5e279c0",
	})
	require.NoError(t, err)
	return method
}

// registerActiveMaker registers a maker and fulfills its activation
// request positively.
func (e *env) registerActiveMaker(t *testing.T, methodIdx int64) *entities.Maker {
	t.Helper()
	ctx := context.Background()

	result, err := e.makers.Register(ctx, testMaker, &usecases.RegisterMakerInput{
		FiatPaymentMethodIdx: methodIdx,
		Crypto:               testCrypto,
		Fiat:                 "AUD",
		PaymentDestination:   "wechat:maker-shop",
		APICredsHash:         "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
	})
	require.NoError(t, err)
	require.False(t, result.Maker.Active)

	require.NoError(t, e.bridge.Fulfill(ctx, testOracle, result.OracleRequest.RequestID, []byte{0x01}))

	maker, err := e.makers.GetMaker(ctx, result.Maker.ID)
	require.NoError(t, err)
	require.True(t, maker.Active)
	return maker
}
