package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/DrZedd42/fiat-gateway/internal/config"
	"github.com/DrZedd42/fiat-gateway/internal/domain/ledger"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/blockchain"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/events"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/jobs"
	infraledger "github.com/DrZedd42/fiat-gateway/internal/infrastructure/ledger"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/models"
	"github.com/DrZedd42/fiat-gateway/internal/infrastructure/repositories"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/handlers"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
	"github.com/DrZedd42/fiat-gateway/internal/usecases"
	"github.com/DrZedd42/fiat-gateway/pkg/jwt"
	"github.com/DrZedd42/fiat-gateway/pkg/logger"
	"github.com/DrZedd42/fiat-gateway/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	}

	if err := db.AutoMigrate(
		&models.FiatPaymentMethod{},
		&models.Maker{},
		&models.BuyOrder{},
		&models.OracleRequest{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	methodRepo := repositories.NewPaymentMethodRepository(db)
	makerRepo := repositories.NewMakerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	requestRepo := repositories.NewOracleRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Funds ledger
	funds, err := buildFundsLedger(cfg)
	if err != nil {
		return err
	}

	publisher := events.NewRedisPublisher()

	// Usecases
	bridge := usecases.NewOracleBridge(requestRepo, uow, funds, publisher,
		cfg.Blockchain.FeeTokenAddress, cfg.Blockchain.GatewayAddress, cfg.Oracle.FeeAmount)
	methodUsecase := usecases.NewPaymentMethodUsecase(methodRepo, publisher, cfg.Blockchain.OwnerAddress)
	makerUsecase := usecases.NewMakerUsecase(makerRepo, methodRepo, uow, bridge, publisher)
	orderUsecase := usecases.NewOrderUsecase(orderRepo, makerRepo, methodRepo, requestRepo, uow,
		bridge, funds, publisher, cfg.Blockchain.EscrowAddress, cfg.Blockchain.OwnerAddress)
	treasuryUsecase := usecases.NewTreasuryUsecase(funds,
		cfg.Blockchain.FeeTokenAddress, cfg.Blockchain.GatewayAddress, cfg.Blockchain.OwnerAddress)
	authUsecase := usecases.NewAuthUsecase(jwtService, cfg.Blockchain.OwnerAddress, cfg.Security.AdminPasswordHash)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := jobs.NewStuckRequestMonitor(requestRepo, cfg.Oracle.StaleAfter)
	go monitor.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     handlers.NewAuthHandler(authUsecase),
		methodHandler:   handlers.NewPaymentMethodHandler(methodUsecase),
		makerHandler:    handlers.NewMakerHandler(makerUsecase),
		orderHandler:    handlers.NewOrderHandler(orderUsecase),
		oracleHandler:   handlers.NewOracleHandler(bridge),
		treasuryHandler: handlers.NewTreasuryHandler(treasuryUsecase),
		assetHandler:    handlers.NewAssetHandler(),
		signatureAuth:   middleware.SignatureAuthMiddleware(),
		jwtAuth:         middleware.JWTAuthMiddleware(jwtService),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down")
		monitor.Stop()
		cancel()
	}()

	log.Printf("fiat gateway starting on port %s (ledger mode %s)", cfg.Server.Port, cfg.Blockchain.LedgerMode)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildFundsLedger picks the funds backend. The memory ledger is the
// simulation mode for development and demos; evm talks to a real chain
// and signs gateway-account transfers.
func buildFundsLedger(cfg *config.Config) (ledger.FundsLedger, error) {
	switch cfg.Blockchain.LedgerMode {
	case config.LedgerModeEVM:
		factory := blockchain.NewClientFactory()
		client, err := factory.GetEVMClient(cfg.Blockchain.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect EVM client: %w", err)
		}
		evmLedger, err := blockchain.NewEVMLedger(client, cfg.Blockchain.GatewayPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to build EVM ledger: %w", err)
		}
		return evmLedger, nil
	case config.LedgerModeMemory:
		return infraledger.NewMemoryLedger(), nil
	default:
		return nil, fmt.Errorf("unknown ledger mode %q", cfg.Blockchain.LedgerMode)
	}
}
