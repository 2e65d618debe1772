package config

import (
	"os"
	"strconv"
	"time"
)

// Ledger modes
const (
	LedgerModeMemory = "memory"
	LedgerModeEVM    = "evm"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Oracle     OracleConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds admin token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// BlockchainConfig holds ledger and chain settings
type BlockchainConfig struct {
	LedgerMode        string
	RPCURL            string
	FeeTokenAddress   string
	GatewayAddress    string
	GatewayPrivateKey string
	EscrowAddress     string
	OwnerAddress      string
}

// OracleConfig holds oracle request settings
type OracleConfig struct {
	// FeeAmount is the fee-token amount paid per oracle request,
	// in the token's smallest unit.
	FeeAmount string
	// StaleAfter is the age past which a pending request is reported
	// as stuck by the monitor job.
	StaleAfter time.Duration
}

// SecurityConfig holds authentication material
type SecurityConfig struct {
	AdminPasswordHash string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fiatgateway"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 12*time.Hour),
		},
		Blockchain: BlockchainConfig{
			LedgerMode:        getEnv("LEDGER_MODE", LedgerModeMemory),
			RPCURL:            getEnv("RPC_URL", "https://sepolia.base.org"),
			FeeTokenAddress:   getEnv("FEE_TOKEN_ADDRESS", "0x0000000000000000000000000000000000000000"),
			GatewayAddress:    getEnv("GATEWAY_ADDRESS", "0x0000000000000000000000000000000000000001"),
			GatewayPrivateKey: getEnv("GATEWAY_PRIVATE_KEY", ""),
			EscrowAddress:     getEnv("ESCROW_ADDRESS", "0x0000000000000000000000000000000000000002"),
			OwnerAddress:      getEnv("OWNER_ADDRESS", "0x0000000000000000000000000000000000000003"),
		},
		Oracle: OracleConfig{
			FeeAmount:  getEnv("ORACLE_FEE_AMOUNT", "1000000000000000000"),
			StaleAfter: getEnvAsDuration("ORACLE_STALE_AFTER", time.Hour),
		},
		Security: SecurityConfig{
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
