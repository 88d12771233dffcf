package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD" default:""`
	DB           int           `env:"REDIS_DB" default:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"20"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"1s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"1s"`
}

// LedgerConfig is the business configuration read by the wallet engines.
type LedgerConfig struct {
	DefaultBetAmount    decimal.Decimal `env:"LEDGER_DEFAULT_BET_AMOUNT" default:"1.00"`
	LoginBonusAmount    decimal.Decimal `env:"LEDGER_LOGIN_BONUS_AMOUNT" default:"1.00"`
	MinDepositForBonus  decimal.Decimal `env:"LEDGER_MIN_DEPOSIT_FOR_BONUS" default:"100.00"`
	DepositBonusAmount  decimal.Decimal `env:"LEDGER_DEPOSIT_BONUS_AMOUNT" default:"20.00"`
	WageringRequirement int             `env:"LEDGER_WAGERING_REQUIREMENT" default:"10"`

	// WalletPriority is "bonus_first" or "real_money_first".
	WalletPriority string `env:"LEDGER_WALLET_PRIORITY" default:"bonus_first"`

	// WageringFallback decides how an unset wagering counter is seeded:
	// "recompute" from the ledger or "zero".
	WageringFallback string `env:"LEDGER_WAGERING_FALLBACK" default:"recompute"`

	// WageringStore is "redis" or "memory".
	WageringStore string `env:"LEDGER_WAGERING_STORE" default:"redis"`
}
