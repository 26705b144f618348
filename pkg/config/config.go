package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	// Seed lists accounts created at startup, one "id:currency:balance[:instant]" per entry.
	Seed []string `envconfig:"SEED"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"payauth:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type Kafka struct {
	Brokers []string `envconfig:"BROKERS"`
	Topic   string   `envconfig:"TOPIC" default:"payments"`
}

type EventBus struct {
	// Driver is one of memory, memory-async, redis or kafka.
	Driver string `envconfig:"DRIVER" default:"memory"`
	Stream string `envconfig:"STREAM" default:"payauth:events"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type ExchangeRate struct {
	// Fixed holds static rates as "FROM_TO:rate" pairs. Used when ApiUrl is empty.
	Fixed       map[string]string `envconfig:"FIXED"`
	ApiKey      string            `envconfig:"API_KEY"`
	ApiUrl      string            `envconfig:"API_URL"`
	HTTPTimeout time.Duration     `envconfig:"HTTP_TIMEOUT" default:"10s"`
	CacheTTL    time.Duration     `envconfig:"CACHE_TTL" default:"15m"`
	CachePrefix string            `envconfig:"CACHE_PREFIX" default:"exr:rate:"`
}

type Fee struct {
	Default    string  `envconfig:"DEFAULT" default:"none"`
	FlatAmount float64 `envconfig:"FLAT_AMOUNT" default:"0"`
	Percentage float64 `envconfig:"PERCENTAGE" default:"0.01"`
	Min        float64 `envconfig:"MIN" default:"0"`
	Max        float64 `envconfig:"MAX" default:"0"`
}

type Compliance struct {
	Threshold       float64  `envconfig:"THRESHOLD" default:"500"`
	BlockedAccounts []string `envconfig:"BLOCKED_ACCOUNTS"`
	Approve         bool     `envconfig:"APPROVE" default:"true"`
}

type Retry struct {
	MaxRetries int           `envconfig:"MAX_RETRIES" default:"3"`
	Backoff    time.Duration `envconfig:"BACKOFF" default:"0s"`
	MaxBackoff time.Duration `envconfig:"MAX_BACKOFF" default:"1s"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[payauth]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	DB           *DB           `envconfig:"DATABASE"`
	Auth         *Auth         `envconfig:"AUTH"`
	Redis        *Redis        `envconfig:"REDIS"`
	Kafka        *Kafka        `envconfig:"KAFKA"`
	EventBus     *EventBus     `envconfig:"EVENT_BUS"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
	ExchangeRate *ExchangeRate `envconfig:"EXCHANGE_RATE"`
	Fee          *Fee          `envconfig:"FEE"`
	Compliance   *Compliance   `envconfig:"COMPLIANCE"`
	Retry        *Retry        `envconfig:"RETRY"`
}
