// Package config holds the runtime configuration of the wallet service.
// Values are loaded from the environment once at startup; the mutable ledger
// settings (fee percentages, withdrawal window, close threshold) are exposed
// to services through the Provider interface and re-read per operation, so
// administrative changes take effect without a restart and tests can inject
// fixed values deterministically.
package config

import "time"

// DB configures the postgres connection.
type DB struct {
	Url string `envconfig:"URL"`
}

// Jwt configures token verification for the HTTP surface.
type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

// Fees holds the per-operation fee percentages.
type Fees struct {
	P2PPercent        float64 `envconfig:"P2P_PERCENT" default:"5"`
	InvoicePercent    float64 `envconfig:"INVOICE_PERCENT" default:"5"`
	WithdrawalPercent float64 `envconfig:"WITHDRAWAL_PERCENT" default:"5"`
	TicketPercent     float64 `envconfig:"TICKET_PERCENT" default:"10"`
}

// Ledger holds the remaining tunable ledger settings.
type Ledger struct {
	// WithdrawalWindow bounds how long a pending withdrawal may await a cash
	// payout before it is reversed fee-free.
	WithdrawalWindow time.Duration `envconfig:"WITHDRAWAL_WINDOW" default:"24h"`
	// PlatformAccount receives swept fees.
	PlatformAccount string `envconfig:"PLATFORM_ACCOUNT" default:"ADM001"`
	// CloseThreshold is the highest balance, in minor units, an account may
	// hold and still be terminated.
	CloseThreshold int64 `envconfig:"CLOSE_THRESHOLD" default:"100"`
	// RedeemCodeTTL is the default validity of issued redeem codes.
	RedeemCodeTTL time.Duration `envconfig:"REDEEM_CODE_TTL" default:"8760h"`
	// SweepInterval is how often the background expiry sweep runs. Zero
	// disables the ticker; expiry still happens lazily on access.
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m"`
}

// RateLimit bounds request rates per client IP.
type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Log configures the slog handler.
type Log struct {
	Level  int    `envconfig:"LEVEL" default:"0"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Server configures the HTTP listener.
type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// App is the root configuration.
type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Jwt       *Jwt       `envconfig:"JWT"`
	Fees      *Fees      `envconfig:"FEE"`
	Ledger    *Ledger    `envconfig:"LEDGER"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
}
