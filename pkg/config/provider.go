package config

import (
	"sync"
	"time"

	"github.com/townhub/wallet/pkg/fees"
)

// Settings are the ledger parameters a mutating operation consults. Services
// fetch them through a Provider at the start of every operation rather than
// caching them, so a mid-flight configuration change applies to the next
// operation, not a restart.
type Settings struct {
	Percents         fees.Percents
	WithdrawalWindow time.Duration
	PlatformAccount  string
	CloseThreshold   int64
	RedeemCodeTTL    time.Duration
}

// Provider supplies the current ledger settings.
type Provider interface {
	Current() Settings
}

// StaticProvider serves a fixed Settings value. Updates are atomic, which
// lets an administrative endpoint swap percentages at runtime.
type StaticProvider struct {
	mu       sync.RWMutex
	settings Settings
}

// NewStaticProvider builds a provider around the given settings.
func NewStaticProvider(s Settings) *StaticProvider {
	return &StaticProvider{settings: s}
}

// Current implements Provider.
func (p *StaticProvider) Current() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Update replaces the served settings.
func (p *StaticProvider) Update(s Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
}

// FromApp derives ledger settings from the loaded application config.
func FromApp(cfg *App) Settings {
	s := Settings{
		Percents:         fees.DefaultPercents(),
		WithdrawalWindow: 24 * time.Hour,
		PlatformAccount:  "ADM001",
		CloseThreshold:   100,
		RedeemCodeTTL:    365 * 24 * time.Hour,
	}
	if cfg.Fees != nil {
		s.Percents = fees.Percents{
			P2P:        cfg.Fees.P2PPercent,
			Invoice:    cfg.Fees.InvoicePercent,
			Withdrawal: cfg.Fees.WithdrawalPercent,
			Ticket:     cfg.Fees.TicketPercent,
		}
	}
	if cfg.Ledger != nil {
		s.WithdrawalWindow = cfg.Ledger.WithdrawalWindow
		s.PlatformAccount = cfg.Ledger.PlatformAccount
		s.CloseThreshold = cfg.Ledger.CloseThreshold
		s.RedeemCodeTTL = cfg.Ledger.RedeemCodeTTL
	}
	return s
}
