// Package currency holds ISO 4217 currency codes and the registry of codes the
// service accepts on accounts and payments.
package currency

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrInvalidCurrencyCode is returned when a code is not three uppercase letters.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	// ErrUnsupportedCurrency is returned when a well-formed code is not registered.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// Code represents a currency code (e.g., "USD", "EUR").
type Code string

// Common currency codes.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
	CHF Code = "CHF"
	CAD Code = "CAD"
	AUD Code = "AUD"
	KWD Code = "KWD"
	EGP Code = "EGP"
)

// DefaultCurrency is the fallback currency code.
const DefaultCurrency = USD

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the currency code is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	return IsValidCurrencyFormat(string(c))
}

// IsValidCurrencyFormat reports whether s looks like an ISO 4217 code.
func IsValidCurrencyFormat(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

// Registry keeps the set of supported currencies. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	meta map[Code]Meta
}

// NewRegistry creates a registry seeded with the default currencies.
func NewRegistry() *Registry {
	r := &Registry{meta: make(map[Code]Meta)}
	defaults := map[Code]Meta{
		USD: {Decimals: 2, Symbol: "$"},
		EUR: {Decimals: 2, Symbol: "€"},
		GBP: {Decimals: 2, Symbol: "£"},
		JPY: {Decimals: 0, Symbol: "¥"},
		CHF: {Decimals: 2, Symbol: "CHF"},
		CAD: {Decimals: 2, Symbol: "C$"},
		AUD: {Decimals: 2, Symbol: "A$"},
		KWD: {Decimals: 3, Symbol: "د.ك"},
		EGP: {Decimals: 2, Symbol: "£"},
	}
	for code, m := range defaults {
		r.meta[code] = m
	}
	return r
}

// Register adds or updates a currency in the registry.
func (r *Registry) Register(code Code, meta Meta) error {
	if !code.IsValid() {
		return ErrInvalidCurrencyCode
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta[code] = meta
	return nil
}

// Get returns currency metadata for the given code.
func (r *Registry) Get(code Code) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meta[code]
	return m, ok
}

// IsSupported checks if a currency code is registered.
func (r *Registry) IsSupported(code Code) bool {
	_, ok := r.Get(code)
	return ok
}

// ListSupported returns all supported codes in lexical order.
func (r *Registry) ListSupported() []Code {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]Code, 0, len(r.meta))
	for c := range r.meta {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Validate returns nil when code is well formed and registered.
func (r *Registry) Validate(code Code) error {
	if !code.IsValid() {
		return ErrInvalidCurrencyCode
	}
	if !r.IsSupported(code) {
		return ErrUnsupportedCurrency
	}
	return nil
}

var global = NewRegistry()

// IsSupported checks the global registry.
func IsSupported(code Code) bool {
	return global.IsSupported(code)
}

// Register adds a currency to the global registry.
func Register(code Code, meta Meta) error {
	return global.Register(code, meta)
}

// Validate checks code against the global registry.
func Validate(code Code) error {
	return global.Validate(code)
}
