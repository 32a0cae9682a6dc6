package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/voucher"
)

const (
	envPrefix  = "PRESALE_"
	envFileVar = "PRESALE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PRESALE_CONFIG is set
//  3. env (prefix PRESALE_, "__" separates nested keys)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PRESALE_TOKEN_PRICE -> token_price, PRESALE_AUTH__JWT_SECRET -> auth.jwt_secret.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.applySeeds()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.TokenPrice < 0 {
		return fmt.Errorf("%w: token_price must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := ledger.ParseGrowth(c.BuyerCommission.DiscountGrowth, c.BuyerCommission.DiscountStep); err != nil {
		return fmt.Errorf("%w: buyer_commission: %w", ErrInvalidConfig, err)
	}
	for name, v := range map[string]VoucherConfig{
		"buyer_voucher":  c.BuyerVoucher,
		"agency_voucher": c.AgencyVoucher,
	} {
		strategy, err := voucher.ParseStrategy(v.Strategy)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, name, err)
		}
		if strategy == voucher.StrategySeries && v.TierCount < 0 {
			return fmt.Errorf("%w: %s: tier_count must not be negative", ErrInvalidConfig, name)
		}
	}
	if c.Metrics.RefreshSeconds < 0 {
		return fmt.Errorf("%w: metrics.refresh_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required when auth is enabled", ErrInvalidConfig)
	}
	return nil
}
