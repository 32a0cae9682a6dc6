// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Empty seed lists mean "use the built-in seed" and are filled in by Load.
// - External errors are wrapped with this package's sentinel errors.
package config

import "strings"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, additionally writes logs to a rotating file.
	LogFile LogFileConfig `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorePath is the LevelDB directory. Empty keeps state in memory.
	StorePath string `koanf:"store_path"`

	// TokenPrice is the initial USD price of one TBC.
	TokenPrice float64 `koanf:"token_price"`

	// DefaultLocale is used when no Accept-Language entry matches.
	DefaultLocale string `koanf:"default_locale"`

	// CORSOrigins lists the origins allowed to call /api. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`

	Auth    AuthConfig    `koanf:"auth"`
	Metrics MetricsConfig `koanf:"metrics"`

	BuyerCommission CommissionConfig `koanf:"buyer_commission"`
	BuyerVoucher    VoucherConfig    `koanf:"buyer_voucher"`
	AgencyVoucher   VoucherConfig    `koanf:"agency_voucher"`
}

// LogFileConfig configures lumberjack rotation.
type LogFileConfig struct {
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// AuthConfig configures the single admin account and its session cookie.
type AuthConfig struct {
	Enabled           bool   `koanf:"enabled"`
	JWTSecret         string `koanf:"jwt_secret"`
	AdminIdentifier   string `koanf:"admin_identifier"`
	AdminPasswordHash string `koanf:"admin_password_hash"`
	SessionTTLHours   int    `koanf:"session_ttl_hours"`
	CookieName        string `koanf:"cookie_name"`
	// SecureCookie marks the session cookie Secure; enable behind TLS.
	SecureCookie bool `koanf:"secure_cookie"`
}

// MetricsConfig configures the Prometheus exposition.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
	// RefreshSeconds is the system gauge refresh period.
	RefreshSeconds int `koanf:"refresh_seconds"`
	// Labels are attached to every series, e.g. {"instance": "presale-1"}.
	Labels map[string]string `koanf:"labels"`
	// LatencyBuckets override the histogram buckets, in milliseconds.
	LatencyBuckets []float64 `koanf:"latency_buckets"`
}

// CommissionConfig seeds the buyer commission ledger.
type CommissionConfig struct {
	Amounts          []float64 `koanf:"amounts"`
	StandardPercents []float64 `koanf:"standard_percents"`
	DiscountPercents []float64 `koanf:"discount_percents"`

	// AmountStep is added to the last amount when a tier is appended.
	AmountStep float64 `koanf:"amount_step"`
	// StandardPercentStep is added to the last standard percent.
	StandardPercentStep float64 `koanf:"standard_percent_step"`

	// DiscountGrowth is square, step, scale or fixed; DiscountStep is the
	// delta, factor or value the last three use.
	DiscountGrowth string  `koanf:"discount_growth"`
	DiscountStep   float64 `koanf:"discount_step"`
}

// VoucherConfig seeds a voucher ledger.
type VoucherConfig struct {
	// Strategy is explicit, doubling or series.
	Strategy string    `koanf:"strategy"`
	Amounts  []float64 `koanf:"amounts"`
	Percents []float64 `koanf:"percents"`

	// BaseAmount, GrowthFactor and TierCount drive the series strategy.
	// GrowthFactor is also the multiplier of the doubling strategy.
	BaseAmount   float64 `koanf:"base_amount"`
	GrowthFactor float64 `koanf:"growth_factor"`
	TierCount    int     `koanf:"tier_count"`

	// AmountStep is the increment of the explicit strategy.
	AmountStep float64 `koanf:"amount_step"`
	// PercentStep is added to the last percent when a tier is appended.
	PercentStep float64 `koanf:"percent_step"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		TokenPrice:    4,
		DefaultLocale: "en",
		LogFile: LogFileConfig{
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Auth: AuthConfig{
			Enabled:         false,
			AdminIdentifier: "admin",
			SessionTTLHours: 24 * 7,
			CookieName:      "token",
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			RefreshSeconds: 10,
		},
		BuyerCommission: CommissionConfig{
			AmountStep:          100,
			StandardPercentStep: 1,
			DiscountGrowth:      "square",
		},
		BuyerVoucher:  defaultVoucher(),
		AgencyVoucher: defaultVoucher(),
	}
}

func defaultVoucher() VoucherConfig {
	return VoucherConfig{
		Strategy:     "doubling",
		BaseAmount:   300,
		GrowthFactor: 2,
		TierCount:    5,
		AmountStep:   300,
		PercentStep:  1,
	}
}

// Built-in seed lists, applied when the configuration leaves them empty.
var (
	seedCommissionAmounts  = []float64{100, 200, 300, 400, 500}
	seedStandardPercents   = []float64{1, 2, 3, 4, 5}
	seedDiscountPercents   = []float64{0, 4, 9, 16, 25}
	seedVoucherAmounts     = []float64{300, 600, 1200, 2400, 4800}
	seedVoucherPercents    = []float64{1, 2, 3, 4, 5}
	defaultSupportedLocale = "en"
)

// applySeeds fills empty seed lists with the built-in values.
func (c *Config) applySeeds() {
	if len(c.BuyerCommission.Amounts) == 0 {
		c.BuyerCommission.Amounts = clone(seedCommissionAmounts)
	}
	if len(c.BuyerCommission.StandardPercents) == 0 {
		c.BuyerCommission.StandardPercents = clone(seedStandardPercents)
	}
	if len(c.BuyerCommission.DiscountPercents) == 0 {
		c.BuyerCommission.DiscountPercents = clone(seedDiscountPercents)
	}
	for _, v := range []*VoucherConfig{&c.BuyerVoucher, &c.AgencyVoucher} {
		if len(v.Amounts) == 0 && !strings.EqualFold(v.Strategy, "series") {
			v.Amounts = clone(seedVoucherAmounts)
		}
		if len(v.Percents) == 0 {
			v.Percents = clone(seedVoucherPercents)
		}
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = defaultSupportedLocale
	}
}

func clone(in []float64) []float64 {
	return append([]float64(nil), in...)
}
