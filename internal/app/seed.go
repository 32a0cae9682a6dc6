package service

import (
	"fmt"

	"github.com/okian/presale/internal/config"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/internal/domain/voucher"
)

// defaultSeeds mirrors the defaults of config.New.
func defaultSeeds() map[types.Category][]ledger.Option {
	return map[types.Category][]ledger.Option{
		types.BuyerCommission: {
			ledger.WithColumn(types.FieldBuyerCommissionAmount, 100, 200, 300, 400, 500),
			ledger.WithColumn(types.FieldBuyerStandardCommissionPercent, 1, 2, 3, 4, 5),
			ledger.WithColumn(types.FieldPackageDiscountPercent, 0, 4, 9, 16, 25),
			ledger.WithGrowth(types.FieldBuyerCommissionAmount, ledger.Step(100)),
			ledger.WithGrowth(types.FieldBuyerStandardCommissionPercent, ledger.Step(1)),
			ledger.WithGrowth(types.FieldPackageDiscountPercent, ledger.Square()),
		},
		types.BuyerVoucher:  defaultVoucherSeed(),
		types.AgencyVoucher: defaultVoucherSeed(),
	}
}

func defaultVoucherSeed() []ledger.Option {
	return []ledger.Option{
		ledger.WithColumn(types.FieldVoucherAmount, 300, 600, 1200, 2400, 4800),
		ledger.WithColumn(types.FieldVoucherPercent, 1, 2, 3, 4, 5),
		ledger.WithGrowth(types.FieldVoucherAmount, ledger.Scale(2)),
		ledger.WithGrowth(types.FieldVoucherPercent, ledger.Step(1)),
	}
}

// OptionsFromConfig translates the seed and growth settings of cfg into
// service options. Seed lists are expected to be filled (config.Load does).
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	commission, err := commissionSeed(cfg.BuyerCommission)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithTokenPrice(cfg.TokenPrice), commission}
	for c, vc := range map[types.Category]config.VoucherConfig{
		types.BuyerVoucher:  cfg.BuyerVoucher,
		types.AgencyVoucher: cfg.AgencyVoucher,
	} {
		opt, err := voucherSeed(c, vc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func commissionSeed(cc config.CommissionConfig) (Option, error) {
	discount, err := ledger.ParseGrowth(cc.DiscountGrowth, cc.DiscountStep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", types.BuyerCommission, err)
	}
	return WithCategorySeed(types.BuyerCommission,
		ledger.WithColumn(types.FieldBuyerCommissionAmount, cc.Amounts...),
		ledger.WithColumn(types.FieldBuyerStandardCommissionPercent, cc.StandardPercents...),
		ledger.WithColumn(types.FieldPackageDiscountPercent, cc.DiscountPercents...),
		ledger.WithGrowth(types.FieldBuyerCommissionAmount, ledger.Step(cc.AmountStep)),
		ledger.WithGrowth(types.FieldBuyerStandardCommissionPercent, ledger.Step(cc.StandardPercentStep)),
		ledger.WithGrowth(types.FieldPackageDiscountPercent, discount),
	), nil
}

func voucherSeed(c types.Category, vc config.VoucherConfig) (Option, error) {
	strategy, err := voucher.ParseStrategy(vc.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	factor := vc.GrowthFactor
	if factor == 0 {
		factor = 2
	}

	amounts := vc.Amounts
	var growth ledger.Growth
	switch strategy {
	case voucher.StrategyExplicit:
		growth = ledger.Step(vc.AmountStep)
	case voucher.StrategySeries:
		amounts = voucher.Series(vc.BaseAmount, factor, vc.TierCount)
		growth = ledger.Series(vc.BaseAmount, factor)
	default:
		growth = ledger.Scale(factor)
	}

	percents := append([]float64(nil), vc.Percents...)
	if strategy == voucher.StrategySeries {
		// The series sets the tier count; percents follow it.
		if len(percents) > len(amounts) {
			percents = percents[:len(amounts)]
		}
		step := ledger.Step(vc.PercentStep)
		for len(percents) < len(amounts) {
			percents = append(percents, step.Next(percents))
		}
	}

	return WithCategorySeed(c,
		ledger.WithColumn(types.FieldVoucherAmount, amounts...),
		ledger.WithColumn(types.FieldVoucherPercent, percents...),
		ledger.WithGrowth(types.FieldVoucherAmount, growth),
		ledger.WithGrowth(types.FieldVoucherPercent, ledger.Step(vc.PercentStep)),
	), nil
}
