package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/okian/presale/internal/adapters/repository"
	"github.com/okian/presale/internal/domain/commission"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/internal/domain/voucher"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"
)

// TokenPrice returns the shared USD price of one TBC.
func (s *Service) TokenPrice(_ context.Context) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenPrice
}

// SetTokenPrice changes the price used by every category.
func (s *Service) SetTokenPrice(ctx context.Context, price float64) error {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokenPrice = price
	metrics.UpdateTokenPrice(price)
	for _, c := range types.Categories() {
		metrics.RecordMutation(string(c), "set_token_price")
	}
	s.persist(ctx, repository.KeyTokenPrice, price)
	s.log().Info(ctx, "token price updated", logger.Float64("tbcPrice", price))
	return nil
}

// Table derives the current table of category c.
func (s *Service) Table(_ context.Context, c types.Category) (types.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.ledger(c); err != nil {
		return types.Table{}, err
	}
	return s.derive(c), nil
}

// Tables derives every category table in display order.
func (s *Service) Tables(_ context.Context) []types.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Table, 0, len(s.ledgers))
	for _, c := range types.Categories() {
		out = append(out, s.derive(c))
	}
	return out
}

// UpdateCell replaces one base input. Unparseable input is stored as 0 and
// an out-of-range index leaves the ledger unchanged.
func (s *Service) UpdateCell(ctx context.Context, c types.Category, field string, index int, raw string) (types.Table, error) {
	return s.mutate(ctx, c, "update_cell", func(l *ledger.Ledger) error {
		return l.UpdateCell(field, index, raw)
	})
}

// AddPackage appends one tier to category c.
func (s *Service) AddPackage(ctx context.Context, c types.Category) (types.Table, error) {
	return s.mutate(ctx, c, "add_package", func(l *ledger.Ledger) error {
		l.AddPackage()
		return nil
	})
}

// RemovePackage removes tier index (0-based) from category c. A negative
// index removes the last tier; an index past the end is a no-op.
func (s *Service) RemovePackage(ctx context.Context, c types.Category, index int) (types.Table, error) {
	return s.mutate(ctx, c, "remove_package", func(l *ledger.Ledger) error {
		l.RemovePackage(index)
		return nil
	})
}

// ResizeTiers grows or shrinks category c to count tiers.
func (s *Service) ResizeTiers(ctx context.Context, c types.Category, count int) (types.Table, error) {
	return s.mutate(ctx, c, "resize", func(l *ledger.Ledger) error {
		l.Resize(count)
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, c types.Category, op string, fn func(*ledger.Ledger) error) (types.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.ledger(c)
	if err != nil {
		return types.Table{}, err
	}
	if err := fn(l); err != nil {
		return types.Table{}, err
	}

	metrics.RecordMutation(string(c), op)
	metrics.UpdateTierCount(string(c), l.Len())
	s.persist(ctx, string(c), l.Snapshot())
	s.log().Debug(ctx, "ledger mutated",
		logger.String("category", string(c)),
		logger.String("op", op),
		logger.Int("tiers", l.Len()),
	)
	return s.derive(c), nil
}

func (s *Service) ledger(c types.Category) (*ledger.Ledger, error) {
	l, ok := s.ledgers[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	return l, nil
}

// derive recomputes the rows of c. Callers hold at least the read lock.
func (s *Service) derive(c types.Category) types.Table {
	start := time.Now()
	l := s.ledgers[c]
	t := types.Table{
		Category:     c,
		Kind:         c.Kind(),
		TokenPrice:   s.tokenPrice,
		BonusPercent: s.bonuses.Bonus(c),
		Inputs:       l.Snapshot(),
	}
	switch t.Kind {
	case types.KindCommission:
		t.CommissionRows = commission.Derive(
			l.Column(types.FieldBuyerCommissionAmount),
			l.Column(types.FieldBuyerStandardCommissionPercent),
			l.Column(types.FieldPackageDiscountPercent),
			commission.Params{TokenPrice: t.TokenPrice, BonusPercent: t.BonusPercent},
		)
	default:
		t.VoucherRows = voucher.Derive(
			l.Column(types.FieldVoucherAmount),
			l.Column(types.FieldVoucherPercent),
			voucher.Params{TokenPrice: t.TokenPrice, BonusPercent: t.BonusPercent},
		)
	}
	metrics.RecordTableRecompute(string(c), float64(time.Since(start).Microseconds())/1000)
	return t
}
