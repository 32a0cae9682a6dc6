// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/okian/presale/internal/adapters/repository"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/ledger"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"
)

// Sentinel errors returned by the service, aliased from the domain types.
var (
	ErrUnknownCategory = types.ErrUnknownCategory
	ErrInvalidPrice    = types.ErrInvalidPrice
)

const defaultTokenPrice = 4

// Service owns the package ledgers and the global parameters and derives
// every table on read.
type Service struct {
	mu sync.RWMutex

	// State
	tokenPrice float64
	ledgers    map[types.Category]*ledger.Ledger
	bonuses    *bonus.Registry
	schedule   *presale.Schedule

	// Collaborators
	store  repository.Store
	clock  func() time.Time
	logger logger.Logger

	seeds   map[types.Category][]ledger.Option
	started bool
	ready   bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence collaborator used for rehydration and
// write-back. Without a store the state lives in memory only.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithTokenPrice sets the initial token price.
func WithTokenPrice(price float64) Option {
	return func(s *Service) {
		if price >= 0 && !math.IsInf(price, 0) && !math.IsNaN(price) {
			s.tokenPrice = price
		}
	}
}

// WithCategorySeed replaces the seed columns and growth policies of a
// category. Options are applied on top of the built-in seed.
func WithCategorySeed(c types.Category, opts ...ledger.Option) Option {
	return func(s *Service) {
		if c.Valid() {
			s.seeds[c] = append(s.seeds[c], opts...)
		}
	}
}

// WithClock sets the time source used to date new lock periods.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// New constructs a Service seeded with defaults. State is usable right
// away; Start rehydrates it from the store.
func New(opts ...Option) *Service {
	s := &Service{
		tokenPrice: defaultTokenPrice,
		bonuses:    bonus.NewRegistry(bonus.Defaults()),
		schedule:   presale.NewSchedule(presale.Defaults()),
		clock:      time.Now,
		seeds:      defaultSeeds(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.ledgers = make(map[types.Category]*ledger.Ledger, len(s.seeds))
	for _, c := range types.Categories() {
		s.ledgers[c] = ledger.New(c.Kind().Fields(), s.seeds[c]...)
	}
	return s
}

// Start rehydrates persisted state. A missing or unreadable key keeps the
// seeded value.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting presale service...")

	if s.store != nil {
		if err := s.rehydrate(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.ready = true

	metrics.UpdateTokenPrice(s.tokenPrice)
	for _, c := range types.Categories() {
		metrics.UpdateTierCount(string(c), s.ledgers[c].Len())
		metrics.UpdateBonusPercent(string(c), s.bonuses.Bonus(c))
	}

	s.logger.Info(ctx, "presale service started",
		logger.Float64("tbcPrice", s.tokenPrice),
		logger.Bool("persistent", s.store != nil),
		logger.Int("bonusEvents", len(s.bonuses.Entries())),
		logger.Int("presaleEvents", len(s.schedule.List())),
	)
	return nil
}

func (s *Service) rehydrate(ctx context.Context) error {
	load := func(key string, dst any) bool {
		found, err := s.store.Get(ctx, key, dst)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false
			}
			metrics.RecordErrorByComponent("store", "rehydrate")
			s.logger.Warn(ctx, "ignoring persisted value",
				logger.String("key", key),
				logger.Error(err),
			)
			return false
		}
		return found
	}

	var price float64
	if load(repository.KeyTokenPrice, &price) && price >= 0 {
		s.tokenPrice = price
	}
	for _, c := range types.Categories() {
		var snap ledger.Snapshot
		if load(string(c), &snap) {
			s.ledgers[c].Restore(snap)
		}
	}
	var entries []bonus.Entry
	if load(repository.KeyEvents, &entries) {
		s.bonuses.Replace(entries)
	}
	var events []presale.Event
	if load(repository.KeyPresaleEvents, &events) {
		s.schedule.Replace(events)
	}
	return ctx.Err()
}

// Stop shuts the service down and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping presale service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	}

	s.started = false
	s.ready = false
	s.logger.Info(context.Background(), "presale service stopped")
}

// Ready reports whether rehydration has completed.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiers := make(map[string]int, len(s.ledgers))
	for c, l := range s.ledgers {
		tiers[string(c)] = l.Len()
	}
	return map[string]interface{}{
		"started":       s.started,
		"ready":         s.ready,
		"persistent":    s.store != nil,
		"tbcPrice":      s.tokenPrice,
		"tiers":         tiers,
		"bonusEvents":   len(s.bonuses.Entries()),
		"presaleEvents": len(s.schedule.List()),
	}
}

// persist writes one key back. The in-memory state stays authoritative: a
// failed write is logged and counted, never returned.
func (s *Service) persist(ctx context.Context, key string, value any) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		metrics.RecordErrorByComponent("store", "write")
		s.log().Error(ctx, "failed to persist state",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}
