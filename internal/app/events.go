package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/presale/internal/adapters/repository"
	"github.com/okian/presale/internal/domain/bonus"
	"github.com/okian/presale/internal/domain/presale"
	"github.com/okian/presale/internal/domain/types"
	"github.com/okian/presale/pkg/logger"
	"github.com/okian/presale/pkg/metrics"
)

// Events returns the bonus entries in insertion order.
func (s *Service) Events(_ context.Context) []bonus.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bonuses.Entries()
}

// SetBonus changes the percent of the bonus entry with id.
func (s *Service) SetBonus(ctx context.Context, id int, percent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bonuses.SetPercent(id, percent); err != nil {
		return err
	}
	s.bonusesChanged(ctx, "set_bonus")
	return nil
}

// AddBonus appends a bonus entry for category c.
func (s *Service) AddBonus(ctx context.Context, name string, c types.Category, percent float64) (bonus.Entry, error) {
	if !c.Valid() {
		return bonus.Entry{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.bonuses.Add(strings.TrimSpace(name), c, percent)
	s.bonusesChanged(ctx, "add_bonus")
	return e, nil
}

// DeleteBonus removes the bonus entry with id.
func (s *Service) DeleteBonus(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bonuses.Delete(id); err != nil {
		return err
	}
	s.bonusesChanged(ctx, "delete_bonus")
	return nil
}

func (s *Service) bonusesChanged(ctx context.Context, op string) {
	for _, c := range types.Categories() {
		metrics.UpdateBonusPercent(string(c), s.bonuses.Bonus(c))
	}
	metrics.RecordMutation("events", op)
	entries := s.bonuses.Entries()
	s.persist(ctx, repository.KeyEvents, entries)
	s.log().Debug(ctx, "bonus events changed", logger.String("op", op), logger.Int("events", len(entries)))
}

// PresaleEvents returns the lock periods.
func (s *Service) PresaleEvents(_ context.Context) []presale.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule.List()
}

// AddPresaleEvent appends a lock period dated today.
func (s *Service) AddPresaleEvent(ctx context.Context) presale.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.schedule.Add(s.clock())
	s.scheduleChanged(ctx, "add_presale_event")
	return e
}

// UpdatePresaleEvent applies patch to the lock period with id.
func (s *Service) UpdatePresaleEvent(ctx context.Context, id int, patch presale.Patch) (presale.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.schedule.Update(id, patch)
	if err != nil {
		return presale.Event{}, err
	}
	s.scheduleChanged(ctx, "update_presale_event")
	return e, nil
}

// DeletePresaleEvent removes the lock period with id.
func (s *Service) DeletePresaleEvent(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.schedule.Delete(id); err != nil {
		return err
	}
	s.scheduleChanged(ctx, "delete_presale_event")
	return nil
}

func (s *Service) scheduleChanged(ctx context.Context, op string) {
	metrics.RecordMutation("presaleEvents", op)
	s.persist(ctx, repository.KeyPresaleEvents, s.schedule.List())
}
