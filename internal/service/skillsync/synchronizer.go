// Package skillsync reconciles provider-declared skills into the shared
// skill catalog. Sync jobs arrive through the task queue with at-least-once
// delivery, so every operation here must tolerate redelivery.
package skillsync

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/ykuchin/skillmarket/internal/domain"
	"github.com/ykuchin/skillmarket/internal/platform/logger"
	"github.com/ykuchin/skillmarket/internal/platform/metrics"
	"github.com/ykuchin/skillmarket/internal/store"
)

// Synchronizer folds skill titles into the catalog, one transaction per
// sync run. Titles already present are skipped, never errors, which makes
// redelivered jobs harmless.
type Synchronizer struct {
	factory store.Factory
	logger  *slog.Logger
}

// NewSynchronizer creates a Synchronizer backed by the given store factory.
func NewSynchronizer(factory store.Factory, log *slog.Logger) (*Synchronizer, error) {
	if factory == nil {
		return nil, errors.New("store factory cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Synchronizer{
		factory: factory,
		logger:  log.With(slog.String("component", "skill_synchronizer")),
	}, nil
}

// SyncSkills upserts each distinct title into the catalog inside a single
// transaction committed once at the end. The experience values are part of
// the provider profile, not the catalog, so they are ignored here. Returns
// how many rows were created and how many titles were already present.
func (s *Synchronizer) SyncSkills(ctx context.Context, skills map[string]int) (int, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(skills) == 0 {
		return 0, 0, nil
	}

	// Deterministic order keeps concurrent sync runs from deadlocking on
	// each other's row locks.
	titles := make([]string, 0, len(skills))
	for title := range skills {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	var created, skipped int
	err := store.WithUnitOfWork(ctx, s.factory, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, title := range titles {
			skill, err := domain.NewSkill(title)
			if err != nil {
				return err
			}

			inserted, err := uow.Skills().CreateIfAbsent(ctx, skill)
			if err != nil {
				return err
			}
			if inserted {
				created++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	metrics.ObserveSkillSync(created, skipped)
	log.Info("skill catalog synchronized",
		slog.Int("created", created),
		slog.Int("skipped", skipped))
	return created, skipped, nil
}
