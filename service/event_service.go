package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/tieubaoca/aquaevents/repository"
	"github.com/tieubaoca/aquaevents/types"
	"go.uber.org/zap"
)

type EventService interface {
	Upcoming(ctx context.Context, limit int64) ([]*types.Event, error)
	Search(ctx context.Context, filter types.EventFilter) ([]*types.Event, int64, error)
	GetBySlug(ctx context.Context, slug string) (*types.Event, error)
	Disciplines(ctx context.Context, filter types.EventFilter) ([]types.DisciplineCount, error)
	DateReport(ctx context.Context) (*types.DateReport, error)
	BackfillSlugs(ctx context.Context, dryRun bool) (map[string]string, error)
}

type eventService struct {
	repo          repository.EventRepo
	defaultLocale string
	now           func() time.Time
}

func NewEventService(repo repository.EventRepo, defaultLocale string) EventService {
	return newEventService(repo, defaultLocale, time.Now)
}

func newEventService(repo repository.EventRepo, defaultLocale string, now func() time.Time) *eventService {
	return &eventService{
		repo:          repo,
		defaultLocale: defaultLocale,
		now:           now,
	}
}

// startOfDay keeps events happening today in the upcoming list.
func (s *eventService) startOfDay() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func (s *eventService) Upcoming(ctx context.Context, limit int64) ([]*types.Event, error) {
	return s.repo.Find(ctx, types.EventFilter{
		From:  s.startOfDay(),
		Sort:  types.SortDateAsc,
		Limit: limit,
	})
}

func (s *eventService) Search(ctx context.Context, filter types.EventFilter) ([]*types.Event, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	events, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	countFilter := filter
	countFilter.Limit, countFilter.Skip = 0, 0
	total, err := s.repo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*types.Event, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, types.ErrEventNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *eventService) Disciplines(ctx context.Context, filter types.EventFilter) ([]types.DisciplineCount, error) {
	return s.repo.CountByDiscipline(ctx, filter)
}

func (s *eventService) DateReport(ctx context.Context) (*types.DateReport, error) {
	today := s.startOfDay()

	total, err := s.repo.Count(ctx, types.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	past, err := s.repo.Count(ctx, types.EventFilter{To: today})
	if err != nil {
		return nil, fmt.Errorf("count past events: %w", err)
	}
	upcoming, err := s.repo.Count(ctx, types.EventFilter{From: today})
	if err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	undated, err := s.repo.CountUndated(ctx)
	if err != nil {
		return nil, fmt.Errorf("count undated events: %w", err)
	}
	earliest, latest, err := s.repo.DateBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("date bounds: %w", err)
	}
	return &types.DateReport{
		Total:    total,
		Past:     past,
		Upcoming: upcoming,
		Undated:  undated,
		Earliest: earliest,
		Latest:   latest,
	}, nil
}

// BackfillSlugs gives every event without a slug one derived from its name
// in the default locale and its date. It returns the assigned slugs by event ID.
func (s *eventService) BackfillSlugs(ctx context.Context, dryRun bool) (map[string]string, error) {
	events, err := s.repo.Find(ctx, types.EventFilter{})
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool)
	for _, e := range events {
		if e.Slug != "" {
			taken[e.Slug] = true
		}
	}

	assigned := make(map[string]string)
	for _, e := range events {
		if e.Slug != "" {
			continue
		}
		candidate := EventSlug(e, s.defaultLocale)
		if candidate == "" {
			zap.L().Warn("event has no name to derive a slug from", zap.String("id", e.ID))
			continue
		}
		unique := candidate
		for i := 2; taken[unique]; i++ {
			unique = fmt.Sprintf("%s-%d", candidate, i)
		}
		taken[unique] = true
		assigned[e.ID] = unique

		if dryRun {
			continue
		}
		if err := s.repo.SetSlug(ctx, e.ID, unique); err != nil {
			if errors.Is(err, types.ErrEventNotFound) {
				zap.L().Warn("event disappeared during backfill", zap.String("id", e.ID))
				delete(assigned, e.ID)
				continue
			}
			return assigned, fmt.Errorf("set slug for %s: %w", e.ID, err)
		}
	}
	return assigned, nil
}

// EventSlug derives a URL slug such as "travesia-del-puerto-2026-07-12".
func EventSlug(e *types.Event, locale string) string {
	name := e.Name.Get(locale, locale)
	if name == "" {
		return ""
	}
	s := slug.MakeLang(name, locale)
	if !e.Date.IsZero() {
		s += "-" + e.Date.UTC().Format(time.DateOnly)
	}
	return s
}
