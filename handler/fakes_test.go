package handler

import (
	"context"
	"errors"
	"time"

	"github.com/tieubaoca/aquaevents/types"
)

type fakeEventService struct {
	events     []*types.Event
	err        error
	lastFilter types.EventFilter
}

func (s *fakeEventService) Upcoming(ctx context.Context, limit int64) ([]*types.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	if int64(len(s.events)) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *fakeEventService) Search(ctx context.Context, filter types.EventFilter) ([]*types.Event, int64, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	var out []*types.Event
	for _, e := range s.events {
		if filter.Discipline != "" && e.Discipline != filter.Discipline {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if filter.Skip >= total {
		return []*types.Event{}, total, nil
	}
	out = out[filter.Skip:]
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (s *fakeEventService) GetBySlug(ctx context.Context, slug string) (*types.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, types.ErrEventNotFound
}

func (s *fakeEventService) Disciplines(ctx context.Context, filter types.EventFilter) ([]types.DisciplineCount, error) {
	if s.err != nil {
		return nil, s.err
	}
	counts := map[string]int64{}
	var order []string
	for _, e := range s.events {
		if counts[e.Discipline] == 0 {
			order = append(order, e.Discipline)
		}
		counts[e.Discipline]++
	}
	out := make([]types.DisciplineCount, 0, len(order))
	for _, d := range order {
		out = append(out, types.DisciplineCount{Discipline: d, Count: counts[d]})
	}
	return out, nil
}

func (s *fakeEventService) DateReport(ctx context.Context) (*types.DateReport, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeEventService) BackfillSlugs(ctx context.Context, dryRun bool) (map[string]string, error) {
	return nil, errors.New("not implemented")
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

func testEvents() []*types.Event {
	return []*types.Event{
		{
			ID:         "1",
			Name:       types.LocalizedText{"es": "Travesía del Puerto", "en": "Harbour Swim"},
			Date:       time.Date(2026, 7, 12, 9, 0, 0, 0, time.UTC),
			Location:   types.Location{City: "Santander", Region: "Cantabria"},
			Discipline: types.DisciplineOpenWater,
			Slug:       "travesia-del-puerto-2026-07-12",
		},
		{
			ID:         "2",
			Name:       types.LocalizedText{"es": "Trofeo de Invierno"},
			Date:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Location:   types.Location{City: "Madrid", Region: "Madrid"},
			Discipline: types.DisciplinePool,
			Slug:       "trofeo-de-invierno-2026-08-01",
		},
		{
			ID:         "3",
			Name:       types.LocalizedText{"es": "Triatlón Costa Verde"},
			Date:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			Location:   types.Location{City: "Gijón", Region: "Asturias"},
			Discipline: types.DisciplineTriathlon,
		},
	}
}
