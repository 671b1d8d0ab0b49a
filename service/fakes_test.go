package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tieubaoca/aquaevents/types"
)

// fakeEventRepo is an in-memory EventRepo honouring the filter semantics of
// the MongoDB implementation.
type fakeEventRepo struct {
	mu     sync.Mutex
	events []*types.Event
	err    error
}

func (r *fakeEventRepo) match(f types.EventFilter) []*types.Event {
	out := make([]*types.Event, 0)
	for _, e := range r.events {
		if !f.From.IsZero() && (e.Date.IsZero() || e.Date.Before(f.From)) {
			continue
		}
		if !f.To.IsZero() && (e.Date.IsZero() || !e.Date.Before(f.To)) {
			continue
		}
		if f.Discipline != "" && e.Discipline != f.Discipline {
			continue
		}
		if f.Region != "" && !strings.EqualFold(e.Location.Region, f.Region) {
			continue
		}
		if f.City != "" && !strings.EqualFold(e.Location.City, f.City) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Sort == types.SortDateDesc {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (r *fakeEventRepo) Find(ctx context.Context, f types.EventFilter) ([]*types.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.match(f)
	if f.Skip > 0 {
		out = out[min(int(f.Skip), len(out)):]
	}
	if f.Limit > 0 && int(f.Limit) < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeEventRepo) Count(ctx context.Context, f types.EventFilter) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.match(f))), nil
}

func (r *fakeEventRepo) CountUndated(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.Date.IsZero() {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) CountByDiscipline(ctx context.Context, f types.EventFilter) ([]types.DisciplineCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range r.match(f) {
		counts[e.Discipline]++
	}
	out := make([]types.DisciplineCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, types.DisciplineCount{Discipline: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Discipline < out[j].Discipline
	})
	return out, nil
}

func (r *fakeEventRepo) DateBounds(ctx context.Context) (time.Time, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lo, hi time.Time
	for _, e := range r.events {
		if e.Date.IsZero() {
			continue
		}
		if lo.IsZero() || e.Date.Before(lo) {
			lo = e.Date
		}
		if e.Date.After(hi) {
			hi = e.Date
		}
	}
	return lo, hi, nil
}

func (r *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*types.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, types.ErrEventNotFound
}

func (r *fakeEventRepo) SetSlug(ctx context.Context, id, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Slug = slug
			return nil
		}
	}
	return types.ErrEventNotFound
}

func (r *fakeEventRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

// fakeTranslator prefixes every field with the target locale.
type fakeTranslator struct {
	mu      sync.Mutex
	calls   map[string]int
	failFor map[string]error
}

func (f *fakeTranslator) TranslateFAQ(ctx context.Context, source, target string, entries []types.FAQEntry) ([]types.FAQEntry, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[target]++
	f.mu.Unlock()

	if err := f.failFor[target]; err != nil {
		return nil, err
	}
	out := make([]types.FAQEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.FAQEntry{Question: target + ":" + e.Question, Answer: target + ":" + e.Answer})
	}
	return out, nil
}
