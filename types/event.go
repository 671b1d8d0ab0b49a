package types

import (
	"errors"
	"time"
)

const (
	DisciplineOpenWater = "open_water"
	DisciplinePool      = "pool"
	DisciplineTriathlon = "triathlon"
	DisciplineSwimrun   = "swimrun"
	DisciplineAquathlon = "aquathlon"
)

const (
	SortDateAsc  = "asc"
	SortDateDesc = "desc"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidFilter = errors.New("invalid event filter")
)

// LocalizedText maps a locale code to the text in that language.
type LocalizedText map[string]string

// Get returns the text for locale, falling back to fallback and then to any
// non-empty value so an event never renders without a name.
func (t LocalizedText) Get(locale, fallback string) string {
	if v := t[locale]; v != "" {
		return v
	}
	if v := t[fallback]; v != "" {
		return v
	}
	for _, v := range t {
		if v != "" {
			return v
		}
	}
	return ""
}

type Location struct {
	City   string `json:"city" bson:"city"`
	Region string `json:"region" bson:"region"`
}

type Event struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	Name       LocalizedText `json:"name" bson:"name"`
	Date       time.Time     `json:"date" bson:"date"`
	Location   Location      `json:"location" bson:"location"`
	Discipline string        `json:"discipline" bson:"discipline"`
	Slug       string        `json:"slug,omitempty" bson:"slug,omitempty"`
}

// EventFilter narrows event queries. From is inclusive, To is exclusive.
type EventFilter struct {
	From       time.Time
	To         time.Time
	Discipline string
	Region     string
	City       string
	Sort       string
	Limit      int64
	Skip       int64
}

func (f EventFilter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return errors.Join(ErrInvalidFilter, errors.New("from must be before to"))
	}
	if f.Limit < 0 || f.Skip < 0 {
		return errors.Join(ErrInvalidFilter, errors.New("limit and skip must not be negative"))
	}
	switch f.Sort {
	case "", SortDateAsc, SortDateDesc:
	default:
		return errors.Join(ErrInvalidFilter, errors.New("unknown sort "+f.Sort))
	}
	return nil
}

type DisciplineCount struct {
	Discipline string `json:"discipline" bson:"_id"`
	Count      int64  `json:"count" bson:"count"`
}

// DateReport summarises how the events collection is spread over time.
type DateReport struct {
	Total    int64     `json:"total"`
	Past     int64     `json:"past"`
	Upcoming int64     `json:"upcoming"`
	Undated  int64     `json:"undated"`
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}
