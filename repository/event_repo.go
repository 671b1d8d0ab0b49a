package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tieubaoca/aquaevents/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type EventRepo interface {
	Find(ctx context.Context, filter types.EventFilter) ([]*types.Event, error)
	Count(ctx context.Context, filter types.EventFilter) (int64, error)
	CountUndated(ctx context.Context) (int64, error)
	CountByDiscipline(ctx context.Context, filter types.EventFilter) ([]types.DisciplineCount, error)
	DateBounds(ctx context.Context) (time.Time, time.Time, error)
	GetBySlug(ctx context.Context, slug string) (*types.Event, error)
	SetSlug(ctx context.Context, id, slug string) error
	EnsureIndexes(ctx context.Context) error
}

type eventRepo struct {
	collection *mongo.Collection
}

func NewEventRepo(collection *mongo.Collection) EventRepo {
	return &eventRepo{
		collection: collection,
	}
}

func (r *eventRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "discipline", Value: 1},
				{Key: "date", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "slug", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}
	return nil
}

func (r *eventRepo) Find(ctx context.Context, filter types.EventFilter) ([]*types.Event, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	cursor, err := r.collection.Find(ctx, buildEventFilter(filter), buildFindOptions(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]*types.Event, 0)
	for cursor.Next(ctx) {
		var event types.Event
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}

func (r *eventRepo) Count(ctx context.Context, filter types.EventFilter) (int64, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	return r.collection.CountDocuments(ctx, buildEventFilter(filter))
}

func (r *eventRepo) CountUndated(ctx context.Context) (int64, error) {
	// {date: null} matches both a missing and a null date.
	return r.collection.CountDocuments(ctx, bson.D{{Key: "date", Value: nil}})
}

func (r *eventRepo) CountByDiscipline(ctx context.Context, filter types.EventFilter) ([]types.DisciplineCount, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildEventFilter(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$discipline"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	counts := make([]types.DisciplineCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *eventRepo) DateBounds(ctx context.Context) (time.Time, time.Time, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "date", Value: bson.D{{Key: "$type", Value: "date"}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "min", Value: bson.D{{Key: "$min", Value: "$date"}}},
			{Key: "max", Value: bson.D{{Key: "$max", Value: "$date"}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var bounds []struct {
		Min time.Time `bson:"min"`
		Max time.Time `bson:"max"`
	}
	if err := cursor.All(ctx, &bounds); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(bounds) == 0 {
		return time.Time{}, time.Time{}, nil
	}
	return bounds[0].Min.UTC(), bounds[0].Max.UTC(), nil
}

func (r *eventRepo) GetBySlug(ctx context.Context, slug string) (*types.Event, error) {
	var event types.Event
	err := r.collection.FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) SetSlug(ctx context.Context, id, slug string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: documentID(id)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "slug", Value: slug}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return types.ErrEventNotFound
	}
	return nil
}

// documentID turns a hex string back into an ObjectID; imported collections
// may also use plain string IDs.
func documentID(id string) any {
	if objID, err := bson.ObjectIDFromHex(id); err == nil {
		return objID
	}
	return id
}

func buildEventFilter(f types.EventFilter) bson.D {
	filter := bson.D{}
	if !f.From.IsZero() || !f.To.IsZero() {
		dateRange := bson.D{}
		if !f.From.IsZero() {
			dateRange = append(dateRange, bson.E{Key: "$gte", Value: f.From})
		}
		if !f.To.IsZero() {
			dateRange = append(dateRange, bson.E{Key: "$lt", Value: f.To})
		}
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	if f.Discipline != "" {
		filter = append(filter, bson.E{Key: "discipline", Value: f.Discipline})
	}
	if f.Region != "" {
		filter = append(filter, bson.E{Key: "location.region", Value: exactFold(f.Region)})
	}
	if f.City != "" {
		filter = append(filter, bson.E{Key: "location.city", Value: exactFold(f.City)})
	}
	return filter
}

func exactFold(s string) bson.Regex {
	return bson.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

func buildFindOptions(f types.EventFilter) *options.FindOptionsBuilder {
	direction := 1
	if f.Sort == types.SortDateDesc {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: direction},
		{Key: "_id", Value: direction},
	})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	return opts
}
