package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tieubaoca/aquaevents/database"
	"github.com/tieubaoca/aquaevents/repository"
	"github.com/tieubaoca/aquaevents/service"
	"github.com/tieubaoca/aquaevents/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

// eventStore is an open connection to the events collection.
type eventStore struct {
	client  *mongo.Client
	repo    repository.EventRepo
	service service.EventService
}

func openEventStore(ctx context.Context) (*eventStore, error) {
	timeout := time.Duration(cfg.Database.TimeoutSeconds) * time.Second
	client, err := database.NewMongoClient(ctx, cfg.MongoDBURI, timeout)
	if err != nil {
		return nil, err
	}
	collection := client.Database(cfg.Database.Name).Collection(cfg.Database.EventsCollection)
	repo := repository.NewEventRepo(collection)
	log.Debug("opened events collection",
		zap.String("database", cfg.Database.Name),
		zap.String("collection", cfg.Database.EventsCollection),
	)
	return &eventStore{
		client:  client,
		repo:    repo,
		service: service.NewEventService(repo, cfg.Site.DefaultLocale),
	}, nil
}

func (s *eventStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		log.Warn("failed to disconnect from MongoDB", zap.Error(err))
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func eventRows(events []*types.Event, locale string) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			formatDate(e.Date),
			e.Name.Get(locale, locale),
			e.Discipline,
			e.Location.City,
			e.Location.Region,
			e.Slug,
		})
	}
	return rows
}

var eventHeaders = []string{"Date", "Name", "Discipline", "City", "Region", "Slug"}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateOnly)
}
