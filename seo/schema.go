package seo

import (
	"strings"
	"time"

	"github.com/tieubaoca/aquaevents/types"
)

const schemaContext = "https://schema.org"

// Slot identifiers for the structured-data blocks a page can carry.
const (
	SlotFAQ        = "faq-schema"
	SlotBreadcrumb = "breadcrumb-schema"
	SlotEvent      = "event-schema"
)

type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type SportsEvent struct {
	Context    string `json:"@context"`
	Type       string `json:"@type"`
	Name       string `json:"name"`
	StartDate  string `json:"startDate,omitempty"`
	Sport      string `json:"sport,omitempty"`
	Location   Place  `json:"location"`
	URL        string `json:"url"`
	InLanguage string `json:"inLanguage,omitempty"`
}

type Place struct {
	Type    string        `json:"@type"`
	Name    string        `json:"name"`
	Address PostalAddress `json:"address"`
}

type PostalAddress struct {
	Type            string `json:"@type"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

// NewFAQPage keeps entry order; an empty input yields an empty mainEntity array.
func NewFAQPage(entries []types.FAQEntry) FAQPage {
	questions := make([]Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, Question{
			Type: "Question",
			Name: e.Question,
			AcceptedAnswer: Answer{
				Type: "Answer",
				Text: e.Answer,
			},
		})
	}
	return FAQPage{
		Context:    schemaContext,
		Type:       "FAQPage",
		MainEntity: questions,
	}
}

// NewBreadcrumbList numbers items from 1 and makes each URL absolute against origin.
func NewBreadcrumbList(origin string, items []types.BreadcrumbItem) BreadcrumbList {
	elements := make([]ListItem, 0, len(items))
	for i, item := range items {
		elements = append(elements, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     item.Name,
			Item:     AbsoluteURL(origin, item.URL),
		})
	}
	return BreadcrumbList{
		Context:         schemaContext,
		Type:            "BreadcrumbList",
		ItemListElement: elements,
	}
}

var sportNames = map[string]string{
	types.DisciplineOpenWater: "Open water swimming",
	types.DisciplinePool:      "Swimming",
	types.DisciplineTriathlon: "Triathlon",
	types.DisciplineSwimrun:   "Swimrun",
	types.DisciplineAquathlon: "Aquathlon",
}

func NewSportsEvent(name, url, locale string, event *types.Event) SportsEvent {
	sport := sportNames[event.Discipline]
	if sport == "" {
		sport = event.Discipline
	}
	var startDate string
	if !event.Date.IsZero() {
		startDate = event.Date.UTC().Format(time.DateOnly)
	}
	placeName := strings.TrimSpace(strings.Join(nonEmpty(event.Location.City, event.Location.Region), ", "))
	return SportsEvent{
		Context:   schemaContext,
		Type:      "SportsEvent",
		Name:      name,
		StartDate: startDate,
		Sport:     sport,
		Location: Place{
			Type: "Place",
			Name: placeName,
			Address: PostalAddress{
				Type:            "PostalAddress",
				AddressLocality: event.Location.City,
				AddressRegion:   event.Location.Region,
				AddressCountry:  "ES",
			},
		},
		URL:        url,
		InLanguage: locale,
	}
}

// AbsoluteURL joins a fixed origin and a site-relative path.
func AbsoluteURL(origin, path string) string {
	origin = strings.TrimRight(origin, "/")
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
