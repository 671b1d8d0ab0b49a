package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginateResponse struct {
	Total    int64       `json:"total"`
	Elements interface{} `json:"elements"`
	Page     int64       `json:"page"`
	Limit    int64       `json:"limit"`
}

// EventView is an event with its name resolved for one locale.
type EventView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Date       string   `json:"date"`
	Location   Location `json:"location"`
	Discipline string   `json:"discipline"`
	Slug       string   `json:"slug,omitempty"`
	URL        string   `json:"url,omitempty"`
}
