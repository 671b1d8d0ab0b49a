package types

// EventQuery is the query-string form of an EventFilter.
type EventQuery struct {
	Discipline string `form:"discipline"`
	Region     string `form:"region"`
	City       string `form:"city"`
	From       string `form:"from"`
	To         string `form:"to"`
	Sort       string `form:"sort"`
	Page       int64  `form:"page"`
	Limit      int64  `form:"limit"`
	Lang       string `form:"lang"`
}
