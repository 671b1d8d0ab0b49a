package types

// FAQEntry is one question/answer pair. Order within a page is display order.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BreadcrumbItem is one step of a navigation trail; URL is site-relative.
type BreadcrumbItem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Alternate struct {
	Hreflang string
	Href     string
}
