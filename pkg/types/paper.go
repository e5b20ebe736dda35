package types

// Paper is one record of the static paper dataset.
type Paper struct {
	Index int      `json:"index"`
	Title string   `json:"title"`
	Link  string   `json:"link"`
	Tags  []string `json:"tags,omitempty"`
}

type ScrapeResult struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImageLinks []string `json:"imageLinks"`
}

type PaperDetail struct {
	ScrapeResult
	CSVTitle         string      `json:"csvTitle"`
	Link             string      `json:"link"`
	Index            int         `json:"index"`
	Total            int         `json:"total"`
	Summary          string      `json:"summary"`
	SummaryAvailable bool        `json:"summaryAvailable"`
	Demographic      Demographic `json:"demographic"`
	Saved            bool        `json:"saved"`
}
