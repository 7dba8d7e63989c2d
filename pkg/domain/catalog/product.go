package catalog

// Product is one ranked result from the managed catalog search service.
type Product struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Categories   []string `json:"categories"`
	Price        string   `json:"price"`
	Availability string   `json:"availability"`
	URL          string   `json:"url"`
	Image        string   `json:"image"`
}
