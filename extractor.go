package tosfetch

// Extraction holds the text isolated from a page's markup.
type Extraction struct {
	// Title is the page title, if the markup has one.
	Title string

	// Text is the cleaned main-content text. It may be empty.
	Text string
}

// Extractor isolates the main content of a page, dropping navigation,
// banners and script/style noise.
type Extractor interface {
	// Extract parses markup and returns the cleaned main-content text.
	// An empty Text is not an error; quality is judged by the caller.
	Extract(markup string) (*Extraction, error)
}
