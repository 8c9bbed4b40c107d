package domain

// SearchResult is a single item returned by the external search provider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchSummary is the bounded digest of one search round: several query
// phrasings issued, results concatenated and truncated. A zero value means
// "no information found" and is never treated as an error.
type SearchSummary struct {
	Summary     string
	ResultCount int
	QueryCount  int
	SourceCount int
}

func (s SearchSummary) Empty() bool {
	return s.ResultCount == 0 || s.Summary == ""
}
