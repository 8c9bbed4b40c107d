package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

const (
	defaultResultLimit = 5
	// Upper bound on the concatenated digest handed to later stages. The
	// final prompt truncates again, this only keeps memory sane.
	summaryBudget   = 15000
	resultSeparator = "\n\n--- ARAMA SONUCU AYIRICI ---\n\n"
)

// DefaultQueryPhrasings are the phrasings issued per search round. "%s" is
// replaced with the stage-derived terms; entries without it run verbatim.
var DefaultQueryPhrasings = []string{
	"%s",
	"%s ekonomi",
	"%s siyaset",
	"son dakika Türkiye",
	"Türkiye gündem haberleri",
}

// SearchService fans one set of search terms out into several query
// phrasings and folds the results into a single bounded summary. Failures
// and empty result sets degrade to an empty summary, never an error.
type SearchService struct {
	provider  ports.SearchProvider
	limit     int
	phrasings []string
}

func NewSearchService(provider ports.SearchProvider, limit int, phrasings []string) *SearchService {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if len(phrasings) == 0 {
		phrasings = DefaultQueryPhrasings
	}

	return &SearchService{provider: provider, limit: limit, phrasings: phrasings}
}

// Gather runs every phrasing and returns the combined digest. A provider
// failure on one phrasing does not stop the others.
func (s *SearchService) Gather(ctx context.Context, terms string) domain.SearchSummary {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return domain.SearchSummary{}
	}

	var sections []string
	var summary domain.SearchSummary
	hosts := map[string]struct{}{}

	for _, query := range buildQueries(terms, s.phrasings) {
		if ctx.Err() != nil {
			break
		}

		results, err := s.provider.Search(ctx, query, s.limit)
		if err != nil || len(results) == 0 {
			continue
		}

		summary.QueryCount++
		summary.ResultCount += len(results)

		lines := make([]string, 0, len(results))
		for _, result := range results {
			lines = append(lines, formatResult(result))
			if host := hostOf(result.URL); host != "" {
				hosts[host] = struct{}{}
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	summary.SourceCount = len(hosts)
	summary.Summary = truncate(strings.Join(sections, resultSeparator), summaryBudget)

	return summary
}

// buildQueries expands the phrasing list for one set of terms, dropping
// duplicates while keeping order.
func buildQueries(terms string, phrasings []string) []string {
	queries := make([]string, 0, len(phrasings))
	seen := make(map[string]struct{}, len(phrasings))

	for _, phrasing := range phrasings {
		query := phrasing
		if strings.Contains(phrasing, "%s") {
			query = fmt.Sprintf(phrasing, terms)
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if _, ok := seen[query]; ok {
			continue
		}
		seen[query] = struct{}{}
		queries = append(queries, query)
	}

	return queries
}

func formatResult(result domain.SearchResult) string {
	line := result.Title
	if result.Snippet != "" {
		line += " — " + result.Snippet
	}
	if result.URL != "" {
		line += " (" + result.URL + ")"
	}
	return strings.TrimSpace(line)
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
