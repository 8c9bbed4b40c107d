package ports

import (
	"context"

	"github.com/bnema/microcosmos/internal/domain"
)

// SearchProvider is the external web-search collaborator. An empty result
// list means "no information found"; callers must treat it as normal.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
