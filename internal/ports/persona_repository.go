package ports

import (
	"context"

	"github.com/bnema/microcosmos/internal/domain"
)

// PersonaRepository loads persona identity documents by name. A missing
// document is reported with domain.ErrPersonaNotFound; callers substitute
// the built-in fallback profile instead of failing construction.
type PersonaRepository interface {
	Load(ctx context.Context, name string) (domain.PersonaProfile, error)
}
