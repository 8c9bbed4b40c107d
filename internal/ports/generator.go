package ports

import "context"

// Generator is one LLM call with one credential secret. Implementations
// wrap provider errors with domain.WrapProviderError so the rotation
// controller can classify them without consulting message strings.
type Generator interface {
	Generate(ctx context.Context, secret, prompt string) (string, error)
}
