// Package file loads persona documents from a directory of JSON or TOML
// character files, one document per persona.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

type Repository struct {
	dir string
}

var _ ports.PersonaRepository = (*Repository)(nil)

func NewRepository(dir string) (*Repository, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve persona directory: %w", err)
	}

	return &Repository{dir: filepath.Clean(absDir)}, nil
}

// Load reads <dir>/<name>.json or <dir>/<name>.toml, JSON taking
// precedence. A missing document reports domain.ErrPersonaNotFound so the
// caller can substitute the built-in fallback profile.
func (r *Repository) Load(ctx context.Context, name string) (domain.PersonaProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.PersonaProfile{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.PersonaProfile{}, fmt.Errorf("persona name is empty: %w", domain.ErrPersonaNotFound)
	}

	for _, ext := range []string{".json", ".toml"} {
		path := filepath.Join(r.dir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return domain.PersonaProfile{}, fmt.Errorf("read persona document: %w", err)
		}

		schema, err := decode(data, ext)
		if err != nil {
			return domain.PersonaProfile{}, fmt.Errorf("decode persona document %s: %w", filepath.Base(path), err)
		}

		profile := fromSchema(schema)
		profile.ApplyDefaults()
		return profile, nil
	}

	return domain.PersonaProfile{}, fmt.Errorf("persona %q: %w", name, domain.ErrPersonaNotFound)
}

func decode(data []byte, ext string) (profileSchema, error) {
	var schema profileSchema
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &schema); err != nil {
			return profileSchema{}, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &schema); err != nil {
			return profileSchema{}, err
		}
	default:
		return profileSchema{}, fmt.Errorf("unsupported persona format %q", ext)
	}

	return schema, nil
}

func fromSchema(schema profileSchema) domain.PersonaProfile {
	profile := domain.PersonaProfile{
		Name:      schema.Name,
		Bio:       schema.Bio,
		Lore:      schema.Lore,
		Knowledge: schema.Knowledge,
	}
	if schema.Style != nil {
		profile.Style.Chat = schema.Style.Chat
	}
	return profile
}
