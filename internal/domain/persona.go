package domain

import (
	"strings"
	"unicode"
)

// PersonaStyle groups tone descriptions by channel. Chat is the only
// channel the simulator uses today.
type PersonaStyle struct {
	Chat []string
}

// PersonaProfile is the static character sheet of one persona. It is a pure
// data source: loaded once, never mutated during a session.
type PersonaProfile struct {
	Name      string
	Bio       []string
	Style     PersonaStyle
	Lore      []string
	Knowledge []string
}

// ApplyDefaults fills missing fields with neutral values so a sparse
// document never produces an empty prompt section.
func (p *PersonaProfile) ApplyDefaults() {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "Bilinmeyen Karakter"
	}
	if len(p.Bio) == 0 {
		p.Bio = []string{"Genel bir persona"}
	}
	if len(p.Style.Chat) == 0 {
		p.Style.Chat = []string{"Normal konuşur"}
	}
	if len(p.Lore) == 0 {
		p.Lore = []string{""}
	}
	if len(p.Knowledge) == 0 {
		p.Knowledge = []string{""}
	}
}

// FallbackProfile is the built-in identity used when a persona document is
// missing or malformed. Construction never fails because of a bad document.
func FallbackProfile(name string) PersonaProfile {
	profile := PersonaProfile{Name: titleFromSlug(name)}
	profile.ApplyDefaults()
	return profile
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return "Bilinmeyen Karakter"
	}
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
