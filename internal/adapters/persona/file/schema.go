package file

// profileSchema mirrors the on-disk persona document. The same shape is
// accepted in JSON and TOML; field names follow the document convention
// of the character files this loader reads.
type profileSchema struct {
	Name      string       `json:"name" toml:"name"`
	Bio       []string     `json:"bio" toml:"bio"`
	Style     *styleSchema `json:"style" toml:"style"`
	Lore      []string     `json:"lore" toml:"lore"`
	Knowledge []string     `json:"knowledge" toml:"knowledge"`
}

type styleSchema struct {
	Chat []string `json:"chat" toml:"chat"`
}
