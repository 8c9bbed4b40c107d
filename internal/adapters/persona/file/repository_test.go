package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/microcosmos/internal/domain"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadJSONDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "tugrul_bey.json", `{
		"name": "Tuğrul Bey",
		"bio": ["Emekli tarih öğretmeni", "Ankara'da yaşar"],
		"style": {"chat": ["Resmi konuşur"]},
		"lore": ["1950 doğumlu"],
		"knowledge": ["Osmanlı tarihi"]
	}`)

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	profile, err := repo.Load(context.Background(), "tugrul_bey")
	require.NoError(t, err)

	assert.Equal(t, "Tuğrul Bey", profile.Name)
	assert.Equal(t, []string{"Emekli tarih öğretmeni", "Ankara'da yaşar"}, profile.Bio)
	assert.Equal(t, []string{"Resmi konuşur"}, profile.Style.Chat)
	assert.Equal(t, []string{"Osmanlı tarihi"}, profile.Knowledge)
}

func TestLoadTOMLDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "ayse.toml", `
name = "Ayşe Hanım"
bio = ["Ev hanımı"]

[style]
chat = ["Samimi konuşur"]
`)

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	profile, err := repo.Load(context.Background(), "ayse")
	require.NoError(t, err)

	assert.Equal(t, "Ayşe Hanım", profile.Name)
	assert.Equal(t, []string{"Samimi konuşur"}, profile.Style.Chat)
}

func TestLoadJSONTakesPrecedenceOverTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "kerem.json", `{"name": "Kerem JSON"}`)
	writeDoc(t, dir, "kerem.toml", `name = "Kerem TOML"`)

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	profile, err := repo.Load(context.Background(), "kerem")
	require.NoError(t, err)
	assert.Equal(t, "Kerem JSON", profile.Name)
}

func TestLoadFillsDefaultsForSparseDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "sparse.json", `{"name": "Sade Karakter"}`)

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	profile, err := repo.Load(context.Background(), "sparse")
	require.NoError(t, err)

	assert.Equal(t, "Sade Karakter", profile.Name)
	assert.Equal(t, []string{"Genel bir persona"}, profile.Bio)
	assert.Equal(t, []string{"Normal konuşur"}, profile.Style.Chat)
}

func TestLoadMissingDocumentReportsNotFound(t *testing.T) {
	t.Parallel()

	repo, err := NewRepository(t.TempDir())
	require.NoError(t, err)

	_, loadErr := repo.Load(context.Background(), "yok")
	assert.ErrorIs(t, loadErr, domain.ErrPersonaNotFound)
}

func TestLoadMalformedDocumentFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "bozuk.json", `{"name": `)

	repo, err := NewRepository(dir)
	require.NoError(t, err)

	_, loadErr := repo.Load(context.Background(), "bozuk")
	assert.Error(t, loadErr)
	assert.NotErrorIs(t, loadErr, domain.ErrPersonaNotFound)
}
