package dsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDSL = `
# библиотека
entity Book:
  title: string required
  pages: int
  status: enumref[book_status] required
  genre: enumref[genre]

entity Reader:
  name: string required
  active: bool
`

func writeDSL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEntities(t *testing.T) {
	path := writeDSL(t, t.TempDir(), "library.dsl", sampleDSL)

	ents, err := LoadEntities(path)
	require.NoError(t, err)
	require.Len(t, ents, 2)

	book := ents[0]
	assert.Equal(t, "Book", book.Name)
	require.Len(t, book.Fields, 4)

	title := book.Fields[0]
	assert.Equal(t, "string", title.Type)
	assert.True(t, title.Required())

	status := book.Fields[2]
	assert.Equal(t, "enumref", status.Type)
	assert.Equal(t, "book_status", status.EnumType)
	assert.True(t, status.Required())

	genre := book.Fields[3]
	assert.Equal(t, "enumref", genre.Type)
	assert.Equal(t, "genre", genre.EnumType)
	assert.False(t, genre.Required())

	assert.Len(t, book.EnumRefs(), 2)

	reader := ents[1]
	assert.Equal(t, "Reader", reader.Name)
	assert.Empty(t, reader.EnumRefs())
}

func TestLoadEntities_CommentsAndBlank(t *testing.T) {
	path := writeDSL(t, t.TempDir(), "c.dsl", `
# заголовок
entity Thing:

  # поле с хвостовым комментарием
  kind: enumref[kind] required # обязательно
`)
	ents, err := LoadEntities(path)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	f := ents[0].Fields[0]
	assert.Equal(t, "kind", f.EnumType)
	assert.True(t, f.Required())
}

func TestLoadAllEntities(t *testing.T) {
	dir := t.TempDir()
	writeDSL(t, dir, "a.dsl", "entity A:\n  x: string\n")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeDSL(t, sub, "b.dsl", "entity B:\n  y: int\n")

	ents, err := LoadAllEntities(dir)
	require.NoError(t, err)
	assert.Len(t, ents, 2)
	assert.Contains(t, ents, "a")
	assert.Contains(t, ents, "b")
}

func TestLoadAllEntities_Duplicate(t *testing.T) {
	dir := t.TempDir()
	writeDSL(t, dir, "a.dsl", "entity A:\n  x: string\n")
	writeDSL(t, dir, "b.dsl", "entity A:\n  y: int\n")

	_, err := LoadAllEntities(dir)
	assert.Error(t, err)
}
