package enum_test

import (
	"context"
	"testing"

	"enumka/internal/enum"
	"enumka/internal/mem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_RegisterAndLookup(t *testing.T) {
	st := mem.New()
	st.CreateTable("colors")
	st.CreateTable("sizes")
	dir := enum.NewDirectory()
	ctx := context.Background()

	colors := enum.NewType("colors", "colors", st)
	sizes := enum.NewType("sizes", "sizes", st)

	require.NoError(t, dir.Register(ctx, colors, []string{"Red"}, "name"))
	require.NoError(t, dir.Register(ctx, sizes, []string{"S", "M"}, "name"))

	got, ok := dir.Lookup("colors")
	require.True(t, ok)
	assert.Same(t, colors, got)

	_, ok = dir.Lookup("missing")
	assert.False(t, ok)

	// порядок регистрации сохраняется
	types := dir.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "colors", types[0].Name())
	assert.Equal(t, "sizes", types[1].Name())
}

func TestDirectory_AddedExactlyOnce(t *testing.T) {
	st := mem.New()
	st.CreateTable("colors")
	dir := enum.NewDirectory()
	ctx := context.Background()

	colors := enum.NewType("colors", "colors", st)
	require.NoError(t, dir.Register(ctx, colors, []string{"Red"}, "name"))
	// повторная регистрация пересобирает снапшот, но не дублирует запись
	require.NoError(t, dir.Register(ctx, colors, []string{"Red", "Blue"}, "name"))

	assert.Len(t, dir.Types(), 1)
	assert.Len(t, colors.Values(), 2)
}

func TestDirectory_ReinitializeAll(t *testing.T) {
	st := mem.New()
	st.CreateTable("colors")
	st.CreateTable("sizes")
	dir := enum.NewDirectory()
	ctx := context.Background()

	colors := enum.NewType("colors", "colors", st)
	sizes := enum.NewType("sizes", "sizes", st)
	require.NoError(t, dir.Register(ctx, colors, []string{"Red"}, "name"))
	require.NoError(t, dir.Register(ctx, sizes, []string{"S"}, "name"))

	// внешнее изменение обеих таблиц
	st.SetReadOnly("colors", false)
	st.SetReadOnly("sizes", false)
	_, err := st.Insert(ctx, "colors", "Blue")
	require.NoError(t, err)
	_, err = st.Insert(ctx, "sizes", "XL")
	require.NoError(t, err)
	st.SetReadOnly("colors", true)
	st.SetReadOnly("sizes", true)

	require.NoError(t, dir.ReinitializeAll(ctx))

	assert.Len(t, colors.AllValues(), 2)
	assert.Len(t, sizes.AllValues(), 2)
}
