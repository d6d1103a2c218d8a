package enum_test

import (
	"context"
	"testing"

	"enumka/internal/enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookStatusType(t *testing.T) *enum.Type {
	t.Helper()
	typ, _ := newTestType(t, "book_statuses")
	require.NoError(t, typ.Register(context.Background(),
		[]string{"Available", "CheckedOut", "Lost"}, "name"))
	return typ
}

func TestBinding_RoundTrip(t *testing.T) {
	typ := bookStatusType(t)
	b := enum.Bind("status_id", typ)

	want, ok := typ.ByName("CheckedOut")
	require.True(t, ok)

	// значение, имя и сырой ординал дают одинаковый fk и одинаковый геттер
	viaValue, err := b.Assign(enum.ValueRef(want))
	require.NoError(t, err)
	viaName, err := b.Assign(enum.NameRef("CheckedOut"))
	require.NoError(t, err)
	viaOrdinal, err := b.Assign(enum.OrdinalRef(want.Ordinal()))
	require.NoError(t, err)

	require.NotNil(t, viaValue)
	require.NotNil(t, viaName)
	require.NotNil(t, viaOrdinal)
	assert.Equal(t, *viaValue, *viaName)
	assert.Equal(t, *viaValue, *viaOrdinal)

	for _, fk := range []*int64{viaValue, viaName, viaOrdinal} {
		got, ok := b.Resolve(fk)
		require.True(t, ok)
		assert.Same(t, want, got)
	}
}

func TestBinding_NullClears(t *testing.T) {
	typ := bookStatusType(t)
	b := enum.Bind("status_id", typ)

	fk, err := b.Assign(enum.NullRef())
	require.NoError(t, err)
	assert.Nil(t, fk)

	_, ok := b.Resolve(nil)
	assert.False(t, ok)

	// null всегда проходит валидацию
	assert.NoError(t, b.Validate(nil))
}

func TestBinding_InvalidName(t *testing.T) {
	typ := bookStatusType(t)
	b := enum.Bind("status_id", typ)

	// несуществующее имя — ошибка сразу, до какой-либо персистенции
	_, err := b.Assign(enum.NameRef("Nonexistent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, enum.ErrInvalidConstant)
}

func TestBinding_ForeignValueRejected(t *testing.T) {
	statuses := bookStatusType(t)
	other, _ := newTestType(t, "genres")
	require.NoError(t, other.Register(context.Background(), []string{"Fiction"}, "name"))

	foreign, ok := other.ByName("Fiction")
	require.True(t, ok)

	b := enum.Bind("status_id", statuses)
	_, err := b.Assign(enum.ValueRef(foreign))
	require.Error(t, err)
	assert.ErrorIs(t, err, enum.ErrInvalidConstant)
}

func TestBinding_Validate(t *testing.T) {
	typ, st := newTestType(t, "book_statuses")
	ctx := context.Background()
	extra, err := st.Insert(ctx, "book_statuses", "Archived")
	require.NoError(t, err)
	require.NoError(t, typ.Register(ctx, []string{"Available"}, "name"))

	b := enum.Bind("status_id", typ)

	good := typ.Ordinals()[0]
	assert.NoError(t, b.Validate(&good))

	// лишнее персистентное значение — тоже легальная цель
	assert.NoError(t, b.Validate(&extra.ID))

	bad := int64(-1)
	err = b.Validate(&bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, enum.ErrNotFound)
}

func TestBinding_ResolveNeverTouchesStore(t *testing.T) {
	typ, st := newTestType(t, "book_statuses")
	ctx := context.Background()
	require.NoError(t, typ.Register(ctx, []string{"Available"}, "name"))
	ord := typ.Ordinals()[0]

	// таблица исчезла — геттер всё равно резолвит из кэша
	st.DropTable("book_statuses")

	b := enum.Bind("status_id", typ)
	v, ok := b.Resolve(&ord)
	require.True(t, ok)
	assert.Equal(t, "Available", v.Name())
}
