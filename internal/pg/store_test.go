package pg

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"enumka/internal/enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// интеграционные тесты: поднимаем одноразовый Postgres в контейнере
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in -short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("enumka"),
		tcpostgres.WithUsername("enumka"),
		tcpostgres.WithPassword("enumka"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTableExists(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	exists, err := s.TableExists(ctx, "colors")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.EnsureTable(ctx, "colors", "name"))

	exists, err = s.TableExists(ctx, "colors")
	require.NoError(t, err)
	assert.True(t, exists)

	// DDL идемпотентен
	require.NoError(t, s.EnsureTable(ctx, "colors", "name"))
}

func TestFindOrCreate_Postgres(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "colors", "name"))

	r1, err := s.FindOrCreate(ctx, "colors", "name", "Red")
	require.NoError(t, err)
	assert.Greater(t, r1.ID, int64(0))
	assert.Equal(t, "Red", r1.Name)

	// идемпотентность: та же строка
	r2, err := s.FindOrCreate(ctx, "colors", "name", "Red")
	require.NoError(t, err)
	assert.Equal(t, r1.ID, r2.ID)

	rows, err := s.FetchAll(ctx, "colors", "name")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFetchExcluding_Postgres(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "colors", "name"))

	red, err := s.FindOrCreate(ctx, "colors", "name", "Red")
	require.NoError(t, err)
	_, err = s.FindOrCreate(ctx, "colors", "name", "Green")
	require.NoError(t, err)

	rows, err := s.FetchExcluding(ctx, "colors", "name", []int64{red.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Green", rows[0].Name)
}

func TestReadOnlyGuard_Postgres(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "colors", "name"))

	row, err := s.Insert(ctx, "colors", "name", "Red")
	require.NoError(t, err)

	s.SetReadOnly("colors", true)

	_, err = s.Insert(ctx, "colors", "name", "Rogue")
	assert.ErrorIs(t, err, enum.ErrReadOnly)
	assert.ErrorIs(t, s.Update(ctx, "colors", "name", row.ID, "Mutated"), enum.ErrReadOnly)
	assert.ErrorIs(t, s.Delete(ctx, "colors", row.ID), enum.ErrReadOnly)

	// канал кэшера работает и под сторожем
	_, err = s.FindOrCreate(ctx, "colors", "name", "Blue")
	require.NoError(t, err)
}

// полный цикл: регистрация справочника поверх живого Postgres
func TestRegistryOverPostgres(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()
	require.NoError(t, s.EnsureTable(ctx, "book_statuses", "name"))

	// предзасев лишнего значения
	extra, err := s.Insert(ctx, "book_statuses", "name", "Archived")
	require.NoError(t, err)

	typ := enum.NewType("book_status", "book_statuses", s)
	require.NoError(t, typ.Register(ctx, []string{"Available", "CheckedOut"}, "name"))

	assert.Len(t, typ.Values(), 2)
	assert.Len(t, typ.AllValues(), 3)
	assert.Contains(t, typ.AllOrdinals(), extra.ID)

	// внешние изменения мимо кэша + Reinitialize
	s.SetReadOnly("book_statuses", false)
	_, err = s.Insert(ctx, "book_statuses", "name", "Lost")
	require.NoError(t, err)
	s.SetReadOnly("book_statuses", true)

	before, ok := typ.ByName("Available")
	require.True(t, ok)
	require.NoError(t, typ.Reinitialize(ctx))
	after, ok := typ.ByName("Available")
	require.True(t, ok)
	assert.Same(t, before, after)

	lost, ok := typ.ByName("Lost")
	require.True(t, ok)
	assert.NotContains(t, typ.Ordinals(), lost.Ordinal())
}

// деградированный режим против живой БД без таблицы, затем самоизлечение
func TestDegradedThenMigrate_Postgres(t *testing.T) {
	db := setupDB(t)
	s := NewStore(db)
	ctx := context.Background()

	typ := enum.NewType("genre", "genres", s)
	typ.SetNotify(func(string, ...any) {})
	require.NoError(t, typ.Register(ctx, []string{"Fiction", "Poetry"}, "name"))
	assert.True(t, typ.Degraded())
	for _, v := range typ.Values() {
		assert.GreaterOrEqual(t, v.Ordinal(), int64(enum.DummyOrdinalBase))
	}

	require.NoError(t, s.EnsureTable(ctx, "genres", "name"))
	require.NoError(t, typ.Reinitialize(ctx))

	assert.False(t, typ.Degraded())
	rows, err := s.FetchAll(ctx, "genres", "name")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
