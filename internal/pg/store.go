package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"enumka/internal/enum"
)

var _ enum.Store = (*Store)(nil)

// Store — Postgres-реализация enum.Store поверх database/sql (драйвер pgx).
// Сторож записи — на стороне приложения: все записи в таблицы справочников
// идут через этот тип, внешние create/update/delete после регистрации
// отклоняются с enum.ErrReadOnly.
type Store struct {
	db *sql.DB

	mu       sync.RWMutex
	readonly map[string]bool
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, readonly: make(map[string]bool)}
}

func (s *Store) DB() *sql.DB { return s.db }

// sqlIdent — кавычим идентификаторы, имена приводим к нижнему регистру.
func sqlIdent(s string) string { return `"` + strings.ToLower(s) + `"` }

// EnsureTable создаёт таблицу справочника (id bigserial + уникальная
// name-колонка). DDL идемпотентен; duplicate_object (42710) и
// duplicate_table (42P07) от гонки двух процессов игнорируем.
func (s *Store) EnsureTable(ctx context.Context, table, nameAttr string) error {
	if nameAttr == "" {
		nameAttr = "name"
	}
	stmts := []string{
		fmt.Sprintf("create table if not exists %s (id bigserial primary key, %s text not null)",
			sqlIdent(table), sqlIdent(nameAttr)),
		fmt.Sprintf("create unique index if not exists %s on %s(%s)",
			sqlIdent(table+"_"+nameAttr+"_uq"), sqlIdent(table), sqlIdent(nameAttr)),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && (pgErr.Code == "42710" || pgErr.Code == "42P07") {
				log.Printf("DDL skipped (already exists): %s", strings.TrimSpace(pgErr.Message))
				continue
			}
			return fmt.Errorf("DDL apply failed: %w", err)
		}
	}
	return nil
}

func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var reg sql.NullString
	err := s.db.QueryRowContext(ctx, "select to_regclass($1)", strings.ToLower(table)).Scan(&reg)
	if err != nil {
		return false, fmt.Errorf("table check %q: %w", table, err)
	}
	return reg.Valid, nil
}

// FindOrCreate — канал кэшера (работает и под сторожем). Сначала SELECT,
// затем INSERT .. ON CONFLICT DO NOTHING; проигранную гонку за имя
// разрешает уникальный индекс — перечитываем строку.
func (s *Store) FindOrCreate(ctx context.Context, table, nameAttr, name string) (enum.Row, error) {
	if row, ok, err := s.findByName(ctx, table, nameAttr, name); err != nil {
		return enum.Row{}, err
	} else if ok {
		return row, nil
	}

	q := fmt.Sprintf("insert into %s (%s) values ($1) on conflict do nothing returning id",
		sqlIdent(table), sqlIdent(nameAttr))
	var id int64
	err := s.db.QueryRowContext(ctx, q, name).Scan(&id)
	switch {
	case err == nil:
		return enum.Row{ID: id, Name: name}, nil
	case errors.Is(err, sql.ErrNoRows):
		// конфликт: строку только что вставил кто-то другой
		row, ok, err := s.findByName(ctx, table, nameAttr, name)
		if err != nil {
			return enum.Row{}, err
		}
		if !ok {
			return enum.Row{}, fmt.Errorf("find-or-create %q in %q: row vanished", name, table)
		}
		return row, nil
	default:
		return enum.Row{}, fmt.Errorf("find-or-create %q in %q: %w", name, table, err)
	}
}

func (s *Store) findByName(ctx context.Context, table, nameAttr, name string) (enum.Row, bool, error) {
	q := fmt.Sprintf("select * from %s where %s = $1", sqlIdent(table), sqlIdent(nameAttr))
	rows, err := s.db.QueryContext(ctx, q, name)
	if err != nil {
		return enum.Row{}, false, fmt.Errorf("select %q from %q: %w", name, table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows, nameAttr)
	if err != nil {
		return enum.Row{}, false, err
	}
	if len(out) == 0 {
		return enum.Row{}, false, nil
	}
	return out[0], true, nil
}

func (s *Store) FetchAll(ctx context.Context, table, nameAttr string) ([]enum.Row, error) {
	q := fmt.Sprintf("select * from %s order by id", sqlIdent(table))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch all %q: %w", table, err)
	}
	defer rows.Close()
	return scanRows(rows, nameAttr)
}

func (s *Store) FetchExcluding(ctx context.Context, table, nameAttr string, ids []int64) ([]enum.Row, error) {
	if len(ids) == 0 {
		return s.FetchAll(ctx, table, nameAttr)
	}
	// без pq.Array: параметры подставляем плейсхолдерами
	ph := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		ph = append(ph, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	q := fmt.Sprintf("select * from %s where id not in (%s) order by id",
		sqlIdent(table), strings.Join(ph, ", "))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch extras %q: %w", table, err)
	}
	defer rows.Close()
	return scanRows(rows, nameAttr)
}

func (s *Store) SetReadOnly(table string, readonly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readonly[strings.ToLower(table)] = readonly
}

func (s *Store) isReadOnly(table string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readonly[strings.ToLower(table)]
}

// ----- внешние записи (мимо кэшера) -----

func (s *Store) Insert(ctx context.Context, table, nameAttr, name string) (enum.Row, error) {
	if s.isReadOnly(table) {
		return enum.Row{}, fmt.Errorf("%w: table %q", enum.ErrReadOnly, table)
	}
	q := fmt.Sprintf("insert into %s (%s) values ($1) returning id", sqlIdent(table), sqlIdent(nameAttr))
	var id int64
	if err := s.db.QueryRowContext(ctx, q, name).Scan(&id); err != nil {
		return enum.Row{}, fmt.Errorf("insert into %q: %w", table, err)
	}
	return enum.Row{ID: id, Name: name}, nil
}

func (s *Store) Update(ctx context.Context, table, nameAttr string, id int64, name string) error {
	if s.isReadOnly(table) {
		return fmt.Errorf("%w: table %q", enum.ErrReadOnly, table)
	}
	q := fmt.Sprintf("update %s set %s = $1 where id = $2", sqlIdent(table), sqlIdent(nameAttr))
	if _, err := s.db.ExecContext(ctx, q, name, id); err != nil {
		return fmt.Errorf("update %q: %w", table, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, table string, id int64) error {
	if s.isReadOnly(table) {
		return fmt.Errorf("%w: table %q", enum.ErrReadOnly, table)
	}
	q := fmt.Sprintf("delete from %s where id = $1", sqlIdent(table))
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete from %q: %w", table, err)
	}
	return nil
}

// scanRows раскладывает select * в enum.Row: колонка id — ординал,
// nameAttr — имя, остальное текстом уходит в Extra (прокидываем как есть).
func scanRows(rows *sql.Rows, nameAttr string) ([]enum.Row, error) {
	if nameAttr == "" {
		nameAttr = "name"
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []enum.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		var id sql.NullInt64
		strs := make([]sql.NullString, len(cols))
		for i, c := range cols {
			if strings.EqualFold(c, "id") {
				vals[i] = &id
			} else {
				vals[i] = &strs[i]
			}
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, err
		}

		r := enum.Row{ID: id.Int64}
		for i, c := range cols {
			if strings.EqualFold(c, "id") {
				continue
			}
			if strings.EqualFold(c, nameAttr) {
				r.Name = strs[i].String
				continue
			}
			if strs[i].Valid {
				if r.Extra == nil {
					r.Extra = make(map[string]string)
				}
				r.Extra[strings.ToLower(c)] = strs[i].String
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
