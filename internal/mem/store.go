package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"enumka/internal/enum"
)

// Store — in-memory реализация enum.Store. Рабочий режим при пустом DB URL
// и основа юнит-тестов ядра. Семантика повторяет Postgres-вариант:
// автоинкрементные id с единицы, uniqueness по name-колонке,
// сторож записи после регистрации справочника.
var _ enum.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	tables   map[string]*table
	readonly map[string]bool
}

type table struct {
	nextID int64
	order  []int64 // порядок вставки == порядок ординалов
	rows   map[int64]enum.Row
}

func New() *Store {
	return &Store{
		tables:   make(map[string]*table),
		readonly: make(map[string]bool),
	}
}

// CreateTable создаёт пустую таблицу (идемпотентно).
func (s *Store) CreateTable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; !ok {
		s.tables[name] = &table{nextID: 1, rows: make(map[int64]enum.Row)}
	}
}

// DropTable убирает таблицу — для проверок деградированного режима.
func (s *Store) DropTable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, name)
}

func (s *Store) TableExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[name]
	return ok, nil
}

// FindOrCreate — канал кэшера, работает и под сторожем.
func (s *Store) FindOrCreate(_ context.Context, name, nameAttr, value string) (enum.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return enum.Row{}, fmt.Errorf("mem: no such table %q", name)
	}
	for _, id := range t.order {
		if rowName(t.rows[id], nameAttr) == value {
			return t.rows[id], nil
		}
	}
	row := enum.Row{ID: t.nextID, Name: value}
	if nameAttr != "" && nameAttr != "name" {
		row.Extra = map[string]string{nameAttr: value}
	}
	t.nextID++
	t.rows[row.ID] = row
	t.order = append(t.order, row.ID)
	return row, nil
}

func (s *Store) FetchAll(_ context.Context, name, _ string) ([]enum.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("mem: no such table %q", name)
	}
	out := make([]enum.Row, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FetchExcluding(ctx context.Context, name, nameAttr string, ids []int64) ([]enum.Row, error) {
	all, err := s.FetchAll(ctx, name, nameAttr)
	if err != nil {
		return nil, err
	}
	skip := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	out := all[:0]
	for _, r := range all {
		if _, ok := skip[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) SetReadOnly(name string, readonly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readonly[name] = readonly
}

// ----- внешние записи: после регистрации справочника отклоняются -----

// Insert добавляет строку мимо кэшера. Под сторожем — enum.ErrReadOnly.
func (s *Store) Insert(_ context.Context, name, value string) (enum.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readonly[name] {
		return enum.Row{}, fmt.Errorf("%w: table %q", enum.ErrReadOnly, name)
	}
	t, ok := s.tables[name]
	if !ok {
		return enum.Row{}, fmt.Errorf("mem: no such table %q", name)
	}
	row := enum.Row{ID: t.nextID, Name: value}
	t.nextID++
	t.rows[row.ID] = row
	t.order = append(t.order, row.ID)
	return row, nil
}

func (s *Store) Update(_ context.Context, name string, id int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readonly[name] {
		return fmt.Errorf("%w: table %q", enum.ErrReadOnly, name)
	}
	t, ok := s.tables[name]
	if !ok {
		return fmt.Errorf("mem: no such table %q", name)
	}
	row, ok := t.rows[id]
	if !ok {
		return fmt.Errorf("mem: %q has no row %d", name, id)
	}
	row.Name = value
	t.rows[id] = row
	return nil
}

func (s *Store) Delete(_ context.Context, name string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readonly[name] {
		return fmt.Errorf("%w: table %q", enum.ErrReadOnly, name)
	}
	t, ok := s.tables[name]
	if !ok {
		return fmt.Errorf("mem: no such table %q", name)
	}
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("mem: %q has no row %d", name, id)
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func rowName(r enum.Row, nameAttr string) string {
	if nameAttr == "" || nameAttr == "name" {
		return r.Name
	}
	if v, ok := r.Extra[nameAttr]; ok {
		return v
	}
	return r.Name
}
