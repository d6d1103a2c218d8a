package api

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"enumka/internal/dsl"
	"enumka/internal/enum"

	"github.com/oklog/ulid/v2"
)

// Record — запись сущности-хозяина. Enum-поля храним ординалами.
type Record struct {
	ID        string         `json:"id"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Data      map[string]any `json:"data"`
}

// Storage — in-memory записи хозяев + схемы + связки enum-полей.
// Справочники живут отдельно (enum.Directory), сюда попадает только ручка.
type Storage struct {
	mu       sync.RWMutex
	Schemas  map[string]*dsl.Entity              // entity (lower) -> схема
	Bindings map[string]map[string]enum.Binding  // entity -> поле -> связка
	Data     map[string]map[string]*Record       // entity -> id -> запись
	Dir      *enum.Directory
	entropy  io.Reader
}

// NewStorage связывает enumref-поля схем со справочниками каталога.
// Ссылка на незарегистрированный справочник — ошибка конфигурации.
func NewStorage(entities map[string]*dsl.Entity, dir *enum.Directory) (*Storage, error) {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Storage{
		Schemas:  make(map[string]*dsl.Entity),
		Bindings: make(map[string]map[string]enum.Binding),
		Data:     make(map[string]map[string]*Record),
		Dir:      dir,
		entropy:  ulid.Monotonic(src, 0),
	}
	for key, e := range entities {
		key = strings.ToLower(key)
		s.Schemas[key] = e
		for _, f := range e.EnumRefs() {
			target, ok := dir.Lookup(f.EnumType)
			if !ok {
				return nil, fmt.Errorf("entity %s: поле %s ссылается на неизвестный справочник %q",
					e.Name, f.Name, f.EnumType)
			}
			if s.Bindings[key] == nil {
				s.Bindings[key] = make(map[string]enum.Binding)
			}
			s.Bindings[key][f.Name] = enum.Bind(f.Name, target)
		}
	}
	return s, nil
}

func (s *Storage) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// Schema находит схему по имени сущности (без учёта регистра).
func (s *Storage) Schema(entity string) (*dsl.Entity, bool) {
	e, ok := s.Schemas[strings.ToLower(entity)]
	return e, ok
}

// Binding возвращает связку enum-поля сущности.
func (s *Storage) Binding(entity, field string) (enum.Binding, bool) {
	b, ok := s.Bindings[strings.ToLower(entity)][field]
	return b, ok
}
