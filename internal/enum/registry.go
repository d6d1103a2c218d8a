package enum

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type — один справочник: замороженный двусторонний индекс имя<->ординал
// поверх таблицы хранилища. Читатели работают с текущим снапшотом без
// блокировок (atomic.Pointer); перестройка собирает новый снапшот целиком
// и подменяет его атомарно — наполовину собранный снапшот увидеть нельзя.
type Type struct {
	name  string // имя справочника ("book_status" и т.п.)
	table string
	store Store

	// Notify — канал диагностики деградированного режима (не ошибка).
	notify func(format string, args ...any)

	buildMu sync.Mutex
	entropy io.Reader // ulid для build id, только под buildMu
	snap    atomic.Pointer[snapshot]
}

// snapshot — неизменяемое состояние справочника. Поля после сборки не
// трогаем: новая конфигурация = новый снапшот.
type snapshot struct {
	required []string // объявленный порядок сохраняем
	nameAttr string
	buildID  string
	degraded bool

	values    []*Value          // только required, во входном порядке
	all       []*Value          // required + лишние строки таблицы
	byName    map[string]*Value // ключ нормализован (normName)
	byOrdinal map[int64]*Value
	reqIndex  map[int64]*Value  // byOrdinal, суженный до required
	constants map[string]*Value // токен константы -> значение
}

// NewType создаёт справочник поверх таблицы table хранилища st.
// До первого Register все lookups отвечают "не найдено".
func NewType(name, table string, st Store) *Type {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Type{
		name:    name,
		table:   table,
		store:   st,
		notify:  log.Printf,
		entropy: ulid.Monotonic(src, 0),
	}
}

// SetNotify заменяет канал диагностики (в тестах — перехват уведомлений).
func (t *Type) SetNotify(fn func(format string, args ...any)) {
	if fn != nil {
		t.notify = fn
	}
}

func (t *Type) Name() string  { return t.name }
func (t *Type) Table() string { return t.table }

// Register — переход Uninitialized -> Built. Находит-или-создаёт обязательные
// имена, догружает лишние строки, собирает и замораживает индекс, ставит
// сторожа записи. Повторный вызов пересобирает снапшот (как Reinitialize,
// но с новой конфигурацией).
func (t *Type) Register(ctx context.Context, required []string, nameAttr string) error {
	if nameAttr == "" {
		nameAttr = "name"
	}
	t.buildMu.Lock()
	defer t.buildMu.Unlock()
	return t.buildLocked(ctx, required, nameAttr)
}

// Reinitialize — переход Built -> Built по запомненной конфигурации.
// Нужен, когда содержимое таблицы поменялось мимо нас (фикстуры тестов,
// ручные правки). До первого Register — ошибка программиста.
func (t *Type) Reinitialize(ctx context.Context) error {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	prev := t.snap.Load()
	if prev == nil {
		return fmt.Errorf("%w: %s", ErrUninitialized, t.name)
	}
	return t.buildLocked(ctx, prev.required, prev.nameAttr)
}

// buildLocked собирает новый снапшот и атомарно устанавливает его.
// Вызывать только под buildMu.
func (t *Type) buildLocked(ctx context.Context, required []string, nameAttr string) error {
	prev := t.snap.Load()

	reqValues, degraded, err := t.cacheConstants(ctx, required, nameAttr)
	if err != nil {
		return err
	}

	// лишние строки таблицы: есть в хранилище, но не объявлены как required
	var extras []*Value
	if !degraded {
		ids := make([]int64, 0, len(reqValues))
		for _, v := range reqValues {
			ids = append(ids, v.ordinal)
		}
		rows, err := t.store.FetchExcluding(ctx, t.table, nameAttr, ids)
		if err != nil {
			return fmt.Errorf("enum %s: fetch extras: %w", t.name, err)
		}
		for _, r := range rows {
			extras = append(extras, newValue(r))
		}
	}

	s := &snapshot{
		required:  append([]string(nil), required...),
		nameAttr:  nameAttr,
		degraded:  degraded,
		values:    make([]*Value, 0, len(reqValues)),
		all:       make([]*Value, 0, len(reqValues)+len(extras)),
		byName:    make(map[string]*Value, len(reqValues)+len(extras)),
		byOrdinal: make(map[int64]*Value, len(reqValues)+len(extras)),
		reqIndex:  make(map[int64]*Value, len(reqValues)),
		constants: make(map[string]*Value, len(reqValues)),
	}
	s.buildID = ulid.MustNew(ulid.Timestamp(time.Now()), t.entropy).String()

	for _, v := range reqValues {
		v = reusePrior(prev, v) // стабильная идентичность через перестройки
		s.values = append(s.values, v)
		s.all = append(s.all, v)
		s.byName[normName(v.name)] = v
		s.byOrdinal[v.ordinal] = v
		s.reqIndex[v.ordinal] = v
	}
	for _, v := range extras {
		v = reusePrior(prev, v)
		s.all = append(s.all, v)
		s.byName[normName(v.name)] = v
		s.byOrdinal[v.ordinal] = v
	}

	// публикация констант: только по результату кэшера, последний побеждает
	// при коллизии токенов (известная хрупкость, поведение сохранено)
	for _, v := range s.values {
		token, ok := ToConstantName(v.name)
		if !ok {
			continue // имя непредставимо как константа — пропускаем
		}
		s.constants[token] = v
	}

	// заморозка: значения и контейнеры дальше не меняются
	for _, v := range s.all {
		v.freeze()
	}

	t.snap.Store(s)

	// сторож записи: со стороны хранилища справочник теперь read-only
	if len(required) > 0 {
		t.store.SetReadOnly(t.table, true)
	}
	return nil
}

// reusePrior возвращает значение из предыдущего снапшота, если оно равно
// новому: другой код может держать указатели и сравнивать идентичность.
func reusePrior(prev *snapshot, v *Value) *Value {
	if prev == nil {
		return v
	}
	if old, ok := prev.byName[normName(v.name)]; ok && old.Equal(v) {
		return old
	}
	return v
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ----- чтение: только текущий снапшот, хранилище не трогаем -----

// ByOrdinal возвращает значение по ординалу.
func (t *Type) ByOrdinal(ordinal int64) (*Value, bool) {
	s := t.snap.Load()
	if s == nil {
		return nil, false
	}
	v, ok := s.byOrdinal[ordinal]
	return v, ok
}

// ByName возвращает значение по имени (без учёта регистра и краевых пробелов).
func (t *Type) ByName(name string) (*Value, bool) {
	s := t.snap.Load()
	if s == nil {
		return nil, false
	}
	v, ok := s.byName[normName(name)]
	return v, ok
}

// MustByName — строгий вариант ByName: при отсутствии — ErrNotFound.
func (t *Type) MustByName(name string) (*Value, error) {
	if v, ok := t.ByName(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s[%s]", ErrNotFound, t.name, name)
}

// Values — обязательные значения в объявленном порядке.
func (t *Type) Values() []*Value {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	return append([]*Value(nil), s.values...)
}

// AllValues — обязательные значения, затем лишние строки таблицы.
func (t *Type) AllValues() []*Value {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	return append([]*Value(nil), s.all...)
}

// Ordinals — ординалы обязательных значений в объявленном порядке.
func (t *Type) Ordinals() []int64 {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	out := make([]int64, 0, len(s.values))
	for _, v := range s.values {
		out = append(out, v.ordinal)
	}
	return out
}

// AllOrdinals — ординалы всех значений (required + лишние).
func (t *Type) AllOrdinals() []int64 {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	out := make([]int64, 0, len(s.all))
	for _, v := range s.all {
		out = append(out, v.ordinal)
	}
	return out
}

// HasOrdinal — быстрое членство по ординалу.
func (t *Type) HasOrdinal(ordinal int64) bool {
	_, ok := t.ByOrdinal(ordinal)
	return ok
}

// RequiredByOrdinal — lookup, суженный до required-значений: лишние строки
// таблицы здесь не видны (в отличие от ByOrdinal).
func (t *Type) RequiredByOrdinal(ordinal int64) (*Value, bool) {
	s := t.snap.Load()
	if s == nil {
		return nil, false
	}
	v, ok := s.reqIndex[ordinal]
	return v, ok
}

// Constant возвращает значение по токену константы ("CAMEL_CASE" и т.п.).
// Токены считаются только для required-имён.
func (t *Type) Constant(token string) (*Value, bool) {
	s := t.snap.Load()
	if s == nil {
		return nil, false
	}
	v, ok := s.constants[token]
	return v, ok
}

// Constants — копия карты токен -> значение (публичная поверхность вместо
// динамических констант уровня языка).
func (t *Type) Constants() map[string]*Value {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	out := make(map[string]*Value, len(s.constants))
	for k, v := range s.constants {
		out[k] = v
	}
	return out
}

// Initialized — был ли первый Register.
func (t *Type) Initialized() bool { return t.snap.Load() != nil }

// Degraded — работает ли справочник на dummy-значениях (таблицы нет).
func (t *Type) Degraded() bool {
	s := t.snap.Load()
	return s != nil && s.degraded
}

// BuildID — ulid текущего снапшота (диагностика, /api/enums/:type).
func (t *Type) BuildID() string {
	s := t.snap.Load()
	if s == nil {
		return ""
	}
	return s.buildID
}

// RequiredNames — объявленный набор имён текущего снапшота.
func (t *Type) RequiredNames() []string {
	s := t.snap.Load()
	if s == nil {
		return nil
	}
	return append([]string(nil), s.required...)
}
