package enum

import "fmt"

// RefKind — вид значения, которым выставляют enum-ссылку.
type RefKind int

const (
	RefNull    RefKind = iota // сброс ключа
	RefOrdinal                // сырой ординал
	RefName                   // символьное имя
	RefValue                  // готовое значение справочника
)

// Ref — размеченное объединение {null, ординал, имя, значение} вместо
// динамической проверки типа аргумента. Резолвится одной функцией Assign.
type Ref struct {
	kind    RefKind
	ordinal int64
	name    string
	value   *Value
}

func NullRef() Ref             { return Ref{kind: RefNull} }
func OrdinalRef(ord int64) Ref { return Ref{kind: RefOrdinal, ordinal: ord} }
func NameRef(name string) Ref  { return Ref{kind: RefName, name: name} }
func ValueRef(v *Value) Ref    { return Ref{kind: RefValue, value: v} }

func (r Ref) Kind() RefKind { return r.kind }

// Binding — связь "foreign key колонка -> справочник" на чужой сущности.
// Геттер и валидация ходят только в кэш справочника, не в хранилище.
type Binding struct {
	Field  string // имя fk-колонки у хозяина
	Target *Type
}

func Bind(field string, target *Type) Binding {
	return Binding{Field: field, Target: target}
}

// Resolve — геттер: сырой fk (nil = null) -> значение справочника.
func (b Binding) Resolve(fk *int64) (*Value, bool) {
	if fk == nil {
		return nil, false
	}
	return b.Target.ByOrdinal(*fk)
}

// Assign — сеттер: превращает Ref в хранимый fk.
// Несуществующее имя — ErrInvalidConstant сразу, до всякой персистенции
// (ошибка программиста, не данных). Чужое значение — тоже ErrInvalidConstant.
// Сырой ординал принимается как есть, его ловит Validate.
func (b Binding) Assign(ref Ref) (*int64, error) {
	switch ref.kind {
	case RefNull:
		return nil, nil
	case RefOrdinal:
		ord := ref.ordinal
		return &ord, nil
	case RefName:
		v, err := b.Target.MustByName(ref.name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%s]", ErrInvalidConstant, b.Target.Name(), ref.name)
		}
		ord := v.Ordinal()
		return &ord, nil
	case RefValue:
		if ref.value == nil {
			return nil, nil
		}
		// значение должно принадлежать целевому справочнику
		if got, ok := b.Target.ByOrdinal(ref.value.Ordinal()); !ok || !got.Equal(ref.value) {
			return nil, fmt.Errorf("%w: %s does not contain %q", ErrInvalidConstant, b.Target.Name(), ref.value.Name())
		}
		ord := ref.value.Ordinal()
		return &ord, nil
	default:
		return nil, fmt.Errorf("%w: unknown ref kind %d", ErrInvalidConstant, ref.kind)
	}
}

// Validate — правило хозяина: ненулевой fk обязан попадать в AllOrdinals
// (лишние персистентные значения — тоже легальные цели), null валиден всегда.
func (b Binding) Validate(fk *int64) error {
	if fk == nil {
		return nil
	}
	if !b.Target.HasOrdinal(*fk) {
		return fmt.Errorf("%w: %s[%d]", ErrNotFound, b.Target.Name(), *fk)
	}
	return nil
}
