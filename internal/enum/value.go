package enum

import "fmt"

// Value — одно значение справочника: стабильный ординал + символьное имя.
// После публикации в снапшоте значение заморожено навсегда.
type Value struct {
	ordinal int64
	name    string
	extra   map[string]string // прочие колонки строки, как есть
	frozen  bool
}

func newValue(r Row) *Value {
	v := &Value{ordinal: r.ID, name: r.Name}
	if len(r.Extra) > 0 {
		v.extra = make(map[string]string, len(r.Extra))
		for k, val := range r.Extra {
			v.extra[k] = val
		}
	}
	return v
}

func (v *Value) Ordinal() int64 { return v.ordinal }
func (v *Value) Name() string   { return v.name }
func (v *Value) String() string { return v.name }

// Attr возвращает немоделируемый атрибут строки (прокинут из хранилища).
func (v *Value) Attr(key string) (string, bool) {
	s, ok := v.extra[key]
	return s, ok
}

// SetAttr разрешён только до заморозки (например, dummy-значения до публикации).
func (v *Value) SetAttr(key, val string) error {
	if v.frozen {
		return fmt.Errorf("%w: value %q is frozen", ErrReadOnly, v.name)
	}
	if v.extra == nil {
		v.extra = make(map[string]string, 1)
	}
	v.extra[key] = val
	return nil
}

// Equal — равенство по паре (ординал, имя). Остальные атрибуты не участвуют.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.ordinal == o.ordinal && v.name == o.name
}

// freeze идемпотентна: повторно используемые значения уже заморожены и
// опубликованы, писать в них второй раз нельзя (безлоковые читатели).
// Незамороженным может быть только свежесозданное значение, ещё не видимое
// снаружи; сборки сериализованы на buildMu, так что запись безопасна.
func (v *Value) freeze() {
	if v.frozen {
		return
	}
	v.frozen = true
}

// Frozen сообщает, опубликовано ли значение.
func (v *Value) Frozen() bool { return v.frozen }
