package enum

// DummyOrdinalBase — стартовый ординал деградированного режима. Высокая база
// исключает коллизии с реальными id, когда таблица наконец появится.
const DummyOrdinalBase = 1_000_000

// dummyStore раздаёт синтетические значения, когда таблицы ещё нет
// (ранний bootstrap до миграций). Ничего не персистит: значения существуют
// только чтобы константы на что-то резолвились. Счётчик — свой на каждый
// Type, ординальные пространства деградированных типов независимы.
// Повторная регистрация по живой таблице полностью выбрасывает dummy-значения.
type dummyStore struct {
	next int64
}

func newDummyStore() *dummyStore {
	return &dummyStore{next: DummyOrdinalBase}
}

// values выдаёт по значению на имя, сохраняя входной порядок.
func (d *dummyStore) values(required []string) []*Value {
	out := make([]*Value, 0, len(required))
	for _, name := range required {
		out = append(out, &Value{ordinal: d.next, name: name})
		d.next++
	}
	return out
}
