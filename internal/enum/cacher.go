package enum

import (
	"context"
	"fmt"
)

// cacheConstants сверяет required-имена с хранилищем: по живой таблице —
// find-or-create в объявленном порядке (посторонние строки не трогаем),
// без таблицы — синтетика от dummyStore + уведомление о деградации.
// Возвращает значения во входном порядке; они же — зерно нового снапшота.
// Идемпотентно: повторный прогон по той же таблице не плодит строк.
func (t *Type) cacheConstants(ctx context.Context, required []string, nameAttr string) ([]*Value, bool, error) {
	exists, err := t.store.TableExists(ctx, t.table)
	if err != nil {
		return nil, false, fmt.Errorf("enum %s: table check: %w", t.name, err)
	}

	if !exists {
		// деградированный режим: не ошибка, просто живём на заглушках,
		// Reinitialize по живой таблице самоизлечит
		t.notify("enum %s: таблица %s не найдена, работаем на dummy-значениях (ординалы от %d)",
			t.name, t.table, DummyOrdinalBase)
		return newDummyStore().values(required), true, nil
	}

	out := make([]*Value, 0, len(required))
	for _, name := range required {
		row, err := t.store.FindOrCreate(ctx, t.table, nameAttr, name)
		if err != nil {
			return nil, false, fmt.Errorf("enum %s: find-or-create %q: %w", t.name, name, err)
		}
		out = append(out, newValue(row))
	}
	return out, false, nil
}
