package enum

import "context"

// Row — сырая строка справочника из хранилища.
type Row struct {
	ID    int64
	Name  string
	Extra map[string]string
}

// Store — контракт хранилища-коллаборатора. Реализации: internal/pg (Postgres),
// internal/mem (in-memory, тесты и запуск без БД).
type Store interface {
	// TableExists — есть ли таблица справочника (до миграций её может не быть).
	TableExists(ctx context.Context, table string) (bool, error)

	// FindOrCreate ищет строку по nameAttr==name, при отсутствии создаёт
	// (ординал назначает хранилище). Это единственный канал записи кэшера,
	// он обязан работать и после SetReadOnly. Гонку двух процессов за одно
	// имя разрешает уникальность на стороне хранилища.
	FindOrCreate(ctx context.Context, table, nameAttr, name string) (Row, error)

	// FetchAll возвращает все строки таблицы в порядке ординалов.
	FetchAll(ctx context.Context, table, nameAttr string) ([]Row, error)

	// FetchExcluding — все строки, чьи id не входят в ids (лишние значения).
	FetchExcluding(ctx context.Context, table, nameAttr string, ids []int64) ([]Row, error)

	// SetReadOnly ставит/снимает сторожа: внешние create/update/delete по
	// таблице отклоняются с ErrReadOnly.
	SetReadOnly(table string, readonly bool)
}
