package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
)

const (
	connMaxLifetime = 30 * time.Minute
	maxOpenConns    = 10
	maxIdleConns    = 5
	pingTimeout     = 5 * time.Second
)

// Open открывает пул соединений к Postgres для таблиц справочников и
// проверяет связь коротким ping. Пустой url — ошибка вызывающего:
// режим без БД обслуживает internal/mem, не этот пакет.
func Open(url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("pg: пустой database url")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("pg: open: %w", err)
	}
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return db, nil
}
