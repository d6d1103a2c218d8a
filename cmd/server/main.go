package main

import (
	"context"
	"fmt"
	"log"

	"enumka/internal/api"
	"enumka/internal/config"
	"enumka/internal/dsl"
	"enumka/internal/enum"
	"enumka/internal/mem"
	"enumka/internal/pg"
	"enumka/internal/reference"
)

func main() {
	cfg := config.LoadWithPath("enumka.json")
	ctx := context.Background()

	// 1. Загружаем объявления справочников
	enumTypes, err := reference.LoadEnumTypes(cfg.RefDir)
	if err != nil {
		log.Fatalf("Ошибка загрузки справочников: %v", err)
	}
	fmt.Printf("Загружено объявлений справочников: %d\n", len(enumTypes))

	// 2. Хранилище: Postgres или in-memory
	var store enum.Store
	var pgStore *pg.Store
	if cfg.DBURL != "" {
		db, err := pg.Open(cfg.DBURL)
		if err != nil {
			log.Fatalf("Ошибка подключения к Postgres: %v", err)
		}
		pgStore = pg.NewStore(db)
		store = pgStore
	} else {
		ms := mem.New()
		// без БД таблицы создаём сразу — иначе все справочники деградированные
		for _, et := range enumTypes {
			ms.CreateTable(et.Table)
		}
		store = ms
	}

	// 3. AutoMigrate: таблицы справочников (идемпотентно)
	if pgStore != nil && cfg.AutoMigrate {
		for _, et := range enumTypes {
			if err := pgStore.EnsureTable(ctx, et.Table, et.NameAttribute); err != nil {
				log.Fatalf("Ошибка миграции %s: %v", et.Table, err)
			}
		}
	}

	// 4. Регистрируем справочники (деградация — не фатальна, будет notice)
	dir := enum.NewDirectory()
	for _, et := range enumTypes {
		t := enum.NewType(et.Name, et.Table, store)
		if err := dir.Register(ctx, t, et.Required, et.NameAttribute); err != nil {
			log.Fatalf("Ошибка регистрации справочника %s: %v", et.Name, err)
		}
	}
	fmt.Printf("Зарегистрировано справочников: %d\n", len(dir.Types()))

	// 5. Схемы сущностей-хозяев
	entities, err := dsl.LoadAllEntities(cfg.DSLDir)
	if err != nil {
		log.Fatalf("Ошибка загрузки DSL: %v", err)
	}
	fmt.Printf("Загружено сущностей: %d\n", len(entities))

	storage, err := api.NewStorage(entities, dir)
	if err != nil {
		log.Fatalf("Ошибка связывания enum-полей: %v", err)
	}

	// 6. REST API
	fmt.Printf("Стартуем сервер enumka на :%s...\n", cfg.Port)
	api.RunServer(":"+cfg.Port, storage)
}
