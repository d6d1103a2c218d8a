package config

import (
	"encoding/json"
	"flag"
	"os"
	"strings"
)

type Config struct {
	Port        string `json:"port"`
	RefDir      string `json:"refDir"`      // объявления справочников (yaml)
	DSLDir      string `json:"dslDir"`      // схемы сущностей-хозяев
	DBURL       string `json:"dbUrl"`       // пусто = in-memory
	AutoMigrate bool   `json:"autoMigrate"` // создавать таблицы справочников при регистрации
}

func def() Config {
	return Config{
		Port:        "8080",
		RefDir:      "reference/enums",
		DSLDir:      "dsl",
		DBURL:       "",
		AutoMigrate: false,
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

// applyEnv накладывает ENV-переопределения (вынесено отдельно для тестов).
func applyEnv(cfg Config) Config {
	cfg.Port = getenv("ENUMKA_PORT", cfg.Port)
	cfg.RefDir = getenv("ENUMKA_REF_DIR", cfg.RefDir)
	cfg.DSLDir = getenv("ENUMKA_DSL_DIR", cfg.DSLDir)
	cfg.DBURL = getenv("ENUMKA_DB_URL", cfg.DBURL)
	cfg.AutoMigrate = getenvBool("ENUMKA_AUTO_MIGRATE", cfg.AutoMigrate)
	return cfg
}

// LoadWithPath читает JSON по указанному пути, потом применяет ENV и флаги.
func LoadWithPath(jsonPath string) Config {
	cfg := def()

	// JSON (если файл существует)
	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg = applyEnv(cfg)

	// Flags overrides. Свой FlagSet на каждый вызов: перечитывание по -config
	// рекурсивно, на flag.CommandLine повторная регистрация флагов — паника.
	fs := flag.NewFlagSet("enumka", flag.ExitOnError)
	configPath := fs.String("config", jsonPath, "Path to config JSON")
	port := fs.String("port", cfg.Port, "HTTP port")
	refs := fs.String("refs", cfg.RefDir, "Path to enum declarations directory")
	dslDir := fs.String("dsl", cfg.DSLDir, "Path to DSL directory")
	db := fs.String("db", cfg.DBURL, "Postgres URL (empty = in-memory)")
	auto := fs.Bool("auto-migrate", cfg.AutoMigrate, "Create enum tables on registration")

	_ = fs.Parse(os.Args[1:])

	// Если через флаг передали другой конфиг — перечитаем
	if *configPath != jsonPath {
		return LoadWithPath(*configPath)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.RefDir = strings.TrimSpace(*refs)
	cfg.DSLDir = strings.TrimSpace(*dslDir)
	cfg.DBURL = strings.TrimSpace(*db)
	cfg.AutoMigrate = *auto

	return cfg
}
