package reference

import "strings"

// EnumType описывает один справочник: где он живёт в хранилище и какие
// имена обязаны существовать после регистрации.
type EnumType struct {
	Name          string   `yaml:"name"`
	Table         string   `yaml:"table"`          // default: plural(Name)
	NameAttribute string   `yaml:"name_attribute"` // default: "name"
	Required      []string `yaml:"required"`       // порядок объявления значим
}

// normalize подставляет дефолты после загрузки.
func (e *EnumType) normalize(fallbackName string) {
	if e.Name == "" {
		e.Name = fallbackName
	}
	if e.Table == "" {
		e.Table = plural(e.Name)
	}
	if e.NameAttribute == "" {
		e.NameAttribute = "name"
	}
}

// элементарная плюрализация (достаточно для statuses, genres, ...)
func plural(s string) string {
	s = strings.ToLower(s)
	if strings.HasSuffix(s, "s") {
		return s + "es"
	}
	return s + "s"
}
