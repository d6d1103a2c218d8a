package dsl

// Entity описывает схему сущности-хозяина из DSL.
type Entity struct {
	Name   string
	Fields []Field
}

// Field описывает поле сущности.
type Field struct {
	Name     string
	Type     string            // string, int, float, bool, enumref
	EnumType string            // имя справочника, если поле типа enumref
	Options  map[string]string // required и прочие опции
}

// Required — флаг required у поля.
func (f Field) Required() bool {
	return f.Options["required"] == "true"
}

// EnumRefs возвращает поля-ссылки на справочники.
func (e *Entity) EnumRefs() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.Type == "enumref" {
			out = append(out, f)
		}
	}
	return out
}
