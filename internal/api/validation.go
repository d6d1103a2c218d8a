package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"enumka/internal/dsl"
	"enumka/internal/enum"
)

// ValidateRecord валидирует и НОРМАЛИЗУЕТ obj под схему: примитивы коэрсим
// строго, enumref-поля резолвим через связку (имя/ординал/null -> ординал).
// В хранилище enum-поле всегда ложится ординалом.
func ValidateRecord(storage *Storage, schema *dsl.Entity, obj map[string]any) []FieldError {
	var errs []FieldError
	entityKey := strings.ToLower(schema.Name)

	// 1) required
	for _, f := range schema.Fields {
		if f.Required() {
			if v, ok := obj[f.Name]; !ok || v == nil {
				errs = append(errs, ferr(ErrRequired, f.Name, "Field '"+f.Name+"' is required"))
			}
		}
	}

	// 2) типы и enum-связки
	for _, f := range schema.Fields {
		v, ok := obj[f.Name]
		if !ok {
			continue
		}

		if f.Type == "enumref" {
			b, ok := storage.Binding(entityKey, f.Name)
			if !ok {
				errs = append(errs, ferr(ErrTypeMismatch, f.Name, "No binding for '"+f.Name+"'"))
				continue
			}
			fk, err := assignEnumRef(b, v)
			if err != nil {
				code := codeForErr(err)
				errs = append(errs, ferr(code, f.Name, err.Error()))
				continue
			}
			// валидация хозяина: ненулевой fk обязан быть известным ординалом
			if err := b.Validate(fk); err != nil {
				errs = append(errs, ferr(ErrEnumInvalid, f.Name,
					fmt.Sprintf("Unknown %s ordinal", b.Target.Name())))
				continue
			}
			if fk == nil {
				obj[f.Name] = nil
			} else {
				obj[f.Name] = *fk
			}
			continue
		}

		norm, err := coerceValue(f, v)
		if err != nil {
			errs = append(errs, ferr(ErrTypeMismatch, f.Name, "Field '"+f.Name+"' "+err.Error()))
			continue
		}
		obj[f.Name] = norm
	}

	return errs
}

// assignEnumRef превращает сырое JSON-значение в Ref и резолвит его.
// Строка — символьное имя (строгий lookup), число — сырой ординал, null — сброс.
func assignEnumRef(b enum.Binding, v any) (*int64, error) {
	switch t := v.(type) {
	case nil:
		return b.Assign(enum.NullRef())
	case string:
		return b.Assign(enum.NameRef(t))
	case float64: // JSON числа приходят как float64
		if t != float64(int64(t)) {
			return nil, errors.New("ordinal must be an integer")
		}
		return b.Assign(enum.OrdinalRef(int64(t)))
	case int64:
		return b.Assign(enum.OrdinalRef(t))
	default:
		return nil, errors.New("must be a name, an ordinal or null")
	}
}

func coerceValue(f dsl.Field, v any) (any, error) {
	switch f.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("must be string")
		}
		return s, nil
	case "int":
		return toIntStrict(v)
	case "float":
		switch t := v.(type) {
		case float64:
			return t, nil
		case string:
			fl, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, errors.New("must be float")
			}
			return fl, nil
		default:
			return nil, errors.New("must be float")
		}
	case "bool":
		bl, ok := v.(bool)
		if !ok {
			return nil, errors.New("must be bool")
		}
		return bl, nil
	default:
		// неизвестный тип — оставим как есть
		return v, nil
	}
}

func toIntStrict(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, errors.New("must be integer")
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, errors.New("must be integer")
		}
		return n, nil
	default:
		return 0, errors.New("must be integer")
	}
}
