package dsl

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	entityRe  = regexp.MustCompile(`^entity\s+(\w+):`)
	fieldRe   = regexp.MustCompile(`^\s*([\w_]+):\s*([^\s#]+)(.*)$`)
	enumrefRe = regexp.MustCompile(`^enumref\[([A-Za-z0-9_]+)\]$`)
)

// LoadEntities читает один .dsl-файл и возвращает список Entity.
//
// Формат:
//
//	entity Book:
//	  title: string required
//	  status: enumref[book_status] required
//	  genre: enumref[genre]
func LoadEntities(path string) ([]*Entity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entities []*Entity
	var current *Entity

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// entity <Name>:
		if m := entityRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				entities = append(entities, current)
			}
			current = &Entity{Name: m[1]}
			continue
		}
		if current == nil {
			// игнорируем всё вне сущности
			continue
		}

		// поле: <name>: <type> [опции]
		if m := fieldRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			rawType := m[2]
			tail := m[3]

			// срезать комментарий в хвосте
			if i := strings.IndexByte(tail, '#'); i >= 0 {
				tail = tail[:i]
			}

			f := Field{Name: name, Type: strings.ToLower(rawType), Options: map[string]string{}}

			// enumref[<справочник>]
			if mm := enumrefRe.FindStringSubmatch(rawType); mm != nil {
				f.Type = "enumref"
				f.EnumType = strings.ToLower(strings.TrimSpace(mm[1]))
			}

			// опции: флаг без значения -> "true", k=v как есть
			for _, tok := range strings.Fields(tail) {
				if !strings.Contains(tok, "=") {
					f.Options[strings.ToLower(tok)] = "true"
					continue
				}
				kv := strings.SplitN(tok, "=", 2)
				k := strings.ToLower(strings.TrimSpace(kv[0]))
				if k != "" {
					f.Options[k] = strings.Trim(kv[1], `"'`)
				}
			}

			current.Fields = append(current.Fields, f)
			continue
		}
	}

	if current != nil {
		entities = append(entities, current)
	}
	return entities, scanner.Err()
}

// LoadAllEntities обходит директорию и собирает все *.dsl. Имена сущностей
// должны быть уникальны.
func LoadAllEntities(root string) (map[string]*Entity, error) {
	result := make(map[string]*Entity)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".dsl") {
			return nil
		}

		ents, err := LoadEntities(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		for _, e := range ents {
			if e == nil || e.Name == "" {
				return fmt.Errorf("empty entity name in %s", path)
			}
			key := strings.ToLower(e.Name)
			if _, exists := result[key]; exists {
				return fmt.Errorf("duplicate entity %q (file: %s)", e.Name, path)
			}
			result[key] = e
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
