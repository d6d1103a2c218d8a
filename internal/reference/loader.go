package reference

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadEnumTypes читает все объявления справочников из папки (*.yaml / *.yml).
// Имя справочника — из поля name или из имени файла.
func LoadEnumTypes(dir string) ([]EnumType, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var result []EnumType
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if !strings.HasSuffix(file.Name(), ".yaml") && !strings.HasSuffix(file.Name(), ".yml") {
			continue
		}
		path := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var et EnumType
		if err := yaml.Unmarshal(data, &et); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		et.normalize(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
		if len(et.Required) == 0 {
			return nil, fmt.Errorf("%s: пустой required", path)
		}
		result = append(result, et)
	}
	return result, nil
}
