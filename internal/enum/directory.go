package enum

import (
	"context"
	"fmt"
	"sync"
)

// Directory — явный процессный реестр всех справочников (одна инъецируемая
// ручка вместо неявного глобала). Типы добавляются ровно один раз при первой
// регистрации и не удаляются; единственное массовое применение — веерный
// ReinitializeAll после внешних изменений хранилища.
type Directory struct {
	mu    sync.RWMutex
	types []*Type // порядок регистрации сохраняем
	index map[string]*Type
}

func NewDirectory() *Directory {
	return &Directory{index: make(map[string]*Type)}
}

// Register регистрирует справочник и заносит его в каталог (однократно).
func (d *Directory) Register(ctx context.Context, t *Type, required []string, nameAttr string) error {
	if err := t.Register(ctx, required, nameAttr); err != nil {
		return err
	}
	d.add(t)
	return nil
}

func (d *Directory) add(t *Type) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.index[t.name]; ok {
		return
	}
	d.index[t.name] = t
	d.types = append(d.types, t)
}

// Lookup находит справочник по имени.
func (d *Directory) Lookup(name string) (*Type, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.index[name]
	return t, ok
}

// Types — снимок списка справочников в порядке регистрации.
func (d *Directory) Types() []*Type {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Type(nil), d.types...)
}

// ReinitializeAll пересобирает все справочники. Первая ошибка прерывает веер.
func (d *Directory) ReinitializeAll(ctx context.Context) error {
	for _, t := range d.Types() {
		if err := t.Reinitialize(ctx); err != nil {
			return fmt.Errorf("reinitialize %s: %w", t.name, err)
		}
	}
	return nil
}
