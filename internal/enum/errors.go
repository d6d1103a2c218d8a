package enum

import "errors"

// Виды ошибок ядра. API-слой мапит их на свои коды (helpers.go).
var (
	// ErrNotFound — строгий lookup по имени/ординалу без совпадения.
	ErrNotFound = errors.New("enum: not found")
	// ErrInvalidConstant — сеттеру связи передали имя, которого нет в справочнике.
	ErrInvalidConstant = errors.New("enum: invalid constant")
	// ErrReadOnly — попытка create/update/delete для замороженного справочника.
	ErrReadOnly = errors.New("enum: read-only")
	// ErrUninitialized — Reinitialize до первого Register. Ошибка программиста.
	ErrUninitialized = errors.New("enum: registry not initialized")
)
