package api

import (
	"net/http"
	"strings"
	"time"

	"enumka/internal/dsl"

	"github.com/gin-gonic/gin"
)

// ===== RECORD HANDLERS (сущности-хозяева с enum-ссылками) =====

// POST /api/records/:entity
func RecordCreateHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity := c.Param("entity")
		schema, ok := storage.Schema(entity)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		var obj map[string]any
		if err := c.ShouldBindJSON(&obj); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		// валидация — без write-lock
		if errs := ValidateRecord(storage, schema, obj); len(errs) > 0 {
			c.JSON(statusForErrors(errs), gin.H{"errors": errs})
			return
		}

		storage.mu.Lock()
		defer storage.mu.Unlock()

		key := schemaKey(schema)
		if storage.Data[key] == nil {
			storage.Data[key] = make(map[string]*Record)
		}
		now := time.Now().UTC()
		rec := &Record{
			ID:        storage.newID(),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
			Data:      obj,
		}
		storage.Data[key][rec.ID] = rec
		c.JSON(http.StatusCreated, flattenResolved(storage, key, rec))
	}
}

// GET /api/records/:entity
func RecordListHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity := c.Param("entity")
		schema, ok := storage.Schema(entity)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		storage.mu.RLock()
		defer storage.mu.RUnlock()

		key := schemaKey(schema)
		out := make([]map[string]any, 0, len(storage.Data[key]))
		for _, rec := range storage.Data[key] {
			out = append(out, flattenResolved(storage, key, rec))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/records/:entity/:id
func RecordGetHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		entity := c.Param("entity")
		schema, ok := storage.Schema(entity)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		storage.mu.RLock()
		defer storage.mu.RUnlock()

		key := schemaKey(schema)
		rec := storage.Data[key][c.Param("id")]
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"errors": []FieldError{ferr(ErrNotFound, "id", "Record not found")},
			})
			return
		}
		c.JSON(http.StatusOK, flattenResolved(storage, key, rec))
	}
}

// flattenResolved — flatten + резолв enum-полей через кэш справочника:
// рядом с ординалом отдаём имя ("<поле>_name"). В хранилище не ходим.
func flattenResolved(storage *Storage, entityKey string, rec *Record) map[string]any {
	out := flatten(rec)
	for field, b := range storage.Bindings[entityKey] {
		raw, ok := rec.Data[field]
		if !ok || raw == nil {
			continue
		}
		ord, ok := raw.(int64)
		if !ok {
			continue
		}
		if v, ok := b.Resolve(&ord); ok {
			out[field+"_name"] = v.Name()
		}
	}
	return out
}

func schemaKey(schema *dsl.Entity) string { return strings.ToLower(schema.Name) }
