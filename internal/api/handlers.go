package api

import (
	"net/http"
	"strconv"

	"enumka/internal/enum"

	"github.com/gin-gonic/gin"
)

// ===== ENUM HANDLERS =====

type valueJSON struct {
	Ordinal int64  `json:"ordinal"`
	Name    string `json:"name"`
}

func toValueJSON(v *enum.Value) valueJSON {
	return valueJSON{Ordinal: v.Ordinal(), Name: v.Name()}
}

func toValuesJSON(vals []*enum.Value) []valueJSON {
	out := make([]valueJSON, 0, len(vals))
	for _, v := range vals {
		out = append(out, toValueJSON(v))
	}
	return out
}

// GET /api/enums
func EnumListHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		types := storage.Dir.Types()
		out := make([]gin.H, 0, len(types))
		for _, t := range types {
			out = append(out, gin.H{
				"name":     t.Name(),
				"table":    t.Table(),
				"degraded": t.Degraded(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/enums/:type — мета справочника
func EnumMetaHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := storage.Dir.Lookup(c.Param("type"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		constants := gin.H{}
		for token, v := range t.Constants() {
			constants[token] = toValueJSON(v)
		}
		c.JSON(http.StatusOK, gin.H{
			"name":      t.Name(),
			"table":     t.Table(),
			"required":  t.RequiredNames(),
			"degraded":  t.Degraded(),
			"build_id":  t.BuildID(),
			"constants": constants,
		})
	}
}

// GET /api/enums/:type/values — обязательные значения в объявленном порядке
func EnumValuesHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := storage.Dir.Lookup(c.Param("type"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		c.JSON(http.StatusOK, toValuesJSON(t.Values()))
	}
}

// GET /api/enums/:type/all — required + лишние строки таблицы
func EnumAllValuesHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := storage.Dir.Lookup(c.Param("type"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		c.JSON(http.StatusOK, toValuesJSON(t.AllValues()))
	}
}

// GET /api/enums/:type/by-name/:name
func EnumByNameHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := storage.Dir.Lookup(c.Param("type"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		v, ok := t.ByName(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"errors": []FieldError{ferr(ErrNotFound, "name", "No such member")},
			})
			return
		}
		c.JSON(http.StatusOK, toValueJSON(v))
	}
}

// GET /api/enums/:type/by-ordinal/:ordinal
func EnumByOrdinalHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := storage.Dir.Lookup(c.Param("type"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enum type not found"})
			return
		}
		ord, err := strconv.ParseInt(c.Param("ordinal"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": []FieldError{ferr(ErrTypeMismatch, "ordinal", "Ordinal must be an integer")},
			})
			return
		}
		v, ok := t.ByOrdinal(ord)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"errors": []FieldError{ferr(ErrNotFound, "ordinal", "No such member")},
			})
			return
		}
		c.JSON(http.StatusOK, toValueJSON(v))
	}
}
